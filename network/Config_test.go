package network

import (
	"testing"
)

func TestMakeResolvesArchitectures(t *testing.T) {
	tests := []struct {
		name     string
		obsShape []int
	}{
		{FCNet, []int{4}},
		{DQN, []int{84, 84, 4}},
		{Impala, []int{84, 84, 4}},
	}

	for _, test := range tests {
		ac, err := Make(test.name, test.obsShape, 1, 2, Config{})
		if err != nil {
			t.Errorf("Make(%q): %v", test.name, err)
			continue
		}
		if ac.Outputs() != 2 {
			t.Errorf("Make(%q) outputs \n\twant(%v) \n\thave(%v)",
				test.name, 2, ac.Outputs())
		}
	}
}

func TestMakeUnknownArchitectureFails(t *testing.T) {
	if _, err := Make("lstm", []int{4}, 1, 2, Config{}); err == nil {
		t.Error("expected unknown architecture to fail")
	}
}

func TestConfigRejectsCUDA(t *testing.T) {
	_, err := NewFCNet(4, 1, 2, Config{Device: CUDA})
	if err == nil {
		t.Error("expected CUDA device to be rejected in a CPU-only build")
	}
}
