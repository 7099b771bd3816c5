package network

import (
	"testing"

	G "gorgonia.org/gorgonia"
)

func TestDQNNetEncoderShapes(t *testing.T) {
	numActions := 4
	ac, err := NewDQNNet([]int{84, 84, 4}, 1, numActions, Config{})
	if err != nil {
		t.Fatal(err)
	}
	net := ac.(*dqnNet)

	// Kernel/stride schedule 8/4, 4/2, 4/2 with channels 32/64/64
	wantFilters := [][]int{{32, 4, 8, 8}, {64, 32, 4, 4}, {64, 64, 4, 4}}
	for i, conv := range net.convs {
		shape := conv.weights.Shape()
		for d := range wantFilters[i] {
			if shape[d] != wantFilters[i][d] {
				t.Errorf("conv %v filter shape \n\twant(%v) \n\thave(%v)",
					i, wantFilters[i], shape)
				break
			}
		}
	}

	// The schedule shrinks 84x84 to 3x3, so 3x3x64 = 576 features
	// feed the hidden projection
	if shape := net.fc.weights.Shape(); shape[0] != 576 ||
		shape[1] != 512 {
		t.Errorf("projection shape \n\twant([576 512]) \n\thave(%v)",
			shape)
	}

	if shape := net.logits.Shape(); shape[0] != 1 ||
		shape[1] != numActions {
		t.Errorf("logits shape \n\twant([1 %v]) \n\thave(%v)", numActions,
			shape)
	}
}

func TestDQNNetForward(t *testing.T) {
	ac, err := NewDQNNet([]int{84, 84, 4}, 1, 6, Config{})
	if err != nil {
		t.Fatal(err)
	}

	obs := make([]float64, 84*84*4)
	for i := range obs {
		obs[i] = float64(i % 256)
	}
	if err := ac.SetObservation(obs); err != nil {
		t.Fatal(err)
	}

	vm := G.NewTapeMachine(ac.Graph())
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	if shape := ac.LogitsVal().Shape(); shape[0] != 1 || shape[1] != 6 {
		t.Errorf("logits shape \n\twant([1 6]) \n\thave(%v)", shape)
	}
	if shape := ac.Value().Shape(); shape[0] != 1 {
		t.Errorf("value shape \n\twant([1]) \n\thave(%v)", shape)
	}
}

func TestDQNNetRejectsFlatObservations(t *testing.T) {
	if _, err := NewDQNNet([]int{84}, 1, 4, Config{}); err == nil {
		t.Error("expected a non-image observation shape to be rejected")
	}
}
