package network

import (
	"testing"

	G "gorgonia.org/gorgonia"
)

func TestFCNetLayerShapes(t *testing.T) {
	config := Config{Hiddens: []int{64, 64}}
	numActions := 2

	ac, err := NewFCNet(4, 1, numActions, config)
	if err != nil {
		t.Fatal(err)
	}
	net := ac.(*fcNet)

	// Policy and value stacks are independent with shapes 4 -> 64 -> 64
	wantShapes := [][]int{{4, 64}, {64, 64}}
	for _, stack := range [][]*fcLayer{net.piStack, net.vStack} {
		if len(stack) != len(wantShapes) {
			t.Fatalf("stack depth \n\twant(%v) \n\thave(%v)",
				len(wantShapes), len(stack))
		}
		for i, layer := range stack {
			shape := layer.weights.Shape()
			if shape[0] != wantShapes[i][0] || shape[1] != wantShapes[i][1] {
				t.Errorf("layer %v weights \n\twant(%v) \n\thave(%v)", i,
					wantShapes[i], shape)
			}
		}
	}

	if shape := net.logits.Shape(); shape[0] != 1 ||
		shape[1] != numActions {
		t.Errorf("logits shape \n\twant([1 %v]) \n\thave(%v)", numActions,
			shape)
	}
}

func TestFCNetIndependentStacks(t *testing.T) {
	ac, err := NewFCNet(4, 1, 2, Config{Hiddens: []int{8}})
	if err != nil {
		t.Fatal(err)
	}
	net := ac.(*fcNet)

	for i, piLayer := range net.piStack {
		if piLayer.weights == net.vStack[i].weights {
			t.Errorf("layer %v shares weights between policy and value "+
				"stacks", i)
		}
	}

	// One hidden layer per stack plus two heads, each with weights
	// and bias
	if n := len(ac.Learnables()); n != 8 {
		t.Errorf("learnable count \n\twant(%v) \n\thave(%v)", 8, n)
	}
}

func TestFCNetForwardProducesValue(t *testing.T) {
	ac, err := NewFCNet(4, 1, 3, Config{Hiddens: []int{16, 16}})
	if err != nil {
		t.Fatal(err)
	}

	if err := ac.SetObservation([]float64{0.1, -0.2, 0.3, -0.4}); err != nil {
		t.Fatal(err)
	}

	vm := G.NewTapeMachine(ac.Graph())
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	logits := ac.LogitsVal()
	if logits == nil {
		t.Fatal("forward pass produced no logits")
	}
	if shape := logits.Shape(); shape[0] != 1 || shape[1] != 3 {
		t.Errorf("logits shape \n\twant([1 3]) \n\thave(%v)", shape)
	}

	value := ac.Value()
	if shape := value.Shape(); shape[0] != 1 {
		t.Errorf("value shape \n\twant([1]) \n\thave(%v)", shape)
	}
}

func TestFCNetValueBeforeForwardPanics(t *testing.T) {
	ac, err := NewFCNet(4, 1, 2, Config{})
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected Value() before the forward pass to panic")
		}
	}()
	ac.Value()
}

func TestFCNetRejectsBadObservation(t *testing.T) {
	ac, err := NewFCNet(4, 1, 2, Config{})
	if err != nil {
		t.Fatal(err)
	}

	if err := ac.SetObservation([]float64{1, 2, 3}); err == nil {
		t.Error("expected short observation to be rejected")
	}
}
