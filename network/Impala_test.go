package network

import (
	"testing"
)

func TestImpalaNetEncoderShapes(t *testing.T) {
	numActions := 15
	ac, err := NewImpalaNet([]int{84, 84, 4}, 1, numActions, Config{})
	if err != nil {
		t.Fatal(err)
	}
	net := ac.(*impalaNet)

	if len(net.stages) != 4 {
		t.Fatalf("stage count \n\twant(%v) \n\thave(%v)", 4,
			len(net.stages))
	}

	wantIn := []int{4, 16, 32, 32}
	for i, stage := range net.stages {
		shape := stage.conv.weights.Shape()
		if shape[0] != impalaChannels[i] || shape[1] != wantIn[i] {
			t.Errorf("stage %v filter channels \n\twant([%v %v]) "+
				"\n\thave(%v)", i, impalaChannels[i], wantIn[i], shape[:2])
		}

		if len(stage.blocks) != impalaResBlocks {
			t.Errorf("stage %v residual blocks \n\twant(%v) \n\thave(%v)",
				i, impalaResBlocks, len(stage.blocks))
		}
	}

	// Max-pools halve (ceiling) the spatial size: 84 -> 42 -> 21 ->
	// 11 -> 6, so the encoder flattens to 6*6*32 features
	if shape := net.fc.weights.Shape(); shape[0] != 6*6*32 {
		t.Errorf("projection fan-in \n\twant(%v) \n\thave(%v)", 6*6*32,
			shape[0])
	}

	if shape := net.logits.Shape(); shape[1] != numActions {
		t.Errorf("logits shape \n\twant(%v outputs) \n\thave(%v)",
			numActions, shape)
	}
}

func TestImpalaPoolChain(t *testing.T) {
	size := 84
	want := []int{42, 21, 11, 6}
	for i := range impalaChannels {
		_, pad := SamePadding(size, impalaPoolKernel, impalaPoolStride)
		size = OutSize(size, impalaPoolKernel, impalaPoolStride, pad)
		if size != want[i] {
			t.Errorf("pool %v output \n\twant(%v) \n\thave(%v)", i,
				want[i], size)
		}
	}
}

func TestImpalaResidualSpatialShape(t *testing.T) {
	// Residual stages must preserve shape or the skip connection
	// could not be added back
	ac, err := NewImpalaNet([]int{36, 36, 3}, 1, 4, Config{})
	if err != nil {
		t.Fatal(err)
	}
	net := ac.(*impalaNet)

	// 36 -> 18 -> 9 -> 5 -> 3
	if shape := net.fc.weights.Shape(); shape[0] != 3*3*32 {
		t.Errorf("projection fan-in \n\twant(%v) \n\thave(%v)", 3*3*32,
			shape[0])
	}
}

func TestImpalaNonSquareObservation(t *testing.T) {
	// Padding is computed per spatial axis, so each axis pools down
	// independently: 36 -> 18 -> 9 -> 5 -> 3 and 84 -> 42 -> 21 ->
	// 11 -> 6
	ac, err := NewImpalaNet([]int{36, 84, 3}, 1, 4, Config{})
	if err != nil {
		t.Fatal(err)
	}
	net := ac.(*impalaNet)

	if shape := net.fc.weights.Shape(); shape[0] != 3*6*32 {
		t.Errorf("projection fan-in \n\twant(%v) \n\thave(%v)", 3*6*32,
			shape[0])
	}

	// Each layer carries its own padding per axis
	height, width := 36, 84
	for i, stage := range net.stages {
		_, wantPadH := SamePadding(height, impalaPoolKernel,
			impalaPoolStride)
		_, wantPadW := SamePadding(width, impalaPoolKernel,
			impalaPoolStride)
		if stage.pool.padH != wantPadH || stage.pool.padW != wantPadW {
			t.Errorf("stage %v pool padding \n\twant(%v %v) \n\thave(%v %v)",
				i, wantPadH, wantPadW, stage.pool.padH, stage.pool.padW)
		}

		height = OutSize(height, impalaPoolKernel, impalaPoolStride,
			wantPadH)
		width = OutSize(width, impalaPoolKernel, impalaPoolStride, wantPadW)
	}
}
