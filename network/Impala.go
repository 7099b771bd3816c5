package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// IMPALA residual encoder schedule
const (
	impalaConvKernel = 3
	impalaConvStride = 1
	impalaPoolKernel = 3
	impalaPoolStride = 2
	impalaResBlocks  = 2
)

var impalaChannels = []int{16, 32, 32, 32}

// impalaStage is one stage of the IMPALA encoder: a shape-preserving
// convolution, a downsampling max-pool and a group of residual
// blocks.
type impalaStage struct {
	conv   *conv2dLayer
	pool   *maxPool2dLayer
	blocks []*residualBlock
}

// impalaNet implements the IMPALA residual convolutional
// actor-critic. Four convolution stages, each followed by a
// zero-padded max-pool and two residual blocks, encode a channel-last
// image observation scaled to [0, 1]; the encoding is flattened,
// projected through one hidden linear layer, then split into policy
// and value heads.
type impalaNet struct {
	acCore
	stages []*impalaStage
	fc     *fcLayer
}

// NewImpalaNet returns an IMPALA residual actor-critic network.
// obsShape is the channel-last (height, width, channel) shape of one
// observation; the pixel values are expected in [0, 255].
func NewImpalaNet(obsShape []int, batch, numActions int,
	config Config) (ActorCritic, error) {
	config, err := config.complete()
	if err != nil {
		return nil, fmt.Errorf("newimpalanet: %v", err)
	}
	if len(obsShape) != 3 {
		return nil, fmt.Errorf("newimpalanet: observations must be "+
			"(height, width, channel), got shape %v", obsShape)
	}

	g := G.NewGraph()
	input := G.NewTensor(
		g,
		tensor.Float64,
		4,
		G.WithShape(batch, obsShape[0], obsShape[1], obsShape[2]),
		G.WithName("obs"),
		G.WithInit(G.Zeroes()),
	)

	net := &impalaNet{
		acCore: acCore{
			g:          g,
			input:      input,
			obsShape:   obsShape,
			numOutputs: numActions,
			batchSize:  batch,
		},
	}

	init := config.Init.InitWFn()
	biasInit := config.BiasInit.InitWFn()

	// Build the stages, tracking the spatial size through each
	// downsampling max-pool. The convolutions preserve it.
	height, width := obsShape[0], obsShape[1]
	in := obsShape[2]
	for i, out := range impalaChannels {
		_, convPadH := SamePadding(height, impalaConvKernel,
			impalaConvStride)
		_, convPadW := SamePadding(width, impalaConvKernel,
			impalaConvStride)
		conv := newConv2dLayer(g, in, out, impalaConvKernel,
			impalaConvStride, convPadH, convPadW, init, biasInit,
			Identity(), fmt.Sprintf("stage%v_conv", i))

		_, poolPadH := SamePadding(height, impalaPoolKernel,
			impalaPoolStride)
		_, poolPadW := SamePadding(width, impalaPoolKernel,
			impalaPoolStride)
		pool := &maxPool2dLayer{
			kernel: impalaPoolKernel,
			stride: impalaPoolStride,
			padH:   poolPadH,
			padW:   poolPadW,
		}

		height = OutSize(height, impalaPoolKernel, impalaPoolStride,
			poolPadH)
		width = OutSize(width, impalaPoolKernel, impalaPoolStride,
			poolPadW)

		stage := &impalaStage{conv: conv, pool: pool}
		for b := 0; b < impalaResBlocks; b++ {
			block := newResidualBlock(g, out, impalaConvKernel, height,
				width, init, biasInit, fmt.Sprintf("stage%v_res%v", i, b))
			stage.blocks = append(stage.blocks, block)
		}

		net.stages = append(net.stages, stage)
		net.layers = append(net.layers, conv)
		for _, block := range stage.blocks {
			net.layers = append(net.layers, block)
		}
		in = out
	}

	flat := height * width * impalaChannels[len(impalaChannels)-1]
	net.fc = newFCLayer(g, flat, config.HiddenSize, init, biasInit, ReLU(),
		"fc")
	net.layers = append(net.layers, net.fc)

	// Scale to [0, 1] and move the channel axis ahead of the spatial
	// axes
	x := G.Must(G.HadamardDiv(input, G.NewConstant(255.0)))
	x, err = G.Transpose(x, 0, 3, 1, 2)
	if err != nil {
		return nil, fmt.Errorf("newimpalanet: could not transpose "+
			"observation: %v", err)
	}

	for i, stage := range net.stages {
		if x, err = stage.fwd(x); err != nil {
			return nil, fmt.Errorf("newimpalanet: could not compute "+
				"stage %v: %v", i, err)
		}
	}

	x, err = G.Reshape(x, tensor.Shape{batch, flat})
	if err != nil {
		return nil, fmt.Errorf("newimpalanet: could not flatten encoder "+
			"output: %v", err)
	}

	// The residual blocks end without an activation, so apply one
	// before the hidden projection
	x = G.Must(G.Rectify(x))
	if x, err = net.fc.fwd(x); err != nil {
		return nil, fmt.Errorf("newimpalanet: could not compute hidden "+
			"projection: %v", err)
	}

	if err := net.attachHeads(x, config.HiddenSize, init,
		biasInit); err != nil {
		return nil, fmt.Errorf("newimpalanet: %v", err)
	}

	return net, nil
}

// fwd adds the forward pass of one IMPALA stage to the computational
// graph.
func (s *impalaStage) fwd(x *G.Node) (*G.Node, error) {
	x, err := s.conv.fwd(x)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not convolve: %v", err)
	}

	if x, err = s.pool.fwd(x); err != nil {
		return nil, fmt.Errorf("fwd: could not max-pool: %v", err)
	}

	for i, block := range s.blocks {
		if x, err = block.fwd(x); err != nil {
			return nil, fmt.Errorf("fwd: could not compute residual "+
				"block %v: %v", i, err)
		}
	}
	return x, nil
}
