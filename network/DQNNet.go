package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// DQN convolutional encoder schedule
var (
	dqnChannels = []int{32, 64, 64}
	dqnKernels  = []int{8, 4, 4}
	dqnStrides  = []int{4, 2, 2}
)

// dqnNet implements the DQN convolutional actor-critic: three
// convolution + ReLU stages over a channel-last image observation
// scaled to [0, 1], flattened, projected through one hidden linear +
// ReLU layer, then split into policy and value heads.
type dqnNet struct {
	acCore
	convs []*conv2dLayer
	fc    *fcLayer
}

// NewDQNNet returns a DQN convolutional actor-critic network.
// obsShape is the channel-last (height, width, channel) shape of one
// observation; the pixel values are expected in [0, 255].
func NewDQNNet(obsShape []int, batch, numActions int,
	config Config) (ActorCritic, error) {
	config, err := config.complete()
	if err != nil {
		return nil, fmt.Errorf("newdqnnet: %v", err)
	}
	if len(obsShape) != 3 {
		return nil, fmt.Errorf("newdqnnet: observations must be (height, "+
			"width, channel), got shape %v", obsShape)
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

	net := &dqnNet{
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

	// Build the convolutional stages and track the spatial size
	height, width := obsShape[0], obsShape[1]
	in := obsShape[2]
	for i, out := range dqnChannels {
		conv := newConv2dLayer(g, in, out, dqnKernels[i], dqnStrides[i], 0,
			0, init, biasInit, ReLU(), fmt.Sprintf("conv%v", i))
		net.convs = append(net.convs, conv)
		net.layers = append(net.layers, conv)

		height = OutSize(height, dqnKernels[i], dqnStrides[i], 0)
		width = OutSize(width, dqnKernels[i], dqnStrides[i], 0)
		in = out
	}

	flat := height * width * dqnChannels[len(dqnChannels)-1]
	net.fc = newFCLayer(g, flat, config.HiddenSize, init, biasInit, ReLU(),
		"fc")
	net.layers = append(net.layers, net.fc)

	// Scale to [0, 1] and move the channel axis ahead of the spatial
	// axes
	x := G.Must(G.HadamardDiv(input, G.NewConstant(255.0)))
	x, err = G.Transpose(x, 0, 3, 1, 2)
	if err != nil {
		return nil, fmt.Errorf("newdqnnet: could not transpose "+
			"observation: %v", err)
	}

	for i, conv := range net.convs {
		if x, err = conv.fwd(x); err != nil {
			return nil, fmt.Errorf("newdqnnet: could not compute "+
				"convolution stage %v: %v", i, err)
		}
	}

	x, err = G.Reshape(x, tensor.Shape{batch, flat})
	if err != nil {
		return nil, fmt.Errorf("newdqnnet: could not flatten encoder "+
			"output: %v", err)
	}

	if x, err = net.fc.fwd(x); err != nil {
		return nil, fmt.Errorf("newdqnnet: could not compute hidden "+
			"projection: %v", err)
	}

	if err := net.attachHeads(x, config.HiddenSize, init,
		biasInit); err != nil {
		return nil, fmt.Errorf("newdqnnet: %v", err)
	}

	return net, nil
}
