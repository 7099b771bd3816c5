package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcNet implements a fully connected actor-critic network. The policy
// and value networks are two independent stacks of linear + ReLU
// layers over the same observation; no weights are shared between
// them. Each stack ends in its own linear head.
type fcNet struct {
	acCore
	piStack []*fcLayer
	vStack  []*fcLayer
}

// NewFCNet returns a fully connected actor-critic network over
// flattened observations with the given number of features. The
// hidden layer widths are taken from the configuration.
func NewFCNet(features, batch, numActions int,
	config Config) (ActorCritic, error) {
	config, err := config.complete()
	if err != nil {
		return nil, fmt.Errorf("newfcnet: %v", err)
	}
	if features <= 0 {
		return nil, fmt.Errorf("newfcnet: features must be positive, "+
			"got %v", features)
	}
	if len(config.Hiddens) == 0 {
		return nil, fmt.Errorf("newfcnet: at least one hidden layer is " +
			"required")
	}

	g := G.NewGraph()
	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, features),
		G.WithName("obs"),
		G.WithInit(G.Zeroes()),
	)

	net := &fcNet{
		acCore: acCore{
			g:          g,
			input:      input,
			obsShape:   []int{features},
			numOutputs: numActions,
			batchSize:  batch,
		},
	}

	init := config.Init.InitWFn()
	biasInit := config.BiasInit.InitWFn()
	net.piStack = makeStack(g, features, config.Hiddens, init, biasInit,
		"pi")
	net.vStack = makeStack(g, features, config.Hiddens, init, biasInit, "v")
	for _, layer := range net.piStack {
		net.layers = append(net.layers, layer)
	}
	for _, layer := range net.vStack {
		net.layers = append(net.layers, layer)
	}

	piEmb, err := fwdStack(net.piStack, input)
	if err != nil {
		return nil, fmt.Errorf("newfcnet: could not compute policy "+
			"stack: %v", err)
	}
	vEmb, err := fwdStack(net.vStack, input)
	if err != nil {
		return nil, fmt.Errorf("newfcnet: could not compute value "+
			"stack: %v", err)
	}

	lastHidden := config.Hiddens[len(config.Hiddens)-1]
	if err := net.attachSplitHeads(piEmb, vEmb, lastHidden, init,
		biasInit); err != nil {
		return nil, fmt.Errorf("newfcnet: %v", err)
	}

	return net, nil
}

// attachSplitHeads is like acCore.attachHeads but gives the policy
// and value heads separate embedding inputs.
func (f *fcNet) attachSplitHeads(piEmb, vEmb *G.Node, features int,
	init, biasInit G.InitWFn) error {
	piHead := newFCLayer(f.g, features, f.numOutputs, init, biasInit,
		Identity(), "pi_head")
	vHead := newFCLayer(f.g, features, 1, init, biasInit, Identity(),
		"v_head")
	f.layers = append(f.layers, piHead, vHead)

	logits, err := piHead.fwd(piEmb)
	if err != nil {
		return fmt.Errorf("attachsplitheads: could not compute policy "+
			"head: %v", err)
	}

	value, err := vHead.fwd(vEmb)
	if err != nil {
		return fmt.Errorf("attachsplitheads: could not compute value "+
			"head: %v", err)
	}

	value, err = G.Ravel(value)
	if err != nil {
		return fmt.Errorf("attachsplitheads: could not flatten value "+
			"head: %v", err)
	}

	f.logits = logits
	f.value = value
	G.Read(f.logits, &f.logitsVal)
	G.Read(f.value, &f.valueVal)
	return nil
}

// makeStack creates one linear + ReLU layer per hidden width.
func makeStack(g *G.ExprGraph, features int, hiddens []int,
	init, biasInit G.InitWFn, prefix string) []*fcLayer {
	layers := make([]*fcLayer, len(hiddens))
	in := features
	for i, out := range hiddens {
		layers[i] = newFCLayer(g, in, out, init, biasInit, ReLU(),
			fmt.Sprintf("%v_fc%v", prefix, i))
		in = out
	}
	return layers
}

// fwdStack runs the forward pass of a layer stack.
func fwdStack(layers []*fcLayer, x *G.Node) (*G.Node, error) {
	var err error
	for i, layer := range layers {
		if x, err = layer.fwd(x); err != nil {
			return nil, fmt.Errorf("fwdstack: could not compute forward "+
				"pass of layer %v: %v", i, err)
		}
	}
	return x, nil
}
