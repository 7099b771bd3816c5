package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Layer is one stage of an actor-critic network's forward pass.
type Layer interface {
	fwd(x *G.Node) (*G.Node, error)
	learnables() G.Nodes
}

// fcLayer implements a fully connected layer of a feed forward neural
// network.
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// newFCLayer adds a fully connected layer with the given fan-in and
// fan-out to the graph. Weights are initialized with init, biases
// with biasInit.
func newFCLayer(g *G.ExprGraph, in, out int, init, biasInit G.InitWFn,
	act *Activation, name string) *fcLayer {
	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(name+"_W"),
		G.WithInit(init),
	)
	bias := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(out),
		G.WithName(name+"_b"),
		G.WithInit(biasInit),
	)

	return &fcLayer{weights: weights, bias: bias, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph.
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x = G.Must(G.Mul(x, f.weights))

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x = G.Must(G.BroadcastAdd(x, f.bias, nil, []byte{0}))

	if f.act == nil || f.act.IsIdentity() {
		return x, nil
	}
	return f.act.fwd(x)
}

func (f *fcLayer) learnables() G.Nodes {
	return G.Nodes{f.weights, f.bias}
}

// conv2dLayer implements a 2-dimensional convolution over inputs in
// (batch, channel, height, width) layout.
type conv2dLayer struct {
	weights *G.Node // (out channels, in channels, kernel, kernel)
	bias    *G.Node // (1, out channels, 1, 1)
	kernel  int
	stride  int
	padH    int
	padW    int
	act     *Activation
}

// newConv2dLayer adds a square-kernel convolution layer to the graph.
// Padding is per spatial axis.
func newConv2dLayer(g *G.ExprGraph, in, out, kernel, stride, padH,
	padW int, init, biasInit G.InitWFn, act *Activation,
	name string) *conv2dLayer {
	weights := G.NewTensor(
		g,
		tensor.Float64,
		4,
		G.WithShape(out, in, kernel, kernel),
		G.WithName(name+"_W"),
		G.WithInit(init),
	)
	bias := G.NewTensor(
		g,
		tensor.Float64,
		4,
		G.WithShape(1, out, 1, 1),
		G.WithName(name+"_b"),
		G.WithInit(biasInit),
	)

	return &conv2dLayer{
		weights: weights,
		bias:    bias,
		kernel:  kernel,
		stride:  stride,
		padH:    padH,
		padW:    padW,
		act:     act,
	}
}

// fwd adds the forward pass of the convolution to the computational
// graph.
func (c *conv2dLayer) fwd(x *G.Node) (*G.Node, error) {
	x, err := G.Conv2d(
		x,
		c.weights,
		tensor.Shape{c.kernel, c.kernel},
		[]int{c.padH, c.padW},
		[]int{c.stride, c.stride},
		[]int{1, 1},
	)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not convolve: %v", err)
	}

	// Broadcast the per-channel bias over the batch and both spatial
	// dimensions
	x = G.Must(G.BroadcastAdd(x, c.bias, nil, []byte{0, 2, 3}))

	if c.act == nil || c.act.IsIdentity() {
		return x, nil
	}
	return c.act.fwd(x)
}

func (c *conv2dLayer) learnables() G.Nodes {
	return G.Nodes{c.weights, c.bias}
}

// maxPool2dLayer implements a zero-padded max-pool over inputs in
// (batch, channel, height, width) layout. It has no learnable
// weights.
type maxPool2dLayer struct {
	kernel int
	stride int
	padH   int
	padW   int
}

// fwd adds the forward pass of the max-pool to the computational
// graph.
func (m *maxPool2dLayer) fwd(x *G.Node) (*G.Node, error) {
	return G.MaxPool2D(
		x,
		tensor.Shape{m.kernel, m.kernel},
		[]int{m.padH, m.padW},
		[]int{m.stride, m.stride},
	)
}

func (m *maxPool2dLayer) learnables() G.Nodes {
	return nil
}

// residualBlock implements one residual block of the IMPALA
// architecture: two activation, pad, convolution stages whose output
// is added back to the block's input. Both convolutions preserve the
// spatial shape.
type residualBlock struct {
	conv1 *conv2dLayer
	conv2 *conv2dLayer
}

// newResidualBlock adds a residual block with the given channel count
// and spatial size to the graph.
func newResidualBlock(g *G.ExprGraph, channels, kernel, height, width int,
	init, biasInit G.InitWFn, name string) *residualBlock {
	_, padH := SamePadding(height, kernel, 1)
	_, padW := SamePadding(width, kernel, 1)

	conv1 := newConv2dLayer(g, channels, channels, kernel, 1, padH, padW,
		init, biasInit, Identity(), name+"_conv1")
	conv2 := newConv2dLayer(g, channels, channels, kernel, 1, padH, padW,
		init, biasInit, Identity(), name+"_conv2")

	return &residualBlock{conv1: conv1, conv2: conv2}
}

// fwd adds the forward pass of the residual block to the
// computational graph.
func (r *residualBlock) fwd(x *G.Node) (*G.Node, error) {
	y := G.Must(G.Rectify(x))
	y, err := r.conv1.fwd(y)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not compute first residual "+
			"convolution: %v", err)
	}

	y = G.Must(G.Rectify(y))
	y, err = r.conv2.fwd(y)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not compute second residual "+
			"convolution: %v", err)
	}

	return G.Add(x, y)
}

func (r *residualBlock) learnables() G.Nodes {
	return append(r.conv1.learnables(), r.conv2.learnables()...)
}
