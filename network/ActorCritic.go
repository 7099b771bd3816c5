// Package network implements actor-critic neural network
// architectures on top of Gorgonia. Each architecture exposes a
// policy head producing action logits and a value head producing a
// state-value estimate. Networks build their forward pass into a
// computational graph at construction time; callers set the
// observation, run a virtual machine over the graph, and then read
// the logits and value estimate.
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ActorCritic is a neural network that predicts both action logits
// and a state-value estimate from an observation.
//
// Value panics if it is called before a forward pass has produced a
// value estimate. That ordering is a framework invariant, so breaking
// it is programmer error rather than a recoverable condition.
type ActorCritic interface {
	Graph() *G.ExprGraph
	ObsShape() []int
	Features() int
	Outputs() int
	BatchSize() int

	// SetObservation sets the input node's value before a forward
	// pass. The observation is row-major with len = BatchSize() *
	// Features().
	SetObservation([]float64) error

	// Logits returns the graph node holding the action logits, and
	// LogitsVal the logits computed by the most recent forward pass.
	Logits() *G.Node
	LogitsVal() G.Value

	// Value returns the state-value estimate computed by the most
	// recent forward pass.
	Value() G.Value

	Learnables() G.Nodes
	Model() []G.ValueGrad
}

// acCore holds the state shared by every actor-critic architecture:
// the input node, the policy and value heads and the cached outputs
// of the most recent forward pass.
type acCore struct {
	g          *G.ExprGraph
	input      *G.Node
	obsShape   []int
	numOutputs int
	batchSize  int

	layers []Layer

	logits    *G.Node
	value     *G.Node
	logitsVal G.Value
	valueVal  G.Value

	learnables G.Nodes
	model      []G.ValueGrad
}

// attachHeads adds the policy and value heads on top of the embedding
// node x and registers readers for both outputs.
func (c *acCore) attachHeads(x *G.Node, features int,
	init, biasInit G.InitWFn) error {
	piHead := newFCLayer(c.g, features, c.numOutputs, init, biasInit,
		Identity(), "pi")
	vHead := newFCLayer(c.g, features, 1, init, biasInit, Identity(), "v")
	c.layers = append(c.layers, piHead, vHead)

	logits, err := piHead.fwd(x)
	if err != nil {
		return fmt.Errorf("attachheads: could not compute policy head: %v",
			err)
	}

	value, err := vHead.fwd(x)
	if err != nil {
		return fmt.Errorf("attachheads: could not compute value head: %v",
			err)
	}

	// The value head outputs a (batch, 1) matrix; flatten it to one
	// estimate per sample.
	value, err = G.Ravel(value)
	if err != nil {
		return fmt.Errorf("attachheads: could not flatten value head: %v",
			err)
	}

	c.logits = logits
	c.value = value
	G.Read(c.logits, &c.logitsVal)
	G.Read(c.value, &c.valueVal)
	return nil
}

// Graph returns the computational graph holding the network.
func (c *acCore) Graph() *G.ExprGraph {
	return c.g
}

// ObsShape returns the observation shape the network was built for,
// excluding the batch dimension.
func (c *acCore) ObsShape() []int {
	return c.obsShape
}

// Features returns the number of scalar features in one observation.
func (c *acCore) Features() int {
	features := 1
	for _, dim := range c.obsShape {
		features *= dim
	}
	return features
}

// Outputs returns the number of action logits the network produces.
func (c *acCore) Outputs() int {
	return c.numOutputs
}

// BatchSize returns the observation batch size of the network.
func (c *acCore) BatchSize() int {
	return c.batchSize
}

// SetObservation sets the value of the input node before running the
// forward pass.
func (c *acCore) SetObservation(obs []float64) error {
	if len(obs) != c.Features()*c.batchSize {
		return fmt.Errorf("setobservation: invalid number of features "+
			"\n\twant(%v) \n\thave(%v)", c.Features()*c.batchSize, len(obs))
	}

	obsTensor := tensor.New(
		tensor.WithBacking(obs),
		tensor.WithShape(c.input.Shape()...),
	)
	return G.Let(c.input, obsTensor)
}

// Logits returns the node of the computational graph that holds the
// action logits.
func (c *acCore) Logits() *G.Node {
	return c.logits
}

// LogitsVal returns the action logits computed by the most recent
// forward pass.
func (c *acCore) LogitsVal() G.Value {
	return c.logitsVal
}

// Value returns the state-value estimate computed by the most recent
// forward pass. Value panics if no forward pass has been run.
func (c *acCore) Value() G.Value {
	if c.valueVal == nil {
		panic("value: must run the forward pass before querying the value " +
			"estimate")
	}
	return c.valueVal
}

// Learnables returns the learnable nodes of the network.
func (c *acCore) Learnables() G.Nodes {
	// Lazy instantiation
	if c.learnables == nil {
		for _, layer := range c.layers {
			c.learnables = append(c.learnables, layer.learnables()...)
		}
	}
	return c.learnables
}

// Model returns the learnable nodes with their gradients.
func (c *acCore) Model() []G.ValueGrad {
	// Lazy instantiation
	if c.model == nil {
		for _, node := range c.Learnables() {
			c.model = append(c.model, node)
		}
	}
	return c.model
}
