package network

import (
	G "gorgonia.org/gorgonia"
)

// Activation represents an activation function that can be applied to
// a graph node.
type Activation struct {
	name string
	f    func(x *G.Node) (*G.Node, error)
}

// fwd performs the forward pass of an Activation.
func (a *Activation) fwd(x *G.Node) (*G.Node, error) {
	return a.f(x)
}

// String implements the fmt.Stringer interface.
func (a *Activation) String() string {
	return a.name
}

// IsIdentity returns whether the Activation is the identity function.
func (a *Activation) IsIdentity() bool {
	return a.name == "identity"
}

// Identity returns an identity *Activation.
func Identity() *Activation {
	return &Activation{
		name: "identity",
		f: func(x *G.Node) (*G.Node, error) {
			return x, nil
		},
	}
}

// ReLU returns a rectified linear unit *Activation.
func ReLU() *Activation {
	return &Activation{
		name: "relu",
		f:    G.Rectify,
	}
}

// TanH returns a tanh *Activation.
func TanH() *Activation {
	return &Activation{
		name: "tanh",
		f:    G.Tanh,
	}
}
