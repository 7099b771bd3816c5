package network

import (
	"fmt"

	"github.com/rlgear/rlgear/initwfn"
)

// Device names the device a network's tensors are placed on. Device
// placement is an explicit configuration choice rather than an
// ambient query of the machine.
type Device string

// Available devices
const (
	CPU  Device = "cpu"
	CUDA Device = "cuda"
)

// Model architecture names accepted by Make.
const (
	FCNet  string = "fcnet"
	DQN    string = "dqn"
	Impala string = "impala"
)

// Config configures the construction of an actor-critic network. The
// zero value is usable: every field has a default.
type Config struct {
	// Hiddens holds the hidden layer widths of the fully connected
	// architecture. Defaults to [256, 256].
	Hiddens []int `json:"hiddens" mapstructure:"hiddens"`

	// HiddenSize is the width of the linear projection that follows
	// the convolutional encoders. Defaults to 512.
	HiddenSize int `json:"hidden_size" mapstructure:"hidden_size"`

	// Init initializes every weight tensor. Defaults to Glorot
	// uniform with gain 1.
	Init *initwfn.InitWFn `json:"init" mapstructure:"init"`

	// BiasInit initializes every bias tensor. Defaults to the
	// constant 0.01.
	BiasInit *initwfn.InitWFn `json:"bias_init" mapstructure:"bias_init"`

	// Device places the network's tensors. Defaults to CPU.
	Device Device `json:"device" mapstructure:"device"`
}

// complete fills in defaults and validates the configuration.
func (c Config) complete() (Config, error) {
	if c.Hiddens == nil {
		c.Hiddens = []int{256, 256}
	}
	if c.HiddenSize == 0 {
		c.HiddenSize = 512
	}

	if c.Init == nil {
		init, err := initwfn.NewGlorotU(1.0)
		if err != nil {
			return c, fmt.Errorf("complete: could not create default "+
				"weight initializer: %v", err)
		}
		c.Init = init
	}

	if c.BiasInit == nil {
		init, err := initwfn.NewConstant(0.01)
		if err != nil {
			return c, fmt.Errorf("complete: could not create default "+
				"bias initializer: %v", err)
		}
		c.BiasInit = init
	}

	switch c.Device {
	case "":
		c.Device = CPU

	case CPU:

	case CUDA:
		return c, fmt.Errorf("complete: built without CUDA support, " +
			"device must be cpu")

	default:
		return c, fmt.Errorf("complete: no such device %q", c.Device)
	}

	return c, nil
}

// Make constructs the named architecture for observations of shape
// obsShape. The convolutional architectures require a channel-last
// (height, width, channel) observation shape; the fully connected
// architecture flattens whatever shape it is given.
func Make(name string, obsShape []int, batch, numActions int,
	config Config) (ActorCritic, error) {
	switch name {
	case FCNet:
		features := 1
		for _, dim := range obsShape {
			features *= dim
		}
		return NewFCNet(features, batch, numActions, config)

	case DQN:
		return NewDQNNet(obsShape, batch, numActions, config)

	case Impala:
		return NewImpalaNet(obsShape, batch, numActions, config)
	}
	return nil, fmt.Errorf("make: no such architecture %q", name)
}
