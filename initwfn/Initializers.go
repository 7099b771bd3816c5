package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig describes the Glorot (Xavier) uniform initialization
// algorithm.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot uniform weight initializer.
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns the type of initializer the configuration describes.
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the initialization algorithm as a Gorgonia InitWFn.
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// GlorotNConfig describes the Glorot (Xavier) normal initialization
// algorithm.
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot normal weight initializer.
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type returns the type of initializer the configuration describes.
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the initialization algorithm as a Gorgonia InitWFn.
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}

// ConstantConfig describes an initializer that sets every weight to a
// fixed value. It is the conventional choice for bias vectors.
type ConstantConfig struct {
	Value float64
}

// NewConstant returns a new constant weight initializer.
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{Value: value})
}

// Type returns the type of initializer the configuration describes.
func (c ConstantConfig) Type() Type {
	return Constant
}

// Create returns the initialization algorithm as a Gorgonia InitWFn.
func (c ConstantConfig) Create() G.InitWFn {
	return G.ValuesOf(c.Value)
}

// ZeroesConfig describes an initializer that zeroes every weight.
type ZeroesConfig struct{}

// NewZeroes returns a new zeroing weight initializer.
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

// Type returns the type of initializer the configuration describes.
func (z ZeroesConfig) Type() Type {
	return Zeroes
}

// Create returns the initialization algorithm as a Gorgonia InitWFn.
func (z ZeroesConfig) Create() G.InitWFn {
	return G.Zeroes()
}
