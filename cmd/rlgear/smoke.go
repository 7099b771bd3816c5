package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"

	"github.com/rlgear/rlgear/config"
	"github.com/rlgear/rlgear/network"
	"github.com/rlgear/rlgear/tune"
)

// smokeTrainable exercises the configured model without an
// environment: each training iteration runs one forward pass over a
// batch of uniformly random observations and reports statistics of the
// value estimates. It stands in for a full learner when validating an
// experiment configuration end to end.
type smokeTrainable struct {
	net network.ActorCritic
	vm  G.VM
	rng distuv.Uniform

	perIteration int
	timesteps    int
	iterations   int
}

// newSmokeTrainable builds the model named by the trial configuration's
// model.custom_model entry and wraps it in a smoke trainable.
func newSmokeTrainable(params config.Params,
	spec *tune.RunSpec) (*smokeTrainable, error) {
	trialConfig := spec.Config

	modelName := network.FCNet
	var netConfig network.Config
	if model, ok := trialConfig["model"].(map[string]interface{}); ok {
		if name, ok := model["custom_model"].(string); ok {
			modelName = name
		}
		if raw, ok := model["custom_model_config"]; ok {
			if err := decodeModelConfig(raw, &netConfig); err != nil {
				return nil, err
			}
		}
	}

	obsShape := intSliceOr(trialConfig["observation_shape"], []int{4})
	numActions := intOr(trialConfig["num_actions"], 2)
	batch := intOr(trialConfig["train_batch_size"], 32)
	seed := intOr(trialConfig["seed"], 42)

	net, err := network.Make(modelName, obsShape, batch, numActions,
		netConfig)
	if err != nil {
		return nil, fmt.Errorf("newsmoketrainable: could not build model: %w",
			err)
	}

	return &smokeTrainable{
		net: net,
		vm:  G.NewTapeMachine(net.Graph()),
		rng: distuv.Uniform{
			Min: 0,
			Max: 1,
			Src: rand.NewSource(uint64(seed)),
		},
		perIteration: intOr(trialConfig["timesteps_per_iteration"], batch),
	}, nil
}

// Step runs one forward pass over a random observation batch.
func (s *smokeTrainable) Step() (tune.Result, error) {
	obs := make([]float64, s.net.BatchSize()*s.net.Features())
	for i := range obs {
		obs[i] = s.rng.Rand()
	}

	if err := s.net.SetObservation(obs); err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}

	s.vm.Reset()
	if err := s.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("step: forward pass failed: %w", err)
	}

	values, ok := s.net.Value().Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("step: value head returned %T, not a "+
			"float64 batch", s.net.Value().Data())
	}

	s.iterations++
	s.timesteps += s.perIteration
	return tune.Result{
		tune.TimestepsTotal: s.timesteps,
		"value_mean":        stat.Mean(values, nil),
		"value_std":         stat.StdDev(values, nil),
	}, nil
}

// Checkpoint records the trainable's progress under dir.
func (s *smokeTrainable) Checkpoint(dir string) error {
	state := map[string]interface{}{
		"training_iteration": s.iterations,
		"timesteps_total":    s.timesteps,
	}

	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "state.json"), data, 0o644)
}

// decodeModelConfig decodes the custom_model_config mapping, widening
// YAML's numeric types. Initializer entries are not configurable here;
// the model falls back to its defaults.
func decodeModelConfig(raw interface{}, netConfig *network.Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           netConfig,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("decodemodelconfig: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decodemodelconfig: malformed model config: %w",
			err)
	}
	return nil
}

// intOr converts val to an int, returning def when val is absent or
// not numeric.
func intOr(val interface{}, def int) int {
	switch v := val.(type) {
	case int:
		return v

	case float64:
		return int(v)
	}
	return def
}

// intSliceOr converts val to a []int, returning def when val is absent
// or not a numeric list.
func intSliceOr(val interface{}, def []int) []int {
	list, ok := val.([]interface{})
	if !ok {
		return def
	}

	out := make([]int, len(list))
	for i, elem := range list {
		n := intOr(elem, -1)
		if n < 0 {
			return def
		}
		out[i] = n
	}
	return out
}
