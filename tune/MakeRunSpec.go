package tune

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/rlgear/rlgear/config"
	"github.com/rlgear/rlgear/metawriter"
)

// MakeRunSpec resolves a YAML experiment configuration into the fully
// merged parameters and the run specification consumed by Run.
//
// The resolution order is: cluster resources are queried and turned
// into defaults (workers get every CPU but one, at most one GPU);
// the YAML inputs are loaded and merged; the optional overrides
// mapping is merged over them; the log directory is derived; default
// kwargs are built and every block named by the comma-separated
// rllib.tune_kwargs_blocks field is deep merged over them in order.
// A worker count above what the resources support is clamped with a
// warning rather than failing. The custom-metrics callback is always
// installed, and a timesteps_total stop condition is set when the
// rllib section carries one.
func MakeRunSpec(yamlFile, expName string, searchDirs []string,
	overrides config.Params) (config.Params, *RunSpec, error) {
	resources := config.ClusterResources()
	maxWorkers := resources.MaxWorkers()

	inputs, err := config.GetInputs(yamlFile, searchDirs)
	if err != nil {
		return nil, nil, fmt.Errorf("makerunspec: %w", err)
	}

	params, err := config.ParseInputs(inputs)
	if err != nil {
		return nil, nil, fmt.Errorf("makerunspec: %w", err)
	}

	if overrides != nil {
		params = config.Merge(params, overrides)
	}

	logSection, err := params.Sub("log")
	if err != nil {
		return nil, nil, fmt.Errorf("makerunspec: missing log section: %w",
			err)
	}

	logDir, err := config.LogDir(logSection, yamlFile, expName)
	if err != nil {
		return nil, nil, fmt.Errorf("makerunspec: %w", err)
	}

	writer := metawriter.New(repoRoots(params), inputs)
	metaLogger := NewMetadataLogger(writer)

	// Defaults that the yaml file's kwargs blocks can override
	kwargs := config.Params{
		"config": map[string]interface{}{
			"log_level":   "INFO",
			"num_workers": maxWorkers,
			"num_gpus":    resources.UsableGPUs(),
		},
		"local_dir": logDir,
	}

	rllib, err := params.Sub("rllib")
	if err != nil {
		return nil, nil, fmt.Errorf("makerunspec: missing rllib section: "+
			"%w", err)
	}

	blocks, err := rllib.String("tune_kwargs_blocks")
	if err != nil {
		return nil, nil, fmt.Errorf("makerunspec: missing "+
			"tune_kwargs_blocks: %w", err)
	}

	for _, name := range strings.Split(blocks, ",") {
		block, err := rllib.Sub(strings.TrimSpace(name))
		if err != nil {
			return nil, nil, fmt.Errorf("makerunspec: no kwargs block "+
				"%q: %w", name, err)
		}
		kwargs = config.Merge(kwargs, block)
	}

	spec := &RunSpec{}
	if err := decodeSpec(kwargs, spec); err != nil {
		return nil, nil, fmt.Errorf("makerunspec: %w", err)
	}

	ClampWorkers(spec.Config, maxWorkers)

	spec.Loggers = append(DefaultLoggers(), metaLogger)
	spec.Callbacks = InfoToCustomMetrics{}

	if rllib.Has(TimestepsTotal) {
		timesteps, err := rllib.Float(TimestepsTotal)
		if err != nil {
			return nil, nil, fmt.Errorf("makerunspec: %w", err)
		}
		spec.Stop = map[string]float64{TimestepsTotal: timesteps}
	}

	return params, spec, nil
}

// ClampWorkers caps the num_workers entry of a trial configuration at
// max, warning when a configured value is lowered. Requesting more
// workers than the cluster supports is recoverable, never fatal.
func ClampWorkers(trialConfig map[string]interface{}, max int) bool {
	workers, ok := toFloat(trialConfig["num_workers"])
	if !ok || int(workers) <= max {
		return false
	}

	slog.Warn("num workers set too high, clamping", "requested",
		int(workers), "max", max)
	trialConfig["num_workers"] = max
	return true
}

// decodeSpec decodes the merged kwargs mapping into a RunSpec,
// widening numeric types where YAML and JSON disagree.
func decodeSpec(kwargs config.Params, spec *RunSpec) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           spec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("decodespec: %w", err)
	}

	if err := decoder.Decode(map[string]interface{}(kwargs)); err != nil {
		return fmt.Errorf("decodespec: malformed tune kwargs: %w", err)
	}
	return nil
}

// repoRoots returns the git repositories whose state the meta writer
// records: the working directory plus any configured git_repos.
func repoRoots(params config.Params) []string {
	roots := []string{}
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}

	if params.Has("git_repos") {
		if extra, err := params.Strings("git_repos"); err == nil {
			roots = append(roots, extra...)
		}
	}
	return roots
}
