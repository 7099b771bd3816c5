// Package tune resolves experiment configuration into a run
// specification and runs trials locally. It mirrors the shape of a
// distributed tuning framework's run call: a per-trial configuration
// mapping, a log directory, a list of result loggers, episode
// callbacks and stop conditions.
package tune

// Result holds the metrics reported by one training iteration.
// Values may be nested mappings; Flatten converts them to dotted-key
// scalars.
type Result map[string]interface{}

// Well-known result and stop-condition keys.
const (
	TrainingIteration = "training_iteration"
	TimestepsTotal    = "timesteps_total"
)

// RunSpec is the keyword-argument bundle consumed by Run. It is
// usually produced by MakeRunSpec, which fills it from YAML
// configuration.
type RunSpec struct {
	// Config holds per-trial settings such as num_workers, num_gpus
	// and model configuration. The runner does not interpret it
	// beyond worker clamping; it is handed to the Trainable.
	Config map[string]interface{} `mapstructure:"config"`

	// LocalDir is the directory trials log under.
	LocalDir string `mapstructure:"local_dir"`

	// Stop maps result keys to thresholds; the trial stops once any
	// reported result reaches its threshold.
	Stop map[string]float64 `mapstructure:"stop"`

	// CheckpointFreq is the number of iterations between checkpoints.
	// Zero disables checkpointing.
	CheckpointFreq int `mapstructure:"checkpoint_freq"`

	// Loggers receive every reported result.
	Loggers []Logger `mapstructure:"-"`

	// Callbacks receive episode events from the Trainable.
	Callbacks Callbacks `mapstructure:"-"`
}

// stopReached reports whether any stop threshold is met by the
// result.
func (s *RunSpec) stopReached(result Result) bool {
	if len(s.Stop) == 0 {
		return false
	}

	flat := Flatten(result)
	for key, threshold := range s.Stop {
		if val, ok := toFloat(flat[key]); ok && val >= threshold {
			return true
		}
	}
	return false
}

// toFloat widens any numeric value decoded from YAML or JSON to a
// float64.
func toFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true

	case float32:
		return float64(v), true

	case int:
		return float64(v), true

	case int64:
		return float64(v), true

	case uint:
		return float64(v), true
	}
	return 0, false
}
