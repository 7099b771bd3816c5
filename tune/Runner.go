package tune

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrTrialComplete is returned by a Trainable's Step when it has
// nothing further to do. The runner stops the trial cleanly.
var ErrTrialComplete = errors.New("trial complete")

// Trainable is one trial's training logic. The runner calls Step
// repeatedly, forwarding each result to the configured loggers, and
// calls Checkpoint on the configured interval.
type Trainable interface {
	// Step runs one training iteration and reports its metrics.
	Step() (Result, error)

	// Checkpoint saves the trainable's state under dir.
	Checkpoint(dir string) error
}

// Run executes one trial of the run specification locally. A fresh
// trial directory is created under the configured local directory; the
// loggers are initialized with it; the trainable is stepped until a
// stop condition is reached or it reports completion. When
// checkpointing is enabled a run manifest referencing the trial
// directory is kept next to it.
//
// The runner assumes it is the only writer under the trial directory
// and takes no locks.
func Run(spec *RunSpec, trainable Trainable) error {
	trialDir, err := makeTrialDir(spec.LocalDir)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	for _, logger := range spec.Loggers {
		if err := logger.Init(trialDir); err != nil {
			return fmt.Errorf("run: could not initialize logger: %w", err)
		}
	}
	defer closeLoggers(spec.Loggers)

	var bar *progressBar
	if max, ok := spec.Stop[TimestepsTotal]; ok {
		bar = newProgressBar(os.Stderr, 40, max)
	}

	lastTimesteps := 0.0
	for iteration := 1; ; iteration++ {
		result, err := trainable.Step()
		if errors.Is(err, ErrTrialComplete) {
			break
		}
		if err != nil {
			return fmt.Errorf("run: training iteration %v: %w", iteration,
				err)
		}

		if result == nil {
			result = Result{}
		}
		result[TrainingIteration] = iteration

		for _, logger := range spec.Loggers {
			if err := logger.LogResult(result); err != nil {
				return fmt.Errorf("run: could not log result: %w", err)
			}
		}

		if bar != nil {
			if timesteps, ok := toFloat(result[TimestepsTotal]); ok {
				bar.Add(timesteps - lastTimesteps)
				lastTimesteps = timesteps
			}
			bar.Display()
		}

		if spec.CheckpointFreq > 0 && iteration%spec.CheckpointFreq == 0 {
			if err := checkpoint(spec, trainable, trialDir,
				iteration); err != nil {
				return fmt.Errorf("run: %w", err)
			}
		}

		if spec.stopReached(result) {
			break
		}
	}

	if bar != nil {
		bar.Finish()
	}
	return nil
}

// checkpoint saves the trainable and refreshes the run manifest so
// the trial can be resumed.
func checkpoint(spec *RunSpec, trainable Trainable, trialDir string,
	iteration int) error {
	dir := filepath.Join(trialDir, fmt.Sprintf("checkpoint_%06d",
		iteration))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	if err := trainable.Checkpoint(dir); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	manifest := Manifest{
		Checkpoints: []Checkpoint{{
			Logdir: trialDir,
			Dir:    dir,
			Step:   iteration,
		}},
	}
	path := filepath.Join(spec.LocalDir, "experiment_state.json")
	return WriteManifest(path, manifest)
}

// makeTrialDir creates a fresh timestamped trial directory under
// localDir.
func makeTrialDir(localDir string) (string, error) {
	name := fmt.Sprintf("trial_%v", time.Now().Format("2006-01-02_15-04-05"))
	dir := filepath.Join(localDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("maketrialdir: %w", err)
	}
	return dir, nil
}

func closeLoggers(loggers []Logger) {
	for _, logger := range loggers {
		logger.Close()
	}
}
