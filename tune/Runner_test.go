package tune

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTrainable reports stepSize additional timesteps per
// iteration and records every checkpoint directory it was given.
type countingTrainable struct {
	stepSize       int
	steps          int
	maxSteps       int
	checkpointDirs []string
}

func (c *countingTrainable) Step() (Result, error) {
	if c.maxSteps > 0 && c.steps >= c.maxSteps {
		return nil, ErrTrialComplete
	}
	c.steps++
	return Result{
		TimestepsTotal:   c.steps * c.stepSize,
		"episode_reward": float64(c.steps),
	}, nil
}

func (c *countingTrainable) Checkpoint(dir string) error {
	c.checkpointDirs = append(c.checkpointDirs, dir)
	return os.WriteFile(filepath.Join(dir, "state"), []byte("ok"), 0o644)
}

func trialDirIn(t *testing.T, localDir string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(localDir, "trial_*"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func resultLines(t *testing.T, trialDir string) []Result {
	t.Helper()

	file, err := os.Open(filepath.Join(trialDir, "result.json"))
	require.NoError(t, err)
	defer file.Close()

	var results []Result
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var result Result
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &result))
		results = append(results, result)
	}
	require.NoError(t, scanner.Err())
	return results
}

func TestRunStopsAtTimestepsTotal(t *testing.T) {
	localDir := t.TempDir()
	spec := &RunSpec{
		LocalDir: localDir,
		Stop:     map[string]float64{TimestepsTotal: 500},
		Loggers:  DefaultLoggers(),
	}
	trainable := &countingTrainable{stepSize: 100}

	require.NoError(t, Run(spec, trainable))

	// 5 iterations of 100 timesteps reach the stop condition.
	assert.Equal(t, 5, trainable.steps)

	results := resultLines(t, trialDirIn(t, localDir))
	require.Len(t, results, 5)
	for i, result := range results {
		assert.EqualValues(t, i+1, result[TrainingIteration])
		assert.EqualValues(t, (i+1)*100, result[TimestepsTotal])
	}
}

func TestRunCheckpointsAndManifest(t *testing.T) {
	localDir := t.TempDir()
	spec := &RunSpec{
		LocalDir:       localDir,
		Stop:           map[string]float64{TimestepsTotal: 600},
		CheckpointFreq: 2,
		Loggers:        DefaultLoggers(),
	}
	trainable := &countingTrainable{stepSize: 100}

	require.NoError(t, Run(spec, trainable))

	trialDir := trialDirIn(t, localDir)
	wantDirs := []string{
		filepath.Join(trialDir, "checkpoint_000002"),
		filepath.Join(trialDir, "checkpoint_000004"),
		filepath.Join(trialDir, "checkpoint_000006"),
	}
	assert.Equal(t, wantDirs, trainable.checkpointDirs)
	for _, dir := range wantDirs {
		assert.FileExists(t, filepath.Join(dir, "state"))
	}

	// The manifest next to the trial directory points at the latest
	// checkpoint.
	data, err := os.ReadFile(filepath.Join(localDir,
		"experiment_state.json"))
	require.NoError(t, err)

	var manifest Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	require.Len(t, manifest.Checkpoints, 1)
	assert.Equal(t, trialDir, manifest.Checkpoints[0].Logdir)
	assert.Equal(t, wantDirs[2], manifest.Checkpoints[0].Dir)
	assert.Equal(t, 6, manifest.Checkpoints[0].Step)
}

func TestRunStopsWhenTrainableCompletes(t *testing.T) {
	localDir := t.TempDir()
	spec := &RunSpec{
		LocalDir: localDir,
		Stop:     map[string]float64{TimestepsTotal: 1e9},
		Loggers:  DefaultLoggers(),
	}
	trainable := &countingTrainable{stepSize: 10, maxSteps: 3}

	require.NoError(t, Run(spec, trainable))

	assert.Equal(t, 3, trainable.steps)
	assert.Len(t, resultLines(t, trialDirIn(t, localDir)), 3)
}
