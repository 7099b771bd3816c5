package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxWorkersReservesDriverCPU(t *testing.T) {
	assert.Equal(t, 7, Resources{CPUs: 8}.MaxWorkers())
	assert.Equal(t, 0, Resources{CPUs: 1}.MaxWorkers())
	assert.Equal(t, 0, Resources{CPUs: 0}.MaxWorkers())
}

func TestUsableGPUsClampedToOne(t *testing.T) {
	assert.Equal(t, 0, Resources{GPUs: 0}.UsableGPUs())
	assert.Equal(t, 1, Resources{GPUs: 1}.UsableGPUs())
	assert.Equal(t, 1, Resources{GPUs: 4}.UsableGPUs())
}

func TestVisibleGPUs(t *testing.T) {
	t.Setenv("CUDA_VISIBLE_DEVICES", "0,1,2")
	assert.Equal(t, 3, visibleGPUs())

	t.Setenv("CUDA_VISIBLE_DEVICES", "")
	assert.Equal(t, 0, visibleGPUs())
}

func TestLogDirLayout(t *testing.T) {
	dir := t.TempDir()
	logParams := Params{"dir": dir}

	got, err := LogDir(logParams, "experiments/cartpole.yaml", "trial0")
	assert.NoError(t, err)
	assert.DirExists(t, got)
	assert.Contains(t, got, "cartpole")
	assert.Contains(t, got, "trial0")
}
