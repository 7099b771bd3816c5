package config

import (
	"os"
	"runtime"
	"strings"
)

// Resources describes the compute available to a run.
type Resources struct {
	CPUs int
	GPUs int
}

// ClusterResources reports the resources visible to this process. CPU
// count comes from the runtime; GPU count is probed from the
// CUDA_VISIBLE_DEVICES environment variable, the same signal the
// tensor backends honor.
func ClusterResources() Resources {
	return Resources{
		CPUs: runtime.NumCPU(),
		GPUs: visibleGPUs(),
	}
}

// MaxWorkers returns the largest rollout worker count the resources
// support: one CPU is reserved for the trial driver.
func (r Resources) MaxWorkers() int {
	if r.CPUs <= 1 {
		return 0
	}
	return r.CPUs - 1
}

// UsableGPUs returns the GPU count clamped to at most one, since a
// single trial places its model on at most one device.
func (r Resources) UsableGPUs() int {
	if r.GPUs > 1 {
		return 1
	}
	if r.GPUs < 0 {
		return 0
	}
	return r.GPUs
}

// visibleGPUs counts the devices listed in CUDA_VISIBLE_DEVICES. An
// unset variable means no GPUs; an empty value explicitly hides all
// devices.
func visibleGPUs() int {
	val, ok := os.LookupEnv("CUDA_VISIBLE_DEVICES")
	if !ok || strings.TrimSpace(val) == "" {
		return 0
	}

	count := 0
	for _, dev := range strings.Split(val, ",") {
		if strings.TrimSpace(dev) != "" {
			count++
		}
	}
	return count
}
