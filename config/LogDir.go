package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogDir derives the output log directory for a run from the log
// section of the configuration, the configuration file and the
// experiment name. The directory is <dir>/<yaml stem>/<exp name>,
// with a date component appended when the log section sets date to
// true. The directory is created along with any missing parents.
func LogDir(logParams Params, yamlFile, expName string) (string, error) {
	root, err := logParams.String("dir")
	if err != nil {
		return "", fmt.Errorf("logdir: log section must set dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(yamlFile),
		filepath.Ext(yamlFile))
	dir := filepath.Join(root, stem, expName)

	if withDate, ok := logParams["date"].(bool); ok && withDate {
		dir = filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05"))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("logdir: could not create %v: %w", dir, err)
	}
	return dir, nil
}
