package tune

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Logger receives the results of a trial. Init is called once with
// the trial's log directory before any result is logged.
type Logger interface {
	Init(logDir string) error
	LogResult(Result) error
	Close() error
}

// JSONLogger appends each result as one JSON line to result.json in
// the trial's log directory.
type JSONLogger struct {
	file *os.File
	enc  *json.Encoder
}

// NewJSONLogger returns an uninitialized JSONLogger.
func NewJSONLogger() *JSONLogger {
	return &JSONLogger{}
}

// Init opens result.json inside the log directory.
func (j *JSONLogger) Init(logDir string) error {
	file, err := os.OpenFile(filepath.Join(logDir, "result.json"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("init: could not open result file: %w", err)
	}

	j.file = file
	j.enc = json.NewEncoder(file)
	return nil
}

// LogResult appends one result line.
func (j *JSONLogger) LogResult(result Result) error {
	if j.enc == nil {
		return fmt.Errorf("logresult: logger not initialized")
	}
	return j.enc.Encode(result)
}

// Close closes the result file.
func (j *JSONLogger) Close() error {
	if j.file == nil {
		return nil
	}
	return j.file.Close()
}

// DefaultLoggers returns the loggers every run gets unless the
// configuration overrides them.
func DefaultLoggers() []Logger {
	return []Logger{NewJSONLogger()}
}
