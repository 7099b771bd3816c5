package tune

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MetaWriter is the collaborator that records run provenance into a
// log directory.
type MetaWriter interface {
	Write(logDir string) error
}

// MetadataLogger is a Logger adapter around a MetaWriter. On Init it
// writes the run's provenance; on the first result callback it emits
// a continue script next to the log directory so that the run can be
// restarted from its checkpoint without reconstructing the command
// line by hand. Subsequent result callbacks are no-ops.
type MetadataLogger struct {
	writer MetaWriter

	// Args is the command line the continue script replays. Defaults
	// to os.Args.
	Args []string

	logDir              string
	savedContinueScript bool
}

// NewMetadataLogger returns a MetadataLogger recording through the
// given writer.
func NewMetadataLogger(writer MetaWriter) *MetadataLogger {
	return &MetadataLogger{
		writer: writer,
		Args:   os.Args,
	}
}

// Init writes the run provenance into the log directory.
func (m *MetadataLogger) Init(logDir string) error {
	m.logDir = logDir
	m.savedContinueScript = false
	return m.writer.Write(logDir)
}

// LogResult writes the continue script on the first call. The script
// is only written when the parent of the log directory holds a run
// manifest with exactly one checkpoint matching this run; otherwise
// nothing happens. Later calls return immediately.
func (m *MetadataLogger) LogResult(Result) error {
	if m.savedContinueScript {
		return nil
	}
	m.savedContinueScript = true

	parent := filepath.Dir(m.logDir)
	manifest, err := FindManifest(parent, m.logDir)
	if err != nil {
		return fmt.Errorf("logresult: %w", err)
	}
	if manifest == "" {
		// No matching manifest is not an error
		return nil
	}

	script := m.continueScript(manifest)
	path := filepath.Join(parent, "continue.sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return fmt.Errorf("logresult: could not write continue script: %w",
			err)
	}
	return nil
}

// Close implements the Logger interface.
func (m *MetadataLogger) Close() error {
	return nil
}

// continueScript renders the re-launch script: replay the restore
// scripts recorded under meta, mark the manifest as most recent so
// resume picks it up, and re-invoke the original command line forcing
// resume-from-local-checkpoint semantics.
func (m *MetadataLogger) continueScript(manifest string) string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	args := make([]string, len(m.Args))
	for i, arg := range m.Args {
		args[i] = fmt.Sprintf("%q", arg)
	}

	lines := []string{
		"#!/bin/sh",
		"set -e",
		fmt.Sprintf("for f in %q/meta/*_restore.sh; do", m.logDir),
		"  if [ -e \"$f\" ]; then sh \"$f\"; fi",
		"done",
		"# make this checkpoint the most recent so it is picked up by",
		"# the resume logic",
		fmt.Sprintf("touch %q", manifest),
		fmt.Sprintf("cd %q", cwd),
		fmt.Sprintf(`exec %v --overrides '{"rllib": {"resume": "LOCAL"}}'`,
			strings.Join(args, " ")),
		"",
	}
	return strings.Join(lines, "\n")
}
