// Package metawriter records the provenance of an experiment run:
// the command line that launched it, copies of the configuration
// files that produced it, and the git state of every repository the
// run depends on. Together with the generated restore scripts this is
// enough to reproduce the run later.
package metawriter

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// MetaWriter writes run provenance into a meta subdirectory of a log
// directory.
type MetaWriter struct {
	// RepoRoots holds the git repository roots whose commit and
	// working tree diff should be recorded.
	RepoRoots []string

	// Files holds configuration files to copy into the meta
	// directory.
	Files []string

	// Args is the command line to record. Defaults to os.Args.
	Args []string

	logger *slog.Logger
}

// New returns a MetaWriter recording the given repository roots and
// configuration files.
func New(repoRoots, files []string) *MetaWriter {
	return &MetaWriter{
		RepoRoots: repoRoots,
		Files:     files,
		Args:      os.Args,
		logger:    slog.Default(),
	}
}

// Write records all provenance under logDir/meta. Repository roots
// that are not git repositories are skipped. Write is safe to call
// more than once; later calls overwrite the earlier records.
func (m *MetaWriter) Write(logDir string) error {
	metaDir := filepath.Join(logDir, "meta")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("write: could not create meta directory: %w", err)
	}

	cmdline := strings.Join(m.Args, " ") + "\n"
	err := os.WriteFile(filepath.Join(metaDir, "cmd.txt"), []byte(cmdline),
		0o644)
	if err != nil {
		return fmt.Errorf("write: could not record command line: %w", err)
	}

	for _, file := range m.Files {
		if err := copyFile(file, metaDir); err != nil {
			return fmt.Errorf("write: could not copy input %v: %w", file, err)
		}
	}

	for _, root := range m.RepoRoots {
		if err := m.writeRepoState(root, metaDir); err != nil {
			// Missing or broken repos never abort the run.
			m.logger.Debug("skipping git metadata", "repo", root,
				"err", err)
		}
	}
	return nil
}

// writeRepoState records the commit, working tree diff and a restore
// script for a single repository.
func (m *MetaWriter) writeRepoState(root, metaDir string) error {
	name := filepath.Base(absOrSelf(root))

	commit, err := gitOutput(root, "rev-parse", "HEAD")
	if err != nil {
		return err
	}

	err = os.WriteFile(filepath.Join(metaDir, name+"_commit.txt"),
		[]byte(commit+"\n"), 0o644)
	if err != nil {
		return err
	}

	diff, err := gitOutput(root, "diff", "HEAD")
	if err != nil {
		return err
	}

	diffFile := filepath.Join(metaDir, name+"_diff.diff")
	if err := os.WriteFile(diffFile, []byte(diff), 0o644); err != nil {
		return err
	}

	restore := restoreScript(absOrSelf(root), commit, diffFile)
	return os.WriteFile(filepath.Join(metaDir, name+"_restore.sh"),
		[]byte(restore), 0o755)
}

// restoreScript returns a shell script that returns the repository to
// the recorded commit and re-applies the recorded diff.
func restoreScript(root, commit, diffFile string) string {
	lines := []string{
		"#!/bin/sh",
		"set -e",
		fmt.Sprintf("cd %q", root),
		fmt.Sprintf("git checkout %s", commit),
		fmt.Sprintf("if [ -s %q ]; then git apply %q; fi", diffFile,
			diffFile),
		"",
	}
	return strings.Join(lines, "\n")
}

// gitOutput runs a git subcommand in dir and returns its trimmed
// standard output.
func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("gitoutput: git %v in %v: %w",
			strings.Join(args, " "), dir, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// copyFile copies src into destination directory dir, keeping the
// base name.
func copyFile(src, dir string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filepath.Base(src)), data, 0o644)
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
