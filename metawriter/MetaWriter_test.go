package metawriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRecordsCommandAndInputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "exp.yaml")
	require.NoError(t, os.WriteFile(input, []byte("a: 1\n"), 0o644))

	logDir := filepath.Join(dir, "run")
	require.NoError(t, os.MkdirAll(logDir, 0o755))

	w := New(nil, []string{input})
	w.Args = []string{"rlgear", "train", "exp.yaml", "test"}
	require.NoError(t, w.Write(logDir))

	cmd, err := os.ReadFile(filepath.Join(logDir, "meta", "cmd.txt"))
	require.NoError(t, err)
	assert.Equal(t, "rlgear train exp.yaml test\n", string(cmd))

	copied, err := os.ReadFile(filepath.Join(logDir, "meta", "exp.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(copied))
}

func TestWriteSkipsNonRepos(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, "run")
	require.NoError(t, os.MkdirAll(logDir, 0o755))

	// Not a git repository: metadata capture is skipped, not fatal.
	w := New([]string{dir}, nil)
	assert.NoError(t, w.Write(logDir))

	entries, err := os.ReadDir(filepath.Join(logDir, "meta"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "_restore.sh")
	}
}
