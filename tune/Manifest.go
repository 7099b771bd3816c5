package tune

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Checkpoint is one checkpoint entry of a run manifest.
type Checkpoint struct {
	Logdir string `json:"logdir"`
	Dir    string `json:"dir,omitempty"`
	Step   int    `json:"step,omitempty"`
}

// Manifest is the JSON run manifest the runner writes next to a
// trial's log directory. Resume tooling locates a run through its
// manifest.
type Manifest struct {
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// WriteManifest writes the manifest as JSON at path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("writemanifest: could not encode manifest: %w",
			err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writemanifest: %w", err)
	}
	return nil
}

// FindManifest searches dir for a JSON run manifest holding exactly
// one checkpoint whose log directory is logdir. Resume semantics are
// only well-defined for a single checkpoint, so manifests with any
// other count never match. Candidates are visited in sorted filename
// order and the first match wins, which makes the result stable when
// several manifests reference the same log directory.
//
// The empty string is returned when no manifest matches; that is not
// an error.
func FindManifest(dir, logdir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("findmanifest: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			// Unrelated JSON files are not manifests
			continue
		}

		if len(manifest.Checkpoints) == 1 &&
			manifest.Checkpoints[0].Logdir == logdir {
			return path, nil
		}
	}
	return "", nil
}
