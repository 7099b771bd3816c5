package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// inputsKey is the top-level YAML key naming parent configuration
// files that a file builds upon.
const inputsKey = "inputs"

// GetInputs returns the ordered list of YAML files that make up a
// configuration. The file yamlFile may name parent files under a
// top-level inputs key; each parent is resolved against searchDirs
// and expanded recursively. Parents are ordered before the files that
// include them so that later files win when the list is merged.
func GetInputs(yamlFile string, searchDirs []string) ([]string, error) {
	path, err := findFile(yamlFile, searchDirs)
	if err != nil {
		return nil, fmt.Errorf("getinputs: %w", err)
	}

	params, err := loadYAML(path)
	if err != nil {
		return nil, fmt.Errorf("getinputs: %w", err)
	}

	var inputs []string
	if params.Has(inputsKey) {
		parents, err := params.Strings(inputsKey)
		if err != nil {
			return nil, fmt.Errorf("getinputs: malformed inputs list in "+
				"%v: %w", path, err)
		}

		for _, parent := range parents {
			parentInputs, err := GetInputs(parent, searchDirs)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, parentInputs...)
		}
	}

	return append(inputs, path), nil
}

// ParseInputs loads every input file and deep merges them in order,
// later files overriding earlier ones.
func ParseInputs(inputs []string) (Params, error) {
	merged := Params{}
	for _, input := range inputs {
		params, err := loadYAML(input)
		if err != nil {
			return nil, fmt.Errorf("parseinputs: %w", err)
		}
		merged = Merge(merged, params)
	}

	delete(merged, inputsKey)
	return merged, nil
}

// findFile resolves name against the search directories. Absolute
// paths and paths relative to the working directory are honored
// first.
func findFile(name string, searchDirs []string) (string, error) {
	if fileExists(name) {
		return name, nil
	}

	for _, dir := range searchDirs {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("findfile: could not find %q in search "+
		"directories %v", name, searchDirs)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadYAML decodes a single YAML file into Params.
func loadYAML(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadyaml: %w", err)
	}

	params := Params{}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("loadyaml: could not decode %v: %w", path, err)
	}
	return params, nil
}
