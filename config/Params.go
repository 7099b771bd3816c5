// Package config implements loading and merging of experiment
// configuration. Experiments are described by YAML files which may
// pull in other YAML files through a top-level inputs list. The final
// configuration is the deep merge of every input file, parents first,
// optionally overridden by a user-supplied mapping.
package config

import (
	"fmt"
	"strconv"
)

// Params holds a nested, string-keyed experiment configuration as
// decoded from YAML.
type Params map[string]interface{}

// Sub returns the nested Params stored under key. An error is
// returned if the key is missing or does not hold a mapping.
func (p Params) Sub(key string) (Params, error) {
	val, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("sub: no such key %q", key)
	}

	switch m := val.(type) {
	case Params:
		return m, nil

	case map[string]interface{}:
		return Params(m), nil
	}
	return nil, fmt.Errorf("sub: key %q does not hold a mapping", key)
}

// String returns the string stored under key. Non-string scalars are
// rendered with their default formatting so that YAML values such as
// unquoted numbers can still be read as strings.
func (p Params) String(key string) (string, error) {
	val, ok := p[key]
	if !ok {
		return "", fmt.Errorf("string: no such key %q", key)
	}

	if str, ok := val.(string); ok {
		return str, nil
	}
	return fmt.Sprintf("%v", val), nil
}

// Float returns the float64 stored under key. Integer YAML values are
// widened to float64.
func (p Params) Float(key string) (float64, error) {
	val, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("float: no such key %q", key)
	}

	switch v := val.(type) {
	case float64:
		return v, nil

	case int:
		return float64(v), nil

	case string:
		// YAML values such as 1e6 decode as strings
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("float: key %q holds %q, not a number",
				key, v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("float: key %q holds %T, not a number", key, val)
}

// Strings returns the list of strings stored under key.
func (p Params) Strings(key string) ([]string, error) {
	val, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("strings: no such key %q", key)
	}

	list, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("strings: key %q does not hold a list", key)
	}

	out := make([]string, len(list))
	for i, elem := range list {
		str, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("strings: element %v of %q is %T, not a "+
				"string", i, key, elem)
		}
		out[i] = str
	}
	return out, nil
}

// Has returns whether key exists in the Params.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}
