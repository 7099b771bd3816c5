package config

// Merge deep merges override into base and returns the result. For
// each key, if both base and override hold a mapping the two are
// merged recursively; otherwise the override value wins. Neither
// argument is modified. Merging the same override twice yields the
// same result as merging it once.
func Merge(base, override Params) Params {
	merged := make(Params, len(base)+len(override))
	for key, val := range base {
		merged[key] = val
	}

	for key, overrideVal := range override {
		baseVal, ok := merged[key]
		if !ok {
			merged[key] = overrideVal
			continue
		}

		baseMap, baseIsMap := asParams(baseVal)
		overrideMap, overrideIsMap := asParams(overrideVal)
		if baseIsMap && overrideIsMap {
			merged[key] = Merge(baseMap, overrideMap)
		} else {
			merged[key] = overrideVal
		}
	}
	return merged
}

// asParams converts a value decoded from YAML or JSON to Params if it
// holds a string-keyed mapping.
func asParams(val interface{}) (Params, bool) {
	switch m := val.(type) {
	case Params:
		return m, true

	case map[string]interface{}:
		return Params(m), true
	}
	return nil, false
}
