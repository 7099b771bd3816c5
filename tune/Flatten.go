package tune

// Flatten converts a nested string-keyed mapping into a flat mapping
// whose keys are the dotted paths of the input's leaves. Non-mapping
// values are passed through unchanged.
func Flatten(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	flattenInto("", m, out)
	return out
}

func flattenInto(prefix string, m map[string]interface{},
	out map[string]interface{}) {
	for key, val := range m {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		if nested, ok := asStringMap(val); ok {
			flattenInto(name, nested, out)
		} else {
			out[name] = val
		}
	}
}

func asStringMap(val interface{}) (map[string]interface{}, bool) {
	switch m := val.(type) {
	case map[string]interface{}:
		return m, true

	case Result:
		return m, true
	}
	return nil, false
}
