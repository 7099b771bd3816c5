package tune

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenNestedKeys(t *testing.T) {
	in := map[string]interface{}{
		"scalar": 1.5,
		"nested": map[string]interface{}{
			"a": 2,
			"deeper": map[string]interface{}{
				"b": "x",
			},
		},
	}

	flat := Flatten(in)

	assert.Equal(t, map[string]interface{}{
		"scalar":          1.5,
		"nested.a":        2,
		"nested.deeper.b": "x",
	}, flat)
}

func TestFlattenEmpty(t *testing.T) {
	assert.Empty(t, Flatten(map[string]interface{}{}))
}
