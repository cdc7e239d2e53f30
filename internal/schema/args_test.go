package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Args
		wantErr string
	}{
		{"blank", "  ", Args{}, ""},
		{"object", `{"record_id":"rec1","fields":{"Name":"x"}}`, Args{
			"record_id": "rec1",
			"fields":    map[string]any{"Name": "x"},
		}, ""},
		{"array", `[1,2]`, nil, "expected a JSON object, got array"},
		{"string", `"hi"`, nil, "expected a JSON object, got string"},
		{"malformed", `{"a":`, nil, "unexpected end of JSON input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgs_Accessors(t *testing.T) {
	a := Args{"s": "v", "m": map[string]any{"k": 1.0}, "l": []any{"x"}, "n": nil}

	s, ok := a.String("s")
	assert.True(t, ok)
	assert.Equal(t, "v", s)

	_, ok = a.String("m")
	assert.False(t, ok)

	m, ok := a.Map("m")
	assert.True(t, ok)
	assert.Equal(t, 1.0, m["k"])

	l, ok := a.Slice("l")
	assert.True(t, ok)
	assert.Len(t, l, 1)

	assert.True(t, a.Has("n"))
	assert.False(t, a.Has("missing"))
}
