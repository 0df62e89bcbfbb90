package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignCyclesPalette(t *testing.T) {
	a, err := New([]string{"#ff0000", "00ff00"}, nil)
	require.NoError(t, err)

	got := a.Assign([]string{"a", "b", "c"})
	require.Len(t, got, 3)
	assert.Equal(t, "#ff0000", got[0].Fill)
	assert.Equal(t, "#00ff00", got[1].Fill)
	assert.Equal(t, "#ff0000", got[2].Fill)
}

func TestAssignOverrides(t *testing.T) {
	a, err := New(nil, map[string]string{"b": "#123456"})
	require.NoError(t, err)

	got := a.Assign([]string{"a", "b", "c"})
	assert.Equal(t, Default[0], got[0].Fill)
	assert.Equal(t, "#123456", got[1].Fill)
	// Overridden categories do not consume a palette slot.
	assert.Equal(t, Default[1], got[2].Fill)
}

func TestNewRejectsInvalidColours(t *testing.T) {
	tests := []struct {
		name      string
		palette   []string
		overrides map[string]string
	}{
		{"bad palette", []string{"not-a-colour"}, nil},
		{"bad override", nil, map[string]string{"x": "#12345g"}},
		{"empty override", nil, map[string]string{"x": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.palette, tt.overrides)
			assert.Error(t, err)
		})
	}
}

func TestStrokeIsDarker(t *testing.T) {
	for _, hex := range Default {
		c, err := Parse(hex)
		require.NoError(t, err)
		l, _, _ := c.Lab()
		sl, _, _ := Stroke(c).Lab()
		assert.Less(t, sl, l, hex)
	}
}

func TestParseShortHex(t *testing.T) {
	c, err := Parse("#fff")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", c.Hex())
}
