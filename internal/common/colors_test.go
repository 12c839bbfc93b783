package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashToColors_Deterministic(t *testing.T) {
	first := HashToColors("3498")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, HashToColors("3498"))
	}
}

func TestHashToColors_KnownValues(t *testing.T) {
	// Fixed values shared with the front-end implementation. If these
	// change, node colors stop matching across the wire.
	tests := []struct {
		input      string
		background string
		border     string
	}{
		{"0100", "hsl(100, 74%, 87%)", "hsl(100, 59%, 52%)"},
		{"3498", "hsl(151, 75%, 80%)", "hsl(151, 60%, 45%)"},
		{"SC01003600", "hsl(35, 73%, 85%)", "hsl(35, 58%, 45%)"},
		{"A", "hsl(351, 83%, 88%)", "hsl(351, 68%, 43%)"},
		{"CALC0100", "hsl(218, 66%, 84%)", "hsl(218, 51%, 49%)"},
		{"FOO", "hsl(275, 83%, 81%)", "hsl(275, 68%, 41%)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pair := HashToColors(tt.input)
			assert.Equal(t, tt.background, pair.Background)
			assert.Equal(t, tt.border, pair.Border)
			assert.Equal(t, tt.background, HashToColor(tt.input))
			assert.Equal(t, tt.border, HashToBorderColor(tt.input))
		})
	}
}

func TestHashToColors_EmptyInput(t *testing.T) {
	pair := HashToColors("")
	assert.Equal(t, "hsl(0, 0%, 90%)", pair.Background)
	assert.Equal(t, "hsl(0, 0%, 60%)", pair.Border)
}

func TestHashToColors_SameHueForPair(t *testing.T) {
	// Background and border of a pair always share the hue component.
	for _, input := range []string{"0001", "0050", "9999", "INFO0100", "ANTIGUEDAD"} {
		pair := HashToColors(input)
		assert.Equal(t, hueOf(pair.Background), hueOf(pair.Border), "input %s", input)
	}
}

func hueOf(hsl string) string {
	for i := 0; i < len(hsl); i++ {
		if hsl[i] == ',' {
			return hsl[:i]
		}
	}
	return hsl
}
