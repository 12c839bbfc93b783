package common

import (
	"fmt"
)

// ColorPair is a coherent background/border pair sharing the same hue.
// The background is pastel, the border darker. The web front-end derives
// node colors with the same recipe, so both sides of the wire must agree
// bit for bit (32-bit wraparound on the intermediate multiplications).
type ColorPair struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// mixHash computes a multiplier-31 rolling hash and spreads the bits with
// a fixed avalanche so nearby codes land on distant hues.
func mixHash(input string) int32 {
	var hash int32
	for _, c := range input {
		hash = 31*hash + int32(c)
	}

	u := uint32(hash)
	u ^= u >> 16
	u *= 0x85ebca6b
	u ^= u >> 13
	u *= 0xc2b2ae35
	u ^= u >> 16

	v := int32(u)
	if v < 0 {
		v = -v
	}
	return v
}

// HashToColors derives the background/border pair for a concept code or
// variable name. Identical inputs yield identical outputs across runs.
func HashToColors(input string) ColorPair {
	if input == "" {
		return ColorPair{Background: "hsl(0, 0%, 90%)", Border: "hsl(0, 0%, 60%)"}
	}

	hash := mixHash(input)
	hue := hash % 360

	bgSaturation := 65 + (hash/360)%20 // 65-84%
	bgLightness := 80 + (hash/7200)%10 // 80-89%
	background := fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, bgSaturation, bgLightness)

	borderSaturation := 50 + (hash/360)%20 // 50-69%
	borderLightness := 40 + (hash/7200)%15 // 40-54%
	border := fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, borderSaturation, borderLightness)

	return ColorPair{Background: background, Border: border}
}

// HashToColor returns the pastel background color for the input.
func HashToColor(input string) string {
	return HashToColors(input).Background
}

// HashToBorderColor returns the darker border color for the input.
func HashToBorderColor(input string) string {
	return HashToColors(input).Border
}
