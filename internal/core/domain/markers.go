package domain

import "strings"

var markers = [OptionCount]string{
	"1\ufe0f\u20e3",
	"2\ufe0f\u20e3",
	"3\ufe0f\u20e3",
}

// MarkerFor returns the symbol for a 1-based option index, or "" when the
// index is out of range.
func MarkerFor(index int) string {
	if index < 1 || index > OptionCount {
		return ""
	}
	return markers[index-1]
}

// IndexForMarker returns the 1-based option index for a marker symbol, or 0.
// Platforms report keycaps with and without the U+FE0F variation selector,
// so both spellings resolve.
func IndexForMarker(symbol string) int {
	normalized := normalizeMarker(symbol)
	for i, m := range markers {
		if normalizeMarker(m) == normalized {
			return i + 1
		}
	}
	return 0
}

func Markers() []string {
	return markers[:]
}

func normalizeMarker(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), "\ufe0f", "")
}
