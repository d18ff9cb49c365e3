package terminal

import (
	"strings"

	"golang.org/x/text/width"
)

// DisplayWidth returns the number of terminal columns s occupies.
// East Asian wide and fullwidth runes take two columns, every other rune one.
func DisplayWidth(s string) int {
	n := 0

	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}

	return n
}

// PadRight pads s with spaces on the right to span cols display columns.
func PadRight(s string, cols int) string {
	if gap := cols - DisplayWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}

	return s
}

// PadLeft pads s with spaces on the left to span cols display columns.
func PadLeft(s string, cols int) string {
	if gap := cols - DisplayWidth(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}

	return s
}
