package text

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks a value cut short to fit its column.
const Ellipsis = "…"

// Ellipsize cuts plain text to at most width characters, replacing the last
// kept character with Ellipsis when it has to cut. Width below 1 yields "".
func Ellipsize(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	keep := width - utf8.RuneCountInString(Ellipsis)
	if keep <= 0 {
		return Ellipsis
	}
	return string([]rune(s)[:keep]) + Ellipsis
}

// PadRight left-aligns plain text in a field of width characters.
// Longer text is returned unchanged.
func PadRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// PadLeft right-aligns plain text in a field of width characters.
func PadLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

// Truncate shortens styled text to maxWidth terminal cells, appending "…".
// Escape codes are not counted and are never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}
