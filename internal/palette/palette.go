// Package palette hands out stable colors to recurring tokens such as tags,
// pids and package names.
package palette

import "github.com/charmbracelet/x/ansi"

// Fallback is returned when the palette is empty.
const Fallback = ansi.White

// DefaultColors is the rotating palette.
var DefaultColors = []ansi.Color{
	ansi.BrightRed,
	ansi.BrightBlue,
	ansi.BrightCyan,
	ansi.BrightGreen,
	ansi.BrightYellow,
	ansi.BrightMagenta,
}

// KnownTags have fixed colors and never consume a palette slot.
var KnownTags = map[string]ansi.Color{
	"jdwp":            ansi.White,
	"DEBUG":           ansi.Yellow,
	"Process":         ansi.White,
	"dalvikvm":        ansi.White,
	"StrictMode":      ansi.White,
	"AndroidRuntime":  ansi.Cyan,
	"ActivityThread":  ansi.White,
	"ActivityManager": ansi.White,
}

// Table memoizes token colors over a recency queue. The front of the queue
// is the least recently used color.
type Table struct {
	queue []ansi.Color
	memo  map[string]ansi.Color
}

// New builds a table over colors with the seeded token colors pre-assigned.
// Both arguments are copied.
func New(colors []ansi.Color, seeded map[string]ansi.Color) *Table {
	t := &Table{
		queue: append([]ansi.Color(nil), colors...),
		memo:  make(map[string]ansi.Color, len(seeded)),
	}
	for tok, c := range seeded {
		t.memo[tok] = c
	}
	return t
}

// NewDefault builds a table over DefaultColors seeded with KnownTags.
func NewDefault() *Table {
	return New(DefaultColors, KnownTags)
}

// Assign returns the color for token. A new token takes the least recently
// used palette color; once every color is in use, new tokens share it.
// Any lookup marks the returned color as most recently used.
func (t *Table) Assign(token string) ansi.Color {
	c, ok := t.memo[token]
	if !ok {
		if len(t.queue) == 0 {
			return Fallback
		}
		c = t.queue[0]
		t.memo[token] = c
	}
	t.touch(c)
	return c
}

// Order returns the queue, least recently used first.
func (t *Table) Order() []ansi.Color {
	return append([]ansi.Color(nil), t.queue...)
}

// touch moves c to the back of the queue. Colors outside the palette are ignored.
func (t *Table) touch(c ansi.Color) {
	for i, q := range t.queue {
		if q == c {
			copy(t.queue[i:], t.queue[i+1:])
			t.queue[len(t.queue)-1] = c
			return
		}
	}
}
