package palette

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestAssignIsStable(t *testing.T) {
	tb := NewDefault()
	first := tb.Assign("MyTag")
	second := tb.Assign("MyTag")
	if first != second {
		t.Errorf("Assign twice: got %v then %v", first, second)
	}
}

func TestAssignDistinctUntilExhausted(t *testing.T) {
	tb := New(DefaultColors, nil)
	seen := map[ansi.Color]string{}
	for i, tok := range []string{"a", "b", "c", "d", "e", "f"} {
		c := tb.Assign(tok)
		if prev, dup := seen[c]; dup {
			t.Fatalf("token %q (#%d) reused color of %q", tok, i, prev)
		}
		seen[c] = tok
	}
}

func TestAssignExhaustionReusesLeastRecent(t *testing.T) {
	colors := []ansi.Color{ansi.Red, ansi.Green, ansi.Blue}
	tb := New(colors, nil)
	a := tb.Assign("a")
	tb.Assign("b")
	tb.Assign("c")

	// "a" is least recently used.
	if got := tb.Assign("d"); got != a {
		t.Errorf("fresh token after exhaustion: got %v, want %v", got, a)
	}

	// Touch "b" and "a" so "c" becomes least recent.
	tb.Assign("b")
	tb.Assign("a")
	c := tb.Assign("c")
	tb.Assign("b")
	tb.Assign("a")
	if got := tb.Assign("e"); got != c {
		t.Errorf("fresh token: got %v, want %v", got, c)
	}
}

func TestAssignMovesToBack(t *testing.T) {
	colors := []ansi.Color{ansi.Red, ansi.Green, ansi.Blue}
	tb := New(colors, nil)
	tb.Assign("x")
	want := []ansi.Color{ansi.Green, ansi.Blue, ansi.Red}
	if got := tb.Order(); !reflect.DeepEqual(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
}

func TestKnownTagsDoNotConsumePalette(t *testing.T) {
	tb := NewDefault()
	before := tb.Order()
	if got := tb.Assign("AndroidRuntime"); got != ansi.Cyan {
		t.Errorf("AndroidRuntime: got %v, want cyan", got)
	}
	if got := tb.Assign("DEBUG"); got != ansi.Yellow {
		t.Errorf("DEBUG: got %v, want yellow", got)
	}
	if after := tb.Order(); !reflect.DeepEqual(before, after) {
		t.Errorf("known tags changed the queue: %v -> %v", before, after)
	}
}

func TestEmptyPaletteFallsBack(t *testing.T) {
	tb := New(nil, nil)
	if got := tb.Assign("x"); got != Fallback {
		t.Errorf("empty palette: got %v, want %v", got, Fallback)
	}
}

func TestNewCopiesInputs(t *testing.T) {
	colors := []ansi.Color{ansi.Red, ansi.Green}
	tb := New(colors, nil)
	colors[0] = ansi.Magenta
	if got := tb.Assign("x"); got != ansi.Red {
		t.Errorf("palette should be copied: got %v", got)
	}
}
