package text

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestWrapUnbounded(t *testing.T) {
	in := "a\tvery long line that would otherwise wrap"
	if got := Wrap(in, Unbounded, Margin{Width: 10}); got != in {
		t.Errorf("Wrap unbounded: got %q, want %q", got, in)
	}
}

func TestWrapFitsExpandsTabs(t *testing.T) {
	if got := Wrap("a\tb", 80, Margin{}); got != "a    b" {
		t.Errorf("Wrap fits: got %q, want %q", got, "a    b")
	}
}

func TestWrapExactFit(t *testing.T) {
	if got := Wrap("abcd", 4, Margin{}); got != "abcd" {
		t.Errorf("Wrap exact fit: got %q", got)
	}
}

func TestWrapNoRoom(t *testing.T) {
	in := "abcdefghij"
	if got := Wrap(in, 20, Margin{Width: 20}); got != in {
		t.Errorf("Wrap no budget: got %q", got)
	}
	if got := Wrap(in, 5, Margin{Width: 20}); got != in {
		t.Errorf("Wrap negative budget: got %q", got)
	}
}

func TestWrapPlain(t *testing.T) {
	got := Wrap("abcdefghij", 4, Margin{})
	want := "abcd\n ╠═ efgh\n ╚═ ij"
	if got != want {
		t.Errorf("Wrap plain: got %q, want %q", got, want)
	}
}

func TestWrapPlainIndent(t *testing.T) {
	got := Wrap("abcdef", 10, Margin{Width: 7})
	want := "abc\n   ╚═ def"
	if got != want {
		t.Errorf("Wrap indent: got %q, want %q", got, want)
	}
}

func TestWrapColoredConnector(t *testing.T) {
	m := Margin{Width: 7, Foreground: ansi.Black, Background: ansi.BrightGreen}
	got := Wrap("abcdef", 10, m)
	want := "abc" + ansi.ResetStyle + "\n" +
		"  " + "\x1b[30;102m ╚═" + ansi.ResetStyle + " " +
		"def" + ansi.ResetStyle
	if got != want {
		t.Errorf("Wrap colored: got %q, want %q", got, want)
	}
}

func TestWrapSolidMargin(t *testing.T) {
	m := Margin{Width: 7, Foreground: ansi.Green, Background: ansi.Green}
	got := Wrap("abcdef", 10, m)
	block := "\x1b[32;42m"
	want := "abc" + ansi.ResetStyle + "\n" +
		block + "  " + ansi.ResetStyle +
		block + "    " + ansi.ResetStyle + " " +
		"def" + ansi.ResetStyle
	if got != want {
		t.Errorf("Wrap solid: got %q, want %q", got, want)
	}
	if strings.ContainsAny(got, "╠╚") {
		t.Error("solid margin should not draw connector glyphs")
	}
}

func TestWrapCarriesActiveStyle(t *testing.T) {
	red := "\x1b[31m"
	in := red + "abcdef" + ansi.ResetStyle + "gh"
	got := Wrap(in, 3, Margin{})
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != red+"abc"+ansi.ResetStyle {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[1] != " ╠═ "+red+"def"+ansi.ResetStyle {
		t.Errorf("line 1 should reopen red: got %q", lines[1])
	}
	// The reset sits exactly at the break, so it follows the reopened style.
	if lines[2] != " ╚═ "+red+ansi.ResetStyle+"gh"+ansi.ResetStyle {
		t.Errorf("line 2: got %q", lines[2])
	}
}

func TestWrapResetVariants(t *testing.T) {
	for _, reset := range []string{"\x1b[m", "\x1b[0m", "\x1b[00m", "\x1b[0;0m"} {
		in := "\x1b[1m" + "a" + reset + "bcdef"
		got := Wrap(in, 2, Margin{})
		lines := strings.Split(got, "\n")
		if len(lines) < 2 {
			t.Fatalf("%q: expected wrap, got %q", reset, got)
		}
		if strings.Contains(lines[1], "\x1b[1m") {
			t.Errorf("%q: style should be cleared after reset, got %q", reset, lines[1])
		}
	}
}

func TestWrapResetThenColor(t *testing.T) {
	in := "\x1b[1m" + "a" + "\x1b[0;32m" + "bcd"
	got := Wrap(in, 2, Margin{})
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", got)
	}
	if strings.Contains(lines[1], "\x1b[1m") {
		t.Errorf("bold should be cleared by 0;32: %q", lines[1])
	}
	if !strings.Contains(lines[1], "\x1b[0;32m") {
		t.Errorf("green should be carried over: %q", lines[1])
	}
}

func TestWrapWideGraphemes(t *testing.T) {
	got := Wrap("日本語テスト", 3, Margin{})
	want := "日本語\n ╚═ テスト"
	if got != want {
		t.Errorf("Wrap graphemes: got %q, want %q", got, want)
	}
}

func TestWrapStripCommutes(t *testing.T) {
	inputs := []string{
		"plain text that needs wrapping across several lines",
		"\x1b[31mred\x1b[m and \x1b[1;33mbold yellow\x1b[0m text going on for a while",
		"tabs\tin\tthe\tmiddle\x1b[32m of green\x1b[m",
		"short",
		"\x1b[35m日本語テスト and more\x1b[m",
	}
	for _, in := range inputs {
		for _, w := range []int{Unbounded, 1, 5, 7, 12, 80} {
			plainFirst := Wrap(ansi.Strip(in), w, Margin{})
			plainAfter := ansi.Strip(Wrap(in, w, Margin{}))
			if plainFirst != plainAfter {
				t.Errorf("width %d, %q:\n wrap(strip) = %q\n strip(wrap) = %q", w, in, plainFirst, plainAfter)
			}
		}
	}
}

func TestWrapVisibleBudget(t *testing.T) {
	in := "\x1b[31m" + strings.Repeat("x", 50) + "\x1b[m"
	got := Wrap(in, 30, Margin{Width: 10})
	for i, line := range strings.Split(ansi.Strip(got), "\n") {
		body := line
		if i > 0 {
			body = line[strings.Index(line, "═ ")+len("═ "):]
		}
		if n := len([]rune(body)); n > 20 {
			t.Errorf("line %d holds %d visible characters, want <= 20", i, n)
		}
	}
}

func TestWrapKeepsCombiningMarks(t *testing.T) {
	e := "e\u0301"
	got := Wrap(strings.Repeat(e, 6), 3, Margin{})
	want := strings.Repeat(e, 3) + "\n ╚═ " + strings.Repeat(e, 3)
	if got != want {
		t.Errorf("Wrap combining marks: got %q, want %q", got, want)
	}
}

func TestWrapTrailingEscapeKept(t *testing.T) {
	in := "\x1b[31mabcdef\x1b[39m"
	got := Wrap(in, 3, Margin{})
	if !strings.HasSuffix(got, "def\x1b[39m"+ansi.ResetStyle) {
		t.Errorf("trailing escape dropped: %q", got)
	}
}

func TestWrapHyperlinkAcrossBreak(t *testing.T) {
	open := "\x1b]8;;http://x\x07"
	closeLink := "\x1b]8;;\x07"
	got := Wrap(open+"abcdef"+closeLink, 3, Margin{})
	want := open + "abc" + ansi.ResetHyperlink() + ansi.ResetStyle + "\n" +
		" ╚═ " + open + "def" + closeLink + ansi.ResetStyle
	if got != want {
		t.Errorf("Wrap hyperlink:\n got %q\nwant %q", got, want)
	}
}
