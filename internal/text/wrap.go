package text

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Unbounded disables wrapping.
const Unbounded = -1

const (
	tabWidth    = 4
	marginInset = 5

	connectorMore  = " ╠═"
	connectorLast  = " ╚═"
	connectorBlank = "    "
)

// Margin describes the hanging indent drawn in front of continuation lines.
// Width is the header width the message sits under: continuation lines get
// Width-5 cells of padding, a connector and a space. When Foreground equals
// Background the connector is drawn as a solid block. With both colors nil
// the margin is unstyled.
type Margin struct {
	Width      int
	Foreground ansi.Color
	Background ansi.Color
}

type escape struct {
	pos  int
	code string
}

// Wrap hard-wraps s so that no line holds more than width-m.Width visible
// characters. Escape sequences are kept at their visible offsets and the
// styling active at each break is re-established on the next line.
// Unbounded width, or a width no wider than the margin, returns s with only
// tabs expanded.
func Wrap(s string, width int, m Margin) string {
	if width == Unbounded {
		return s
	}
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	budget := width - m.Width
	if budget <= 0 {
		return s
	}
	cells, escapes := scan(s)
	if len(cells) <= budget {
		return s
	}

	styled := m.Foreground != nil || m.Background != nil
	reset := styled || len(escapes) > 0

	var b strings.Builder
	b.Grow(len(s) + (len(cells)/budget+1)*(m.Width+16))

	next := 0
	for start := 0; start < len(cells); start += budget {
		end := min(start+budget, len(cells))
		if start > 0 {
			for _, code := range activeAt(escapes, start) {
				b.WriteString(code)
			}
		}
		for i := start; i < end; i++ {
			for next < len(escapes) && escapes[next].pos <= i {
				b.WriteString(escapes[next].code)
				next++
			}
			b.WriteString(cells[i])
		}
		if end == len(cells) {
			for ; next < len(escapes); next++ {
				b.WriteString(escapes[next].code)
			}
		} else if linkOpenAt(escapes, end) {
			b.WriteString(ansi.ResetHyperlink())
		}
		if reset {
			b.WriteString(ansi.ResetStyle)
		}
		if end < len(cells) {
			b.WriteByte('\n')
			writeMargin(&b, m, styled, end+budget >= len(cells))
		}
	}
	return b.String()
}

func writeMargin(b *strings.Builder, m Margin, styled, last bool) {
	solid := styled && m.Foreground == m.Background
	style := ansi.Style{}.ForegroundColor(m.Foreground).BackgroundColor(m.Background)

	if indent := max(m.Width-marginInset, 0); indent > 0 {
		pad := strings.Repeat(" ", indent)
		if solid {
			pad = style.Styled(pad)
		}
		b.WriteString(pad)
	}

	conn := connectorMore
	if last {
		conn = connectorLast
	}
	switch {
	case solid:
		conn = style.Styled(connectorBlank)
	case styled:
		conn = style.Styled(conn)
	}
	b.WriteString(conn)
	b.WriteByte(' ')
}

// scan splits s into printable grapheme clusters and the escape sequences
// found between them, recording each escape at the index of the next cell.
func scan(s string) (cells []string, escapes []escape) {
	var state byte
	for len(s) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(s, state, nil)
		state = newState
		if n <= 0 {
			n = len(s)
			seq = s
		}
		if width == 0 && isEscape(seq) {
			escapes = append(escapes, escape{pos: len(cells), code: seq})
			s = s[n:]
			continue
		}
		// Keep combining marks and joiners with their base character.
		if cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1); len(cluster) > n {
			seq, n = cluster, len(cluster)
		}
		cells = append(cells, seq)
		s = s[n:]
	}
	return cells, escapes
}

func isEscape(seq string) bool {
	if seq == "" {
		return false
	}
	c := seq[0]
	return c == ansi.ESC || (c >= 0x80 && c <= 0x9f)
}

// activeAt returns the sequences in effect before visible index pos: the SGR
// codes accumulated since the most recent reset, followed by the hyperlink
// still open, if any.
func activeAt(escapes []escape, pos int) []string {
	var active []string
	link := ""
	for _, e := range escapes {
		if e.pos >= pos {
			break
		}
		if open, ok := hyperlink(e.code); ok {
			link = ""
			if open {
				link = e.code
			}
			continue
		}
		params, ok := sgrParams(e.code)
		if !ok {
			continue
		}
		switch {
		case isResetParams(params):
			active = active[:0]
		case isZero(params[0]):
			active = append(active[:0], e.code)
		default:
			active = append(active, e.code)
		}
	}
	if link != "" {
		active = append(active, link)
	}
	return active
}

func linkOpenAt(escapes []escape, pos int) bool {
	active := activeAt(escapes, pos)
	if len(active) == 0 {
		return false
	}
	open, ok := hyperlink(active[len(active)-1])
	return ok && open
}

// hyperlink reports whether code is an OSC 8 sequence and, if so, whether it
// opens a link (non-empty URI) or closes one.
func hyperlink(code string) (open, ok bool) {
	var body string
	switch {
	case strings.HasPrefix(code, "\x1b]8;"):
		body = code[len("\x1b]8;"):]
	case strings.HasPrefix(code, "\x9d8;"):
		body = code[len("\x9d8;"):]
	default:
		return false, false
	}
	for _, term := range []string{"\x07", "\x1b\\", "\x9c"} {
		body = strings.TrimSuffix(body, term)
	}
	_, uri, _ := strings.Cut(body, ";")
	return uri != "", true
}

// sgrParams returns the ';'-separated parameters of a CSI ... m sequence.
func sgrParams(code string) ([]string, bool) {
	var body string
	switch {
	case strings.HasPrefix(code, "\x1b["):
		body = code[2:]
	case strings.HasPrefix(code, "\x9b"):
		body = code[1:]
	default:
		return nil, false
	}
	if !strings.HasSuffix(body, "m") {
		return nil, false
	}
	return strings.Split(strings.TrimSuffix(body, "m"), ";"), true
}

func isResetParams(params []string) bool {
	for _, p := range params {
		if !isZero(p) {
			return false
		}
	}
	return true
}

func isZero(p string) bool {
	return strings.Trim(p, "0") == ""
}
