// Package render turns classified logcat records and lifecycle events into
// column-aligned, colored text.
package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/justinpbarnett/droidcat/internal/logcat"
	"github.com/justinpbarnett/droidcat/internal/palette"
	"github.com/justinpbarnett/droidcat/internal/text"
)

// levelReserve is the header space taken by the level badge: " L " plus a
// separator and one spare column.
const levelReserve = 5

// Columns selects and sizes the header columns.
type Columns struct {
	ShowPID        bool
	ShowPackage    bool
	AlwaysShowTags bool
	PIDWidth       int
	PackageWidth   int
	TagWidth       int
}

// DefaultColumns hides pid and package and gives tags 20 characters.
func DefaultColumns() Columns {
	return Columns{PIDWidth: 5, PackageWidth: 20, TagWidth: 20}
}

// Width is the number of columns reserved in front of every message.
func (c Columns) Width() int {
	w := levelReserve
	if c.ShowPID {
		w += c.PIDWidth + 1
	}
	if c.ShowPackage {
		w += c.PackageWidth + 1
	}
	if c.TagWidth > 0 {
		w += c.TagWidth + 1
	}
	return w
}

// BannerWidth is the width lifecycle banners are drawn at. It counts the
// pid and package columns without their separators, and always reserves
// two cells around the tag column.
func (c Columns) BannerWidth() int {
	w := levelReserve + 2 + max(c.TagWidth, 0)
	if c.ShowPID {
		w += c.PIDWidth
	}
	if c.ShowPackage {
		w += c.PackageWidth
	}
	return w
}

// Header is the rendered column prefix of one record.
type Header struct {
	Text  string
	Width int
}

// TagMemory remembers the last tag printed so that runs of the same tag
// show it only once.
type TagMemory struct {
	tag string
	set bool
}

func (m *TagMemory) Reset() { *m = TagMemory{} }

func (m *TagMemory) Last() (string, bool) { return m.tag, m.set }

func (m *TagMemory) remember(tag string) {
	m.tag = tag
	m.set = true
}

// Composer builds record headers. Colors for pids, packages and tags come
// from a shared palette table.
type Composer struct {
	cols   Columns
	colors *palette.Table
}

func NewComposer(cols Columns, colors *palette.Table) *Composer {
	if colors == nil {
		colors = palette.NewDefault()
	}
	return &Composer{cols: cols, colors: colors}
}

func (c *Composer) Columns() Columns { return c.cols }

// Compose renders the header for rec. owner is the package name shown in the
// package column.
func (c *Composer) Compose(rec logcat.Record, owner string, last *TagMemory) Header {
	var b strings.Builder
	width := 0

	if c.cols.ShowPID && rec.PID != "" {
		field := text.PadRight(text.Ellipsize(rec.PID, c.cols.PIDWidth), c.cols.PIDWidth)
		b.WriteString(fg(c.colors.Assign(rec.PID)).Styled(field))
		b.WriteByte(' ')
		width += c.cols.PIDWidth + 1
	}

	if c.cols.ShowPackage && rec.PID != "" {
		field := text.PadRight(text.Ellipsize(owner, c.cols.PackageWidth), c.cols.PackageWidth)
		b.WriteString(fg(c.colors.Assign(owner)).Styled(field))
		b.WriteByte(' ')
		width += c.cols.PackageWidth + 1
	}

	if tw := c.cols.TagWidth; tw > 0 {
		prev, seen := last.Last()
		if !seen || prev != rec.Tag || c.cols.AlwaysShowTags {
			last.remember(rec.Tag)
			tag := text.Ellipsize(rec.Tag, tw)
			if c.cols.ShowPID || c.cols.ShowPackage {
				tag = text.PadLeft(tag, tw)
			} else {
				tag = text.PadRight(tag, tw)
			}
			b.WriteString(fg(c.colors.Assign(rec.Tag)).Styled(tag))
		} else {
			b.WriteString(strings.Repeat(" ", tw))
		}
		b.WriteByte(' ')
		width += tw + 1
	}

	b.WriteString(LevelBadge(rec.Level))
	b.WriteByte(' ')
	width += levelReserve

	return Header{Text: b.String(), Width: width}
}

// LevelBadge renders " L " in black on the level's color.
func LevelBadge(l logcat.Level) string {
	return ansi.Style{}.ForegroundColor(ansi.Black).BackgroundColor(LevelColor(l)).Styled(" " + l.String() + " ")
}

// LevelColor is the badge background for l.
func LevelColor(l logcat.Level) ansi.Color {
	switch l {
	case logcat.LevelDebug:
		return ansi.BrightBlue
	case logcat.LevelInfo:
		return ansi.BrightGreen
	case logcat.LevelWarn:
		return ansi.BrightYellow
	case logcat.LevelError:
		return ansi.TrueColor(0xFF6400)
	case logcat.LevelFatal:
		return ansi.BrightRed
	default:
		return ansi.BrightCyan
	}
}

func fg(c ansi.Color) ansi.Style {
	return ansi.Style{}.ForegroundColor(c)
}
