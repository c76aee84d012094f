package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/justinpbarnett/droidcat/internal/logcat"
	"github.com/justinpbarnett/droidcat/internal/text"
)

// Renderable produces output text for a sink of the given width.
// Width may be text.Unbounded.
type Renderable interface {
	Render(width int) string
}

// Line is one record: a header followed by a message wrapped under it.
type Line struct {
	Header  Header
	Message string
	Margin  text.Margin
}

// NewLine pairs a header with its message. Continuation lines are drawn in
// the record's level colors.
func NewLine(h Header, level logcat.Level, message string) Line {
	return Line{
		Header:  h,
		Message: message,
		Margin: text.Margin{
			Width:      h.Width,
			Foreground: ansi.Black,
			Background: LevelColor(level),
		},
	}
}

func (l Line) Render(width int) string {
	return l.Header.Text + text.Wrap(l.Message, width, l.Margin) + "\n"
}

// Banner is a block of colored lines announcing a lifecycle event.
type Banner struct {
	Block    string
	Messages []string
	Margin   text.Margin
}

var valueStyle = ansi.Style{}.ForegroundColor(ansi.Yellow)

// StartBanner announces a process of interest starting. headerWidth is the
// width of record headers, so the block lines up with the level badges.
func StartBanner(ev logcat.StartEvent, headerWidth int) Banner {
	return newBanner(ansi.Green, headerWidth,
		fmt.Sprintf(" Process %s created for %s", valueStyle.Styled(ev.Package), valueStyle.Styled(ev.Target)),
		fmt.Sprintf(" PID: %s   UID: %s   GIDs: %s",
			valueStyle.Styled(ev.PID), valueStyle.Styled(ev.UID), valueStyle.Styled(ev.GIDs)),
	)
}

// DeathBanner announces a tracked process ending.
func DeathBanner(ev logcat.DeathEvent, headerWidth int) Banner {
	return newBanner(ansi.Red, headerWidth,
		fmt.Sprintf(" Process %s (PID: %s) ended", valueStyle.Styled(ev.Package), valueStyle.Styled(ev.PID)),
	)
}

func newBanner(c ansi.Color, headerWidth int, messages ...string) Banner {
	block := ""
	if n := headerWidth - 1; n > 0 {
		block = ansi.Style{}.ForegroundColor(c).BackgroundColor(c).Styled(strings.Repeat(" ", n))
	}
	return Banner{
		Block:    block,
		Messages: messages,
		Margin:   text.Margin{Width: headerWidth, Foreground: c, Background: c},
	}
}

// Render draws an empty block line, one line per message, and a closing block line.
func (b Banner) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(b.Block)
	sb.WriteByte('\n')
	for _, m := range b.Messages {
		sb.WriteString(b.Block)
		sb.WriteString(text.Wrap(m, width, b.Margin))
		sb.WriteByte('\n')
	}
	sb.WriteString(b.Block)
	sb.WriteByte('\n')
	return sb.String()
}
