package styles

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors, AdaptiveColor{Light, Dark}
var (
	StatusInfo    = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#7dcfff"}
	StatusSuccess = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#9ece6a"}
	StatusError   = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f7768e"}
	StatusWarning = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	TextDim       = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
)

// Printer writes the tool's own status lines (device list, capture banner,
// exit notices). It never touches the rendered log stream.
type Printer struct {
	out  io.Writer
	info lipgloss.Style
	ok   lipgloss.Style
	warn lipgloss.Style
	fail lipgloss.Style
	dim  lipgloss.Style
}

// NewPrinter styles output for w. With noColor set, styles render as plain text.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		out:  w,
		info: r.NewStyle().Foreground(StatusInfo).Bold(true),
		ok:   r.NewStyle().Foreground(StatusSuccess).Bold(true),
		warn: r.NewStyle().Foreground(StatusWarning),
		fail: r.NewStyle().Foreground(StatusError).Bold(true),
		dim:  r.NewStyle().Foreground(TextDim),
	}
}

func (p *Printer) Info(format string, args ...any) { p.print(p.info, format, args...) }
func (p *Printer) OK(format string, args ...any) { p.print(p.ok, format, args...) }
func (p *Printer) Warn(format string, args ...any) { p.print(p.warn, format, args...) }
func (p *Printer) Error(format string, args ...any) { p.print(p.fail, format, args...) }
func (p *Printer) Dim(format string, args ...any) { p.print(p.dim, format, args...) }

// print renders each line separately so lipgloss does not pad a block.
func (p *Printer) print(s lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	lines := strings.Split(msg, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = s.Render(l)
		}
	}
	fmt.Fprintln(p.out, strings.Join(lines, "\n"))
}
