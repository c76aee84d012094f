// Package sink delivers rendered lines to the console and to an optional
// capture file.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/term"

	"github.com/justinpbarnett/droidcat/internal/text"
)

// FallbackWidth is used when the terminal size cannot be queried.
const FallbackWidth = 80

// ErrPrimarySink wraps a failure of the console sink. Once the console is
// gone there is nobody left to read the stream, so the session stops.
var ErrPrimarySink = errors.New("primary sink failed")

// Sink receives fully rendered text. Each Write is flushed before it returns.
type Sink interface {
	Name() string
	Write(s string) error
	// Width is the wrap width to render for, or text.Unbounded.
	Width() int
	// Colors reports whether escape sequences should be kept.
	Colors() bool
	Close() error
}

// WidthFunc reports the current console width.
type WidthFunc func() int

// TerminalWidth queries f's terminal size on every call, so resizes take
// effect on the next line.
func TerminalWidth(f *os.File) WidthFunc {
	return func() int {
		w, _, err := term.GetSize(f.Fd())
		if err != nil || w <= 0 {
			return FallbackWidth
		}
		return w
	}
}

// FixedWidth always reports w.
func FixedWidth(w int) WidthFunc {
	return func() int { return w }
}

// Console writes to an interactive output, usually stdout.
type Console struct {
	w      *bufio.Writer
	colors bool
	width  WidthFunc
}

// NewConsole wraps out. A nil width falls back to FallbackWidth.
func NewConsole(out io.Writer, colors bool, width WidthFunc) *Console {
	if width == nil {
		width = FixedWidth(FallbackWidth)
	}
	return &Console{w: bufio.NewWriter(out), colors: colors, width: width}
}

func (c *Console) Name() string { return "console" }
func (c *Console) Width() int { return c.width() }
func (c *Console) Colors() bool { return c.colors }
func (c *Console) Close() error { return c.w.Flush() }

func (c *Console) Write(s string) error {
	if _, err := c.w.WriteString(s); err != nil {
		return fmt.Errorf("%w: %w", ErrPrimarySink, err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrPrimarySink, err)
	}
	return nil
}

// File captures plain, unwrapped output to disk.
type File struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

// CreateFile creates (or truncates) path, expanding a leading ~ and creating
// missing parent directories.
func CreateFile(path string) (*File, error) {
	p, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(p); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return &File{path: p, f: f, w: bufio.NewWriter(f)}, nil
}

func (f *File) Name() string { return f.path }
func (f *File) Width() int { return text.Unbounded }
func (f *File) Colors() bool { return false }
func (f *File) Path() string { return f.path }

func (f *File) Write(s string) error {
	if _, err := f.w.WriteString(s); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	if err := f.w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Close() error {
	flushErr := f.w.Flush()
	closeErr := f.f.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
