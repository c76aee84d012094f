// Package session drives the per-line pipeline: classify, track process
// lifecycles, filter, render and write to every sink.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/justinpbarnett/droidcat/internal/logcat"
	"github.com/justinpbarnett/droidcat/internal/logger"
	"github.com/justinpbarnett/droidcat/internal/palette"
	"github.com/justinpbarnett/droidcat/internal/render"
	"github.com/justinpbarnett/droidcat/internal/sink"
	"github.com/justinpbarnett/droidcat/internal/tracker"
)

const maxLineSize = 1024 * 1024

// Options are the read-only knobs of a session.
type Options struct {
	Columns  render.Columns
	MinLevel logcat.Level
	// ShowAll renders records from every process, tracked or not.
	ShowAll    bool
	Tags       []string
	IgnoreTags []string
	GCColor    bool
}

// Deps are the collaborators a session drives. Sinks[0] is the console.
type Deps struct {
	Registry *logcat.Registry
	Tracker  *tracker.Tracker
	Colors   *palette.Table
	Sinks    []sink.Sink
	Logger   logger.Logger
}

// Stats counts what happened to the lines read so far.
type Stats struct {
	Lines     int
	Rendered  int
	Starts    int
	Deaths    int
	// Oversized counts lines skipped for exceeding the line length limit.
	Oversized int
}

// Session owns all mutable per-stream state. It must be driven from a
// single goroutine.
type Session struct {
	opts     Options
	reg      *logcat.Registry
	tracker  *tracker.Tracker
	composer *render.Composer
	lastTag  render.TagMemory
	sinks    []sink.Sink
	failed   map[string]bool
	log      logger.Logger
	stats    Stats
}

// New wires a session. Missing registry, tracker, palette or logger get defaults.
func New(opts Options, deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Registry == nil {
		deps.Registry = logcat.NewRegistry(deps.Logger)
	}
	if deps.Tracker == nil {
		deps.Tracker = tracker.New(nil, nil)
	}
	if deps.Colors == nil {
		deps.Colors = palette.NewDefault()
	}
	return &Session{
		opts:     opts,
		reg:      deps.Registry,
		tracker:  deps.Tracker,
		composer: render.NewComposer(opts.Columns, deps.Colors),
		sinks:    deps.Sinks,
		failed:   make(map[string]bool),
		log:      deps.Logger,
	}
}

// Run feeds every line of r through ProcessLine until EOF, a console
// failure, or ctx is done. Lines longer than maxLineSize are skipped.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	br := bufio.NewReaderSize(r, 64*1024)

	for {
		line, err := readLine(br)
		switch {
		case errors.Is(err, errLineTooLong):
			s.stats.Lines++
			s.stats.Oversized++
			s.log.Warn("skipped oversized line", "limit_bytes", maxLineSize)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("reading log stream: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.ProcessLine(line); err != nil {
			return err
		}
	}
}

var errLineTooLong = errors.New("line exceeds maximum length")

// readLine returns the next line, newline included. An oversized line is
// consumed up to its newline and reported as errLineTooLong. A final line
// without a newline is returned before io.EOF.
func readLine(br *bufio.Reader) (string, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong && len(buf)+len(chunk) > maxLineSize {
			tooLong = true
			buf = nil
		}
		if !tooLong {
			buf = append(buf, chunk...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if tooLong {
			return "", errLineTooLong
		}
		if errors.Is(err, io.EOF) && len(buf) > 0 {
			return string(buf), nil
		}
		return string(buf), err
	}
}

// ProcessLine handles one line without its terminator. Only a console
// failure is returned; everything else is dropped or logged.
func (s *Session) ProcessLine(line string) error {
	s.stats.Lines++
	line = strings.ToValidUTF8(strings.TrimRight(line, "\r\n"), "�")

	c := s.reg.Classify(line)
	if c.Kind == logcat.KindNoise {
		return nil
	}

	if ev := c.Start; ev != nil && s.tracker.RecordStart(ev.PID, ev.Package) {
		s.stats.Starts++
		s.lastTag.Reset()
		s.log.Debug("process started", "pid", ev.PID, "package", ev.Package)
		return s.emit(render.StartBanner(*ev, s.composer.Columns().BannerWidth()))
	}

	if ev := c.Death; ev != nil && s.tracker.RecordDeath(ev.PID, ev.Package) {
		s.stats.Deaths++
		s.lastTag.Reset()
		s.log.Debug("process ended", "pid", ev.PID, "package", ev.Package)
		return s.emit(render.DeathBanner(*ev, s.composer.Columns().BannerWidth()))
	}

	if c.Kind != logcat.KindRecord {
		return nil
	}
	rec := c.Record

	if !s.opts.ShowAll && !s.tracker.IsTracked(rec.PID) {
		return nil
	}
	if rec.Level < s.opts.MinLevel {
		return nil
	}
	if len(s.opts.IgnoreTags) > 0 && s.reg.MatchTag(rec.Tag, s.opts.IgnoreTags) {
		return nil
	}
	if len(s.opts.Tags) > 0 && !s.reg.MatchTag(rec.Tag, s.opts.Tags) {
		return nil
	}

	h := s.composer.Compose(rec, s.tracker.Owner(rec.PID), &s.lastTag)
	msg := s.reg.Highlight(rec.Message, s.opts.GCColor)
	return s.emit(render.NewLine(h, rec.Level, msg))
}

// emit renders r once per sink, at that sink's width, and writes it.
func (s *Session) emit(r render.Renderable) error {
	s.stats.Rendered++
	for _, sk := range s.sinks {
		out := r.Render(sk.Width())
		if !sk.Colors() {
			out = ansi.Strip(out)
		}
		err := sk.Write(out)
		if err == nil {
			continue
		}
		if errors.Is(err, sink.ErrPrimarySink) {
			return err
		}
		if !s.failed[sk.Name()] {
			s.failed[sk.Name()] = true
			s.log.Error("output sink failed, further errors suppressed", "sink", sk.Name(), "err", err)
		}
	}
	return nil
}

func (s *Session) Stats() Stats { return s.stats }

func (s *Session) Tracker() *tracker.Tracker { return s.tracker }

// LastTag is the tag shown by the most recent record header, if any.
func (s *Session) LastTag() (string, bool) { return s.lastTag.Last() }
