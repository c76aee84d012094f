package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinpbarnett/droidcat/internal/logcat"
	"github.com/justinpbarnett/droidcat/internal/render"
	"github.com/justinpbarnett/droidcat/internal/sink"
	"github.com/justinpbarnett/droidcat/internal/text"
	"github.com/justinpbarnett/droidcat/internal/tracker"
)

// memSink records every write.
type memSink struct {
	name   string
	width  int
	colors bool
	writes []string
	err    error
}

func (m *memSink) Name() string { return m.name }
func (m *memSink) Width() int { return m.width }
func (m *memSink) Colors() bool { return m.colors }
func (m *memSink) Close() error { return nil }
func (m *memSink) Write(s string) error {
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, s)
	return nil
}

func (m *memSink) text() string { return strings.Join(m.writes, "") }

func defaultOptions() Options {
	return Options{Columns: render.DefaultColumns(), MinLevel: logcat.LevelVerbose, ShowAll: true}
}

func newTestSession(opts Options, packages []string, snapshot map[string]string, sinks ...sink.Sink) *Session {
	return New(opts, Deps{Tracker: tracker.New(packages, snapshot), Sinks: sinks})
}

func TestRoundTripSingleLine(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	s := newTestSession(defaultOptions(), nil, nil, out)

	require.NoError(t, s.ProcessLine("I/MyTag( 1234): hello world"))
	require.Len(t, out.writes, 1)

	got := out.writes[0]
	assert.True(t, strings.HasSuffix(got, "hello world\n"), "got %q", got)
	assert.Equal(t, 1, strings.Count(got, "\n"))
	assert.False(t, strings.HasPrefix(ansi.Strip(got), "1234"), "pid column should be off by default")
}

func TestRoundTripAllColumnsOff(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	opts := defaultOptions()
	opts.Columns.TagWidth = 0
	s := newTestSession(opts, nil, nil, out)

	require.NoError(t, s.ProcessLine("I/MyTag( 1234): hello world"))
	require.Len(t, out.writes, 1)
	assert.Equal(t, " I  hello world\n", ansi.Strip(out.writes[0]))
}

func TestColorlessSinkGetsStrippedText(t *testing.T) {
	console := &memSink{name: "console", width: 80, colors: true}
	file := &memSink{name: "file", width: text.Unbounded}
	s := newTestSession(defaultOptions(), nil, nil, console, file)

	require.NoError(t, s.ProcessLine("W/MyTag( 1234): careful"))

	assert.Contains(t, console.text(), "\x1b[")
	assert.NotContains(t, file.text(), "\x1b[")
	assert.Equal(t, ansi.Strip(console.text()), file.text())
}

func TestWrapPerSinkWidth(t *testing.T) {
	console := &memSink{name: "console", width: 40, colors: true}
	file := &memSink{name: "file", width: text.Unbounded}
	s := newTestSession(defaultOptions(), nil, nil, console, file)

	require.NoError(t, s.ProcessLine("I/MyTag( 1234): "+strings.Repeat("z", 60)))

	assert.Greater(t, strings.Count(console.text(), "\n"), 1, "console should wrap")
	assert.Equal(t, 1, strings.Count(file.text(), "\n"), "file should never wrap")
}

func TestNoiseDropped(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	s := newTestSession(defaultOptions(), nil, nil, out)

	require.NoError(t, s.ProcessLine("E/Trace( 1): error opening trace file: nativeGetEnabledTags"))
	require.NoError(t, s.ProcessLine("--------- beginning of main"))
	assert.Empty(t, out.writes)
	assert.Equal(t, 2, s.Stats().Lines)
}

func TestStartLineTracksAndSuppressesRecord(t *testing.T) {
	out := &memSink{name: "console", width: 120, colors: true}
	opts := defaultOptions()
	opts.ShowAll = false
	s := newTestSession(opts, []string{"com.example.app"}, nil, out)

	line := "I/ActivityManager(  456): Start proc 5678:com.example.app/u0a123 for activity {com.example.app/.MainActivity}"
	require.NoError(t, s.ProcessLine(line))

	assert.True(t, s.Tracker().IsTracked("5678"))
	assert.Equal(t, "com.example.app", s.Tracker().Owner("5678"))
	require.Len(t, out.writes, 1)

	plain := ansi.Strip(out.writes[0])
	block := strings.Repeat(" ", opts.Columns.BannerWidth()-1)
	assert.True(t, strings.HasPrefix(plain, block+"\n"), "banner block should be 26 wide: %q", plain)
	assert.Contains(t, plain, "Process com.example.app created for com.example.app/.MainActivity")
	assert.Contains(t, plain, "PID: 5678")
	assert.NotContains(t, plain, "Start proc", "the record itself should not be rendered")
	assert.Equal(t, 1, s.Stats().Starts)
}

func TestStartOfUnwatchedPackageFallsThrough(t *testing.T) {
	out := &memSink{name: "console", width: 120, colors: true}
	s := newTestSession(defaultOptions(), []string{"com.example.app"}, nil, out)

	line := "I/ActivityManager(  456): Start proc 999:com.other/u0a1 for service {com.other/.Svc}"
	require.NoError(t, s.ProcessLine(line))

	assert.False(t, s.Tracker().IsTracked("999"))
	require.Len(t, out.writes, 1)
	assert.Contains(t, ansi.Strip(out.writes[0]), "Start proc 999:com.other")
}

func TestDeathRemovesPidAndResetsTag(t *testing.T) {
	out := &memSink{name: "console", width: 120, colors: true}
	opts := defaultOptions()
	opts.ShowAll = false
	s := newTestSession(opts, []string{"com.example.app"}, map[string]string{"5678": "com.example.app"}, out)

	require.NoError(t, s.ProcessLine("D/MyTag( 5678): before"))
	_, ok := s.LastTag()
	require.True(t, ok)

	require.NoError(t, s.ProcessLine("I/ActivityManager(  456): Process com.example.app (pid 5678) has died"))

	assert.False(t, s.Tracker().IsTracked("5678"))
	_, ok = s.LastTag()
	assert.False(t, ok, "death should reset the last tag")
	require.Len(t, out.writes, 2)
	assert.Contains(t, ansi.Strip(out.writes[1]), "Process com.example.app (PID: 5678) ended")

	require.NoError(t, s.ProcessLine("D/MyTag( 5678): after"))
	assert.Len(t, out.writes, 2, "records from a dead pid are dropped")
}

func TestUntrackedPidDropped(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	opts := defaultOptions()
	opts.ShowAll = false
	s := newTestSession(opts, []string{"com.example.app"}, map[string]string{"1": "com.example.app"}, out)

	require.NoError(t, s.ProcessLine("I/Tag( 2): not ours"))
	require.NoError(t, s.ProcessLine("I/Tag( 1): ours"))
	require.Len(t, out.writes, 1)
	assert.Contains(t, out.writes[0], "ours")
}

func TestRepeatedTagBlanked(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	s := newTestSession(defaultOptions(), nil, nil, out)

	require.NoError(t, s.ProcessLine("I/MyTag( 1): first"))
	require.NoError(t, s.ProcessLine("I/MyTag( 1): second"))

	first := ansi.Strip(out.writes[0])
	second := ansi.Strip(out.writes[1])
	assert.True(t, strings.HasPrefix(first, "MyTag"), "first: %q", first)
	assert.True(t, strings.HasPrefix(second, strings.Repeat(" ", 20)), "second: %q", second)
}

func TestRepeatedTagAlwaysShown(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	opts := defaultOptions()
	opts.Columns.AlwaysShowTags = true
	s := newTestSession(opts, nil, nil, out)

	require.NoError(t, s.ProcessLine("I/MyTag( 1): first"))
	require.NoError(t, s.ProcessLine("I/MyTag( 1): second"))
	assert.True(t, strings.HasPrefix(ansi.Strip(out.writes[1]), "MyTag"))
}

func TestLevelThreshold(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	opts := defaultOptions()
	opts.MinLevel = logcat.LevelWarn
	s := newTestSession(opts, nil, nil, out)

	require.NoError(t, s.ProcessLine("I/Tag( 1): info"))
	require.NoError(t, s.ProcessLine("W/Tag( 1): warn"))
	require.NoError(t, s.ProcessLine("E/Tag( 1): error"))
	assert.Len(t, out.writes, 2)
}

func TestTagFilters(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	opts := defaultOptions()
	opts.Tags = []string{"Net.*", "Auth"}
	opts.IgnoreTags = []string{"NetVerbose"}
	s := newTestSession(opts, nil, nil, out)

	for _, line := range []string{
		"I/NetClient( 1): kept",
		"I/NetVerbose( 1): ignored",
		"I/MyAuthService( 1): kept by substring",
		"I/Other( 1): not included",
	} {
		require.NoError(t, s.ProcessLine(line))
	}
	require.Len(t, out.writes, 2)
	assert.Contains(t, out.writes[0], "kept")
	assert.Contains(t, out.writes[1], "kept by substring")
}

func TestGCHighlightOptIn(t *testing.T) {
	line := "D/dalvikvm( 1): GC_CONCURRENT freed 1024K, 45% free 3000K/5000K, paused 2ms+3ms"

	plain := &memSink{name: "console", width: 200, colors: true}
	s := newTestSession(defaultOptions(), nil, nil, plain)
	require.NoError(t, s.ProcessLine(line))

	opts := defaultOptions()
	opts.GCColor = true
	colored := &memSink{name: "console", width: 200, colors: true}
	s = newTestSession(opts, nil, nil, colored)
	require.NoError(t, s.ProcessLine(line))

	assert.NotEqual(t, plain.writes[0], colored.writes[0])
	assert.Equal(t, ansi.Strip(plain.writes[0]), ansi.Strip(colored.writes[0]))
}

func TestPrimarySinkFailureStops(t *testing.T) {
	broken := &memSink{name: "console", width: 80, err: sink.ErrPrimarySink}
	s := newTestSession(defaultOptions(), nil, nil, broken)

	err := s.ProcessLine("I/Tag( 1): x")
	assert.ErrorIs(t, err, sink.ErrPrimarySink)
}

func TestSecondarySinkFailureIgnored(t *testing.T) {
	console := &memSink{name: "console", width: 80, colors: true}
	file := &memSink{name: "file", width: text.Unbounded, err: errors.New("disk full")}
	s := newTestSession(defaultOptions(), nil, nil, console, file)

	require.NoError(t, s.ProcessLine("I/Tag( 1): one"))
	require.NoError(t, s.ProcessLine("I/Tag( 1): two"))
	assert.Len(t, console.writes, 2)
}

func TestRunReadsUntilEOF(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	s := newTestSession(defaultOptions(), nil, nil, out)

	in := "I/A( 1): one\r\nnoise line\nI/B( 1): two\n"
	require.NoError(t, s.Run(context.Background(), strings.NewReader(in)))
	assert.Len(t, out.writes, 2)
	assert.Equal(t, 3, s.Stats().Lines)
	assert.Equal(t, 2, s.Stats().Rendered)
	for _, w := range out.writes {
		assert.NotContains(t, w, "\r")
	}
}

func TestRunSkipsOversizedLine(t *testing.T) {
	out := &memSink{name: "console", width: text.Unbounded}
	s := newTestSession(defaultOptions(), nil, nil, out)

	in := "I/A( 1): " + strings.Repeat("x", 2*maxLineSize) + "\nI/B( 1): after\n"
	require.NoError(t, s.Run(context.Background(), strings.NewReader(in)))

	require.Len(t, out.writes, 1)
	assert.True(t, strings.HasSuffix(out.writes[0], "after\n"), "got %q", out.writes[0])
	assert.Equal(t, 2, s.Stats().Lines)
	assert.Equal(t, 1, s.Stats().Oversized)
}

func TestRunFinalLineWithoutNewline(t *testing.T) {
	out := &memSink{name: "console", width: text.Unbounded}
	s := newTestSession(defaultOptions(), nil, nil, out)

	require.NoError(t, s.Run(context.Background(), strings.NewReader("I/A( 1): one\nI/A( 1): two")))
	require.Len(t, out.writes, 2)
	assert.True(t, strings.HasSuffix(out.writes[1], "two\n"))
}

func TestReadLineLimit(t *testing.T) {
	exact := strings.Repeat("y", maxLineSize-1) + "\n"
	br := bufio.NewReaderSize(strings.NewReader(exact+"z"+exact), 64*1024)

	line, err := readLine(br)
	require.NoError(t, err)
	assert.Len(t, line, maxLineSize)

	_, err = readLine(br)
	assert.ErrorIs(t, err, errLineTooLong)

	_, err = readLine(br)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRunStopsOnCancel(t *testing.T) {
	out := &memSink{name: "console", width: 80, colors: true}
	s := newTestSession(defaultOptions(), nil, nil, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, strings.NewReader("I/A( 1): one\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.writes)
}

func TestRunStopsOnPrimaryFailure(t *testing.T) {
	broken := &memSink{name: "console", width: 80, err: sink.ErrPrimarySink}
	s := newTestSession(defaultOptions(), nil, nil, broken)

	err := s.Run(context.Background(), strings.NewReader("I/A( 1): one\nI/A( 1): two\n"))
	assert.ErrorIs(t, err, sink.ErrPrimarySink)
	assert.Equal(t, 1, s.Stats().Lines)
}

func TestPackageColumnShowsOwner(t *testing.T) {
	out := &memSink{name: "console", width: 120, colors: true}
	opts := defaultOptions()
	opts.Columns.ShowPackage = true
	s := newTestSession(opts, nil, map[string]string{"42": "com.example.app"}, out)

	require.NoError(t, s.ProcessLine("I/Tag( 42): tracked"))
	require.NoError(t, s.ProcessLine("I/Tag( 43): unknown"))
	assert.True(t, strings.HasPrefix(ansi.Strip(out.writes[0]), "com.example.app"))
	assert.True(t, strings.HasPrefix(ansi.Strip(out.writes[1]), "UNKNOWN(43)"))
}
