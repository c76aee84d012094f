package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/justinpbarnett/droidcat/internal/adb"
	"github.com/justinpbarnett/droidcat/internal/config"
	"github.com/justinpbarnett/droidcat/internal/logcat"
	"github.com/justinpbarnett/droidcat/internal/logger"
	"github.com/justinpbarnett/droidcat/internal/render"
	"github.com/justinpbarnett/droidcat/internal/session"
	"github.com/justinpbarnett/droidcat/internal/sink"
	"github.com/justinpbarnett/droidcat/internal/styles"
	"github.com/justinpbarnett/droidcat/internal/text"
	"github.com/justinpbarnett/droidcat/internal/tracker"
)

const ellipsis = text.Ellipsis

var errNoDevices = errors.New("no attached devices")

type streams struct {
	in          *os.File
	out         *os.File
	err         *os.File
	interactive bool
}

func defaultStreams() streams {
	return streams{
		in:          os.Stdin,
		out:         os.Stdout,
		err:         os.Stderr,
		interactive: term.IsTerminal(os.Stdin.Fd()),
	}
}

// runCapture lists devices, prepares the package interest set, starts the
// log source and runs the session until EOF or interrupt.
func runCapture(ctx context.Context, cfg *config.Config, std streams) error {
	start := time.Now()

	noColor := config.Enabled(cfg.Display.NoColor)
	out := styles.NewPrinter(std.out, noColor)
	errOut := styles.NewPrinter(std.err, noColor)
	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Output:     std.err,
		JSON:       config.Enabled(cfg.Log.JSON),
		TimeFormat: "15:04:05",
	})

	client, err := adb.NewClient(cfg.ADB.Path, selector(cfg.ADB))
	if err != nil {
		if std.interactive {
			return err
		}
		log.Debug("adb unavailable, reading piped input only", "err", err)
	}

	if client != nil {
		devices, err := client.Devices(ctx)
		if err != nil {
			log.Warn("listing devices failed", "err", err)
		}
		for i, d := range devices {
			out.Info("Found Device #%d: %s", i, d)
		}
		if len(devices) == 0 && std.interactive {
			errOut.Error("ADB cannot find any attached devices!\nAttach a device and try again!")
			return errNoDevices
		}
	}

	reg := logcat.NewRegistry(log)
	opts := sessionOptions(cfg)

	sinks := []sink.Sink{sink.NewConsole(std.out, !noColor, sink.TerminalWidth(std.out))}
	if cfg.Output.File != "" {
		f, err := sink.CreateFile(cfg.Output.File)
		if err != nil {
			return err
		}
		defer f.Close()
		log.Info("writing plain output", "path", f.Path())
		sinks = append(sinks, f)
	}

	packages := dedupe(cfg.Filter.Packages)
	if config.Enabled(cfg.Filter.Current) && client != nil {
		visible, err := client.VisiblePackages(ctx, reg)
		if err != nil {
			log.Warn("reading visible activities failed", "err", err)
		}
		packages = dedupe(append(packages, visible...))
	}

	if !config.Enabled(cfg.ADB.Keep) && std.interactive && client != nil {
		out.Info("Clearing logcat%s", ellipsis)
		if err := client.ClearLog(ctx); err != nil {
			log.Warn("clearing logcat failed", "err", err)
		}
	}

	opts.ShowAll = config.Enabled(cfg.Filter.All) || len(packages) == 0
	trk := tracker.New(packages, nil)
	if client != nil {
		snapshot, err := client.Processes(ctx, reg, func(name string) bool {
			return opts.ShowAll || trk.IsCatchall(name)
		})
		if err != nil {
			log.Warn("reading process table failed", "err", err)
		}
		trk.Seed(snapshot)
	}
	log.Debug("initial process snapshot", "processes", trk.Len(), "min_level", opts.MinLevel.Name())

	var (
		source adb.Source
		proc   *adb.Process
	)
	if std.interactive {
		proc, err = client.StartLogcat(ctx, cfg.Filter.Regex)
		if err != nil {
			return err
		}
		source = proc
	} else {
		source = adb.NewStdin(std.in)
	}
	defer source.Close()

	if len(packages) > 0 {
		out.Info("Capturing logcat messages from packages: [%s]%s", strings.Join(packages, ", "), ellipsis)
	} else {
		out.Info("Capturing all logcat messages%s", ellipsis)
	}

	sess := session.New(opts, session.Deps{
		Registry: reg,
		Tracker:  trk,
		Sinks:    sinks,
		Logger:   log,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx, source) }()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		// Closing the source unblocks the pending read in Run.
		source.Close()
		<-done
		out.Warn("Stopped by user.")
		summarize(log, sess.Stats(), start)
		return nil
	}

	if proc != nil {
		out.Info("Child process %d exited with status: %s", proc.PID(), proc.ExitStatus())
		if lines := proc.Stderr(); len(lines) > 0 {
			width := sink.TerminalWidth(std.err)()
			for i, l := range lines {
				lines[i] = text.Truncate(l, width)
			}
			errOut.Error("Error reading stream:\n%s", strings.Join(lines, "\n"))
		}
	}
	summarize(log, sess.Stats(), start)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func summarize(log logger.Logger, st session.Stats, start time.Time) {
	log.Info("capture finished",
		"lines", text.FormatCount(st.Lines),
		"rendered", text.FormatCount(st.Rendered),
		"starts", st.Starts,
		"deaths", st.Deaths,
		"oversized", st.Oversized,
		"elapsed", text.FormatElapsed(time.Since(start)),
	)
}

func selector(c config.ADBConfig) adb.Selector {
	switch c.Target {
	case "device":
		return adb.Selector{Target: adb.TargetDevice}
	case "emulator":
		return adb.Selector{Target: adb.TargetEmulator}
	case "serial":
		return adb.Selector{Target: adb.TargetSerial, Serial: c.Serial}
	}
	return adb.Selector{}
}

// sessionOptions maps display and filter settings onto a session. ShowAll
// is decided later, once the package list is final.
func sessionOptions(cfg *config.Config) session.Options {
	minLevel, err := logcat.ParseLevel(cfg.Filter.MinLevel)
	if err != nil {
		minLevel = logcat.LevelVerbose
	}

	ignore := logcat.SplitFilters(cfg.Filter.IgnoreTags)
	if config.Enabled(cfg.Filter.IgnoreSystemTags) {
		ignore = append(ignore, logcat.SystemTagFilters()...)
	}

	return session.Options{
		Columns: render.Columns{
			ShowPID:        config.Enabled(cfg.Display.ShowPID),
			ShowPackage:    config.Enabled(cfg.Display.ShowPackage),
			AlwaysShowTags: config.Enabled(cfg.Display.AlwaysShowTags),
			PIDWidth:       cfg.Display.PIDWidth,
			PackageWidth:   cfg.Display.PackageWidth,
			TagWidth:       cfg.Display.TagWidth,
		},
		MinLevel:   minLevel,
		Tags:       logcat.SplitFilters(cfg.Filter.Tags),
		IgnoreTags: ignore,
		GCColor:    config.Enabled(cfg.Display.GCColor),
	}
}

// dedupe trims packages and drops blanks and repeats, keeping first-seen order.
func dedupe(packages []string) []string {
	seen := make(map[string]bool, len(packages))
	var out []string
	for _, p := range packages {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
