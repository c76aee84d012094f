package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/justinpbarnett/droidcat/internal/config"
)

// flags mirrors the command line. Only flags the user actually set are
// layered over the loaded config.
type flags struct {
	configPath string

	adbPath  string
	device   bool
	emulator bool
	serial   string

	all              bool
	keep             bool
	current          bool
	ignoreSystemTags bool
	tags             []string
	ignoreTags       []string
	minLevel         string
	regex            string

	showPID        bool
	showPackage    bool
	alwaysShowTags bool
	pidWidth       int
	packageWidth   int
	tagWidth       int
	gcColor        bool
	noColor        bool

	output   string
	diagnose string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "droidcat [PACKAGE...]",
		Short: "Colorized, column-aligned adb logcat",
		Long: "droidcat reformats `adb logcat -v brief` into aligned, colored columns and\n" +
			"follows the processes of the given packages as they start and die.\n\n" +
			"A package ending in ':' (or containing one) names a single process; a bare\n" +
			"package also matches its ':'-suffixed sub-processes. With no packages, every\n" +
			"process is shown. Piped input is read instead of spawning adb.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), cfg)
			if len(args) > 0 {
				cfg.Filter.Packages = append(cfg.Filter.Packages, args...)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runCapture(cmd.Context(), cfg, defaultStreams())
		},
	}

	f.bind(cmd.Flags())
	cmd.AddCommand(newVersionCmd(), newUpdateCmd())
	return cmd
}

func (f *flags) bind(fs *pflag.FlagSet) {
	fs.SortFlags = false
	fs.StringVar(&f.configPath, "config", "", "Config file (default: ./droidcat.yaml, ./droidcat.toml or ~/.config/droidcat/config.*)")

	fs.StringVarP(&f.adbPath, "adb", "A", "", "Path to adb executable (if not in PATH)")
	fs.BoolVarP(&f.device, "device", "d", false, "Use first device for log input")
	fs.BoolVarP(&f.emulator, "emulator", "e", false, "Use first emulator for log input")
	fs.StringVarP(&f.serial, "serial", "s", "", "Use the device with this serial for log input")

	fs.BoolVarP(&f.all, "all", "a", false, "Print log messages from all packages")
	fs.BoolVarP(&f.keep, "keep", "k", false, "Keep the entire log before running")
	fs.BoolVarP(&f.current, "current", "c", false, "Filter logcat by current running app(s)")
	fs.BoolVarP(&f.ignoreSystemTags, "ignore-system-tags", "I", false, "Filter out output from well-known system tags")
	fs.StringArrayVarP(&f.tags, "tag", "t", nil, "Filter output by tag (repeatable, comma separated, regex or substring)")
	fs.StringArrayVarP(&f.ignoreTags, "ignore-tag", "i", nil, "Filter out output by tag (repeatable, comma separated, regex or substring)")
	fs.StringVarP(&f.minLevel, "log-level", "l", "", "Minimum level to print: v, d, i, w, e, f (default v)")
	fs.StringVarP(&f.regex, "regex", "r", "", "Print only messages matching this regex (passed to logcat -e)")

	fs.BoolVarP(&f.showPID, "show-pid", "P", false, "Show PID in output")
	fs.BoolVarP(&f.showPackage, "show-package", "p", false, "Show package name in output")
	fs.BoolVarP(&f.alwaysShowTags, "always-show-tags", "S", false, "Always show the tag name")
	fs.IntVarP(&f.pidWidth, "pid-width", "x", 0, "Width of PID column (default 5)")
	fs.IntVarP(&f.packageWidth, "package-width", "n", 0, "Width of package/process name column (default 20)")
	fs.IntVarP(&f.tagWidth, "tag-width", "m", 0, "Width of tag column (default 20)")
	fs.BoolVarP(&f.gcColor, "gc-color", "g", false, "Highlight garbage collector statistics")
	fs.BoolVarP(&f.noColor, "no-color", "N", false, "Disable colors")

	fs.StringVarP(&f.output, "output", "o", "", "Also write plain, unwrapped output to this file")
	fs.StringVar(&f.diagnose, "log-level-diag", "", "Level of droidcat's own diagnostics on stderr: debug, info, warn, error, off")
}

// apply overlays every flag the user set onto cfg.
func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string) bool { return fs.Changed(name) }
	on := func(b bool) *bool { return &b }

	if set("adb") {
		cfg.ADB.Path = f.adbPath
	}
	switch {
	case set("device") && f.device:
		cfg.ADB.Target = "device"
	case set("emulator") && f.emulator:
		cfg.ADB.Target = "emulator"
	case set("serial"):
		cfg.ADB.Target = "serial"
		cfg.ADB.Serial = f.serial
	}
	if set("keep") {
		cfg.ADB.Keep = on(f.keep)
	}

	if set("all") {
		cfg.Filter.All = on(f.all)
	}
	if set("current") {
		cfg.Filter.Current = on(f.current)
	}
	if set("ignore-system-tags") {
		cfg.Filter.IgnoreSystemTags = on(f.ignoreSystemTags)
	}
	if set("tag") {
		cfg.Filter.Tags = append(cfg.Filter.Tags, f.tags...)
	}
	if set("ignore-tag") {
		cfg.Filter.IgnoreTags = append(cfg.Filter.IgnoreTags, f.ignoreTags...)
	}
	if set("log-level") {
		cfg.Filter.MinLevel = f.minLevel
	}
	if set("regex") {
		cfg.Filter.Regex = f.regex
	}

	if set("show-pid") {
		cfg.Display.ShowPID = on(f.showPID)
	}
	if set("show-package") {
		cfg.Display.ShowPackage = on(f.showPackage)
	}
	if set("always-show-tags") {
		cfg.Display.AlwaysShowTags = on(f.alwaysShowTags)
	}
	if set("pid-width") {
		cfg.Display.PIDWidth = f.pidWidth
	}
	if set("package-width") {
		cfg.Display.PackageWidth = f.packageWidth
	}
	if set("tag-width") {
		cfg.Display.TagWidth = f.tagWidth
	}
	if set("gc-color") {
		cfg.Display.GCColor = on(f.gcColor)
	}
	if set("no-color") {
		cfg.Display.NoColor = on(f.noColor)
	}

	if set("output") {
		cfg.Output.File = f.output
	}
	if set("log-level-diag") {
		cfg.Log.Level = f.diagnose
	}
}
