package config

type Config struct {
	ADB     ADBConfig     `yaml:"adb" toml:"adb"`
	Filter  FilterConfig  `yaml:"filter" toml:"filter"`
	Display DisplayConfig `yaml:"display" toml:"display"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

type ADBConfig struct {
	Path string `yaml:"path" toml:"path"`
	// Target is one of "any", "device", "emulator" or "serial".
	Target string `yaml:"target" toml:"target"`
	Serial string `yaml:"serial" toml:"serial"`
	Keep   *bool  `yaml:"keep" toml:"keep"`
}

type FilterConfig struct {
	Packages         []string `yaml:"packages" toml:"packages"`
	All              *bool    `yaml:"all" toml:"all"`
	Current          *bool    `yaml:"current" toml:"current"`
	MinLevel         string   `yaml:"min_level" toml:"min_level"`
	Tags             []string `yaml:"tags" toml:"tags"`
	IgnoreTags       []string `yaml:"ignore_tags" toml:"ignore_tags"`
	IgnoreSystemTags *bool    `yaml:"ignore_system_tags" toml:"ignore_system_tags"`
	Regex            string   `yaml:"regex" toml:"regex"`
}

type DisplayConfig struct {
	ShowPID        *bool `yaml:"show_pid" toml:"show_pid"`
	ShowPackage    *bool `yaml:"show_package" toml:"show_package"`
	AlwaysShowTags *bool `yaml:"always_show_tags" toml:"always_show_tags"`
	PIDWidth       int   `yaml:"pid_width" toml:"pid_width"`
	PackageWidth   int   `yaml:"package_width" toml:"package_width"`
	TagWidth       int   `yaml:"tag_width" toml:"tag_width"`
	GCColor        *bool `yaml:"gc_color" toml:"gc_color"`
	NoColor        *bool `yaml:"no_color" toml:"no_color"`
}

type OutputConfig struct {
	File string `yaml:"file" toml:"file"`
}

// LogConfig controls droidcat's own diagnostics on stderr.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	JSON  *bool  `yaml:"json" toml:"json"`
}

// Enabled dereferences an optional flag.
func Enabled(b *bool) bool { return b != nil && *b }
