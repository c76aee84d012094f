package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load discovers a config file, merges it with defaults, applies environment
// variable overrides, validates the result, and returns the final config.
// A non-empty explicit path skips discovery and must exist.
func Load(explicit string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFrom(cwd, explicit)
}

// LoadFrom loads config using dir for local file discovery.
func LoadFrom(dir, explicit string) (*Config, error) {
	cfg := DefaultConfig()

	path := explicit
	if path == "" {
		path = discoverConfigPath(dir)
	}

	if path != "" {
		override, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merge(&cfg, override)
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

var localNames = []string{"droidcat.yaml", "droidcat.yml", "droidcat.toml"}

// discoverConfigPath returns the first config file that exists, or "" for
// defaults-only mode.
func discoverConfigPath(dir string) string {
	for _, name := range localNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		p := filepath.Join(home, ".config", "droidcat", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// loadFromFile decodes a YAML or TOML file, picked by extension. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("parsing TOML: unknown keys %s", strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml or .toml)", filepath.Ext(path))
	}

	return &cfg, nil
}

// merge overlays override onto base. Scalar fields override when non-zero,
// slices replace entirely when non-nil, and *bool fields override when non-nil.
func merge(base *Config, override *Config) {
	// ADB
	if override.ADB.Path != "" {
		base.ADB.Path = override.ADB.Path
	}
	if override.ADB.Target != "" {
		base.ADB.Target = override.ADB.Target
	}
	if override.ADB.Serial != "" {
		base.ADB.Serial = override.ADB.Serial
	}
	if override.ADB.Keep != nil {
		base.ADB.Keep = override.ADB.Keep
	}

	// Filter
	if override.Filter.Packages != nil {
		base.Filter.Packages = override.Filter.Packages
	}
	if override.Filter.All != nil {
		base.Filter.All = override.Filter.All
	}
	if override.Filter.Current != nil {
		base.Filter.Current = override.Filter.Current
	}
	if override.Filter.MinLevel != "" {
		base.Filter.MinLevel = override.Filter.MinLevel
	}
	if override.Filter.Tags != nil {
		base.Filter.Tags = override.Filter.Tags
	}
	if override.Filter.IgnoreTags != nil {
		base.Filter.IgnoreTags = override.Filter.IgnoreTags
	}
	if override.Filter.IgnoreSystemTags != nil {
		base.Filter.IgnoreSystemTags = override.Filter.IgnoreSystemTags
	}
	if override.Filter.Regex != "" {
		base.Filter.Regex = override.Filter.Regex
	}

	// Display
	if override.Display.ShowPID != nil {
		base.Display.ShowPID = override.Display.ShowPID
	}
	if override.Display.ShowPackage != nil {
		base.Display.ShowPackage = override.Display.ShowPackage
	}
	if override.Display.AlwaysShowTags != nil {
		base.Display.AlwaysShowTags = override.Display.AlwaysShowTags
	}
	if override.Display.PIDWidth != 0 {
		base.Display.PIDWidth = override.Display.PIDWidth
	}
	if override.Display.PackageWidth != 0 {
		base.Display.PackageWidth = override.Display.PackageWidth
	}
	if override.Display.TagWidth != 0 {
		base.Display.TagWidth = override.Display.TagWidth
	}
	if override.Display.GCColor != nil {
		base.Display.GCColor = override.Display.GCColor
	}
	if override.Display.NoColor != nil {
		base.Display.NoColor = override.Display.NoColor
	}

	if override.Output.File != "" {
		base.Output.File = override.Output.File
	}

	// Log
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
	if override.Log.JSON != nil {
		base.Log.JSON = override.Log.JSON
	}
}

// applyEnvOverrides applies DROIDCAT_* environment variables and NO_COLOR on
// top of the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DROIDCAT_ADB"); v != "" {
		cfg.ADB.Path = v
	}
	if v := os.Getenv("DROIDCAT_SERIAL"); v != "" {
		cfg.ADB.Target = "serial"
		cfg.ADB.Serial = v
	}
	if v := os.Getenv("DROIDCAT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DROIDCAT_TAG_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Display.TagWidth = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: DROIDCAT_TAG_WIDTH=%q is not a valid integer, ignoring\n", v)
		}
	}
	// https://no-color.org: any non-empty value disables color
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.Display.NoColor = boolPtr(true)
	}
}
