package config

import (
	"fmt"
	"strings"

	"github.com/justinpbarnett/droidcat/internal/logcat"
)

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate re-checks cfg after command-line flags have been layered on.
func (c *Config) Validate() error { return validate(c) }

// validate checks the config for internal consistency. All checks run and
// every failure is reported.
func validate(cfg *Config) error {
	var errs []string

	switch cfg.ADB.Target {
	case "any", "device", "emulator":
	case "serial":
		if cfg.ADB.Serial == "" {
			errs = append(errs, `adb.serial must be set when adb.target is "serial"`)
		}
	default:
		errs = append(errs, fmt.Sprintf("adb.target %q must be \"any\", \"device\", \"emulator\", or \"serial\"", cfg.ADB.Target))
	}

	if _, err := logcat.ParseLevel(cfg.Filter.MinLevel); err != nil {
		errs = append(errs, fmt.Sprintf("filter.min_level: %v", err))
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "off", "none", "disabled":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be \"debug\", \"info\", \"warn\", \"error\", or \"off\"", cfg.Log.Level))
	}

	if cfg.Display.PIDWidth <= 0 {
		errs = append(errs, "display.pid_width must be positive")
	}
	if cfg.Display.PackageWidth <= 0 {
		errs = append(errs, "display.package_width must be positive")
	}
	if cfg.Display.TagWidth < 0 {
		errs = append(errs, "display.tag_width must not be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
