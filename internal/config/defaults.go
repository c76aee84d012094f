package config

func boolPtr(b bool) *bool { return &b }

func DefaultConfig() Config {
	return Config{
		ADB: ADBConfig{
			Path:   "adb",
			Target: "any",
			Keep:   boolPtr(false),
		},
		Filter: FilterConfig{
			All:              boolPtr(false),
			Current:          boolPtr(false),
			MinLevel:         "V",
			IgnoreSystemTags: boolPtr(false),
		},
		Display: DisplayConfig{
			ShowPID:        boolPtr(false),
			ShowPackage:    boolPtr(false),
			AlwaysShowTags: boolPtr(false),
			PIDWidth:       5,
			PackageWidth:   20,
			TagWidth:       20,
			GCColor:        boolPtr(false),
			NoColor:        boolPtr(false),
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  boolPtr(false),
		},
	}
}
