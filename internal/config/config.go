package config

import (
	"os"
)

// Config holds CLI-level defaults for the kconfig language server binary.
// It never configures the LSP protocol itself: every kconfig/addBuild
// parameter comes from the client at runtime, per the wire protocol.
type Config struct {
	Log   Log
	Debug Debug
	Watch Watch
	Lint  Lint
}

// Log controls the rolling debug/info log file written alongside the
// server process (see internal/debug).
type Log struct {
	Path    string
	Enabled bool
	// MaxSizeBytes rotates the log file (current contents moved to
	// Path+".1") when it is opened already at or past this size; a file
	// that grows past it while open is not rotated. Zero disables rotation.
	MaxSizeBytes int64
}

// Debug controls the debugger-attach listener opened by `serve --debug`.
type Debug struct {
	Port int
}

// Watch controls which files the standalone `lint --watch` subcommand
// treats as relevant when deciding whether to re-lint.
type Watch struct {
	Patterns   []string
	DebounceMs int
}

// Lint holds include/exclude glob sets for the standalone `lint`
// subcommand. Exclude is the --exclude default when that flag is absent;
// Include is not read (the --include default is Watch.Patterns).
type Lint struct {
	Include []string
	Exclude []string
}

// Load returns the default configuration, optionally overridden by a
// .kconfig-lsp.kdl file found under searchDir.
func Load(searchDir string) (*Config, error) {
	cfg := defaultConfig()

	kdlCfg, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}
	if kdlCfg != nil {
		cfg = kdlCfg
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	logPath := "lsp.log"
	if dir, err := os.UserCacheDir(); err == nil {
		logPath = dir + "/kconfig-lsp/lsp.log"
	}

	return &Config{
		Log: Log{
			Path:         logPath,
			Enabled:      false,
			MaxSizeBytes: 10 * 1024 * 1024,
		},
		Debug: Debug{
			Port: 5678,
		},
		Watch: Watch{
			Patterns:   []string{"**/Kconfig*", "**/*.conf"},
			DebounceMs: 300,
		},
		Lint: Lint{
			Include: []string{},
			Exclude: []string{
				"**/.git/**",
				"**/build/**",
				"**/.west/**",
			},
		},
	}
}
