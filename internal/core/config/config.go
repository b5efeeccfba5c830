package config

import (
	"fmt"
	"log/slog"
	"strings"

	coreresample "github.com/barline-lab/barline/internal/core/resample"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config plus resolved
// preset-loading config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Resample ResampleConfig `koanf:"resample"`
	Logging  LoggingConfig  `koanf:"logging"`

	// PresetLoading is populated by Load after parsing preset files.
	PresetLoading PresetLoadingConfig `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type ResampleConfig struct {
	PresetDir          string `koanf:"preset_dir"`
	RequirePresets     bool   `koanf:"require_presets"`
	MaxTicksPerRequest int    `koanf:"max_ticks_per_request"`
}

type LoggingConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

type PresetLoadingConfig struct {
	PresetDir string
	Presets   []coreresample.Preset
}

// SlogLevel converts the configured level string into a slog.Level.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Resample.PresetDir) == "" {
		return fmt.Errorf("resample.preset_dir is required")
	}
	if c.Resample.MaxTicksPerRequest <= 0 {
		return fmt.Errorf("resample.max_ticks_per_request must be > 0")
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}

	return nil
}

// Load parses config from file + env, validates it, then loads and
// validates resampler presets.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                    8080,
		"server.host":                    "0.0.0.0",
		"server.max_body_size_mb":        4,
		"server.mode":                    "release",
		"resample.preset_dir":            "./config/presets",
		"resample.require_presets":       false,
		"resample.max_ticks_per_request": 100000,
		"logging.level":                  "info",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("BARLINE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "BARLINE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := coreresample.NewFileSystemPresetRepository(cfg.Resample.PresetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load resampler presets: %w", err)
	}
	presets := repo.GetPresets()
	if cfg.Resample.RequirePresets && len(presets) == 0 {
		return nil, fmt.Errorf("no resampler presets found in %q", cfg.Resample.PresetDir)
	}

	cfg.PresetLoading = PresetLoadingConfig{
		PresetDir: cfg.Resample.PresetDir,
		Presets:   presets,
	}

	return &cfg, nil
}
