package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvConfigDir names the directory holding application.yaml and profile files.
	EnvConfigDir = "APPLICATION_CONFIGURATION_DIR"
	// EnvProfiles is a comma separated list of active profiles, applied in order.
	EnvProfiles = "APPLICATION_PROFILES_ACTIVE"
	// EnvPrefix restricts environment overrides to variables starting with "<prefix>_".
	EnvPrefix = "APPLICATION_CONFIGURATION_PREFIX"

	defaultConfigDir = "./configs"
	baseConfigFile   = "application.yaml"
)

// Config wraps koanf.Koanf and scopes lookups to a key prefix.
// The root config has an empty prefix; GetSubConfig appends to it.
// @see https://github.com/knadh/koanf .
type Config struct {
	k      *koanf.Koanf
	prefix string
}

// Load builds the configuration in layers, each overriding the previous one:
//   - defaults (flattened keys such as "raw.port")
//   - <dir>/application.yaml
//   - <dir>/application-<profile>.yaml for every active profile, in order
//   - environment variables, RAW_PORT becoming raw.port
//
// A missing directory, base file or profile file is logged and skipped, so a
// binary started without any configuration runs on its defaults.
func Load(defaults map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if len(defaults) > 0 {
		if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load default configuration: %w", err)
		}
	}

	configDir := os.Getenv(EnvConfigDir)
	if configDir == "" {
		configDir = defaultConfigDir
	}

	if err := loadYAML(k, filepath.Join(configDir, baseConfigFile)); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load base configuration: %w", err)
		}
		logger.Info("Base configuration not found, using defaults", "directory", configDir)
	}

	for _, profile := range activeProfiles() {
		path := filepath.Join(configDir, fmt.Sprintf("application-%s.yaml", profile))
		if err := loadYAML(k, path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Profile configuration file not found", "profile", profile, "file", path)
				continue
			}
			return nil, fmt.Errorf("failed to load profile configuration %s: %w", profile, err)
		}
	}

	if err := loadEnv(k, os.Getenv(EnvPrefix)); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return &Config{k: k}, nil
}

func loadYAML(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return k.Load(file.Provider(path), yaml.Parser())
}

func loadEnv(k *koanf.Koanf, prefix string) error {
	if prefix != "" {
		prefix += "_"
	}
	return k.Load(env.Provider(prefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
}

func activeProfiles() []string {
	var profiles []string
	for _, p := range strings.Split(os.Getenv(EnvProfiles), ",") {
		if p = strings.TrimSpace(p); p != "" {
			profiles = append(profiles, p)
		}
	}
	return profiles
}

func (c *Config) buildKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + "." + key
}

// GetSubConfig returns a view of the sub-tree under prefix.
func (c *Config) GetSubConfig(prefix string) *Config {
	return &Config{k: c.k, prefix: c.buildKey(prefix)}
}

// Prefix returns the full key prefix of this view.
func (c *Config) Prefix() string {
	return c.prefix
}

func (c *Config) Exists(key string) bool {
	return c.k.Exists(c.buildKey(key))
}

func (c *Config) GetString(key string) string {
	return c.k.String(c.buildKey(key))
}

func (c *Config) GetInt(key string) int {
	return c.k.Int(c.buildKey(key))
}

// GetStringWithDefault gets a string value with a default fallback
func (c *Config) GetStringWithDefault(key, defaultValue string) string {
	if c.Exists(key) {
		return c.GetString(key)
	}
	return defaultValue
}

// GetIntWithDefault gets an integer value with a default fallback
func (c *Config) GetIntWithDefault(key string, defaultValue int) int {
	if c.Exists(key) {
		return c.GetInt(key)
	}
	return defaultValue
}

// GetLogLevel reads logging.level, falling back to defaultLevel when unset or unknown.
func (c *Config) GetLogLevel(defaultLevel slog.Level) slog.Level {
	switch strings.ToLower(c.GetString("logging.level")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultLevel
	}
}

// NewLogger builds the process logger from logging.level and logging.format.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.GetLogLevel(slog.LevelInfo)}
	if strings.EqualFold(c.GetString("logging.format"), "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
