/*
Package config manages TOML config for wordrank services.
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	Bench  BenchConfig  `toml:"bench"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig selects and tunes the autocompletor.
type EngineConfig struct {
	Variant   string `toml:"variant"`
	CacheSize int    `toml:"cache_size"`
	Lowercase bool   `toml:"lowercase"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	MinPrefix    int `toml:"min_prefix"`
	MaxPrefix    int `toml:"max_prefix"`
	DefaultLimit int `toml:"default_limit"`
}

// BenchConfig holds benchmark options.
type BenchConfig struct {
	Seed      int64    `toml:"seed"`
	Trials    int      `toml:"trials"`
	TimeLimit Duration `toml:"time_limit"`
	Ks        []int    `toml:"ks"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultNoFilter bool `toml:"no_filter"`
}

// Duration is a time.Duration written as a string like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// GetConfigDir returns the config directory, $XDG_CONFIG_HOME/wordrank or
// the platform equivalent.
func GetConfigDir() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to resolve paths: %v", err)
		return "", err
	}
	return pr.ConfigDir(), nil
}

// GetDefaultConfigPath returns the default path for config.toml, falling
// back to other writable directories when needed.
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath("config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordrank/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Variant:   suggest.KindTrie.String(),
			CacheSize: 0,
			Lowercase: true,
		},
		Server: ServerConfig{
			MaxLimit:     64,
			MinPrefix:    0,
			MaxPrefix:    60,
			DefaultLimit: 10,
		},
		Bench: BenchConfig{
			Seed:      1234,
			Trials:    1000,
			TimeLimit: Duration{5 * time.Second},
			Ks:        []int{1, 4, 7},
		},
		CLI: CliConfig{
			DefaultLimit:    10,
			DefaultNoFilter: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key of a file that does not decode
// into Config as a whole.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "bench"); ok {
		extractBenchConfig(section, &config.Bench)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractString(data, "variant"); ok {
		engine.Variant = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
	if val, ok := utils.ExtractBool(data, "lowercase"); ok {
		engine.Lowercase = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
}

func extractBenchConfig(data map[string]any, bench *BenchConfig) {
	if val, ok := utils.ExtractInt64(data, "seed"); ok {
		bench.Seed = int64(val)
	}
	if val, ok := utils.ExtractInt64(data, "trials"); ok {
		bench.Trials = val
	}
	if val, ok := utils.ExtractString(data, "time_limit"); ok {
		var d Duration
		if err := d.UnmarshalText([]byte(val)); err == nil {
			bench.TimeLimit = d
		} else {
			log.Warnf("Ignoring bench.time_limit %q: %v", val, err)
		}
	}
	if val, ok := utils.ExtractIntSlice(data, "ks"); ok {
		bench.Ks = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "built-in defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Validate reports the first setting that would make the engine, server
// or benchmark misbehave.
func (c *Config) Validate() error {
	if _, err := suggest.ParseKind(c.Engine.Variant); err != nil {
		return fmt.Errorf("%w: engine.variant: %w", ErrInvalidConfig, err)
	}
	if c.Engine.CacheSize < 0 {
		return fmt.Errorf("%w: engine.cache_size must not be negative, got %d", ErrInvalidConfig, c.Engine.CacheSize)
	}

	s := c.Server
	switch {
	case s.MaxLimit <= 0:
		return fmt.Errorf("%w: server.max_limit must be positive, got %d", ErrInvalidConfig, s.MaxLimit)
	case s.MinPrefix < 0:
		return fmt.Errorf("%w: server.min_prefix must not be negative, got %d", ErrInvalidConfig, s.MinPrefix)
	case s.MaxPrefix < s.MinPrefix:
		return fmt.Errorf("%w: server.max_prefix %d is below min_prefix %d", ErrInvalidConfig, s.MaxPrefix, s.MinPrefix)
	case s.DefaultLimit <= 0 || s.DefaultLimit > s.MaxLimit:
		return fmt.Errorf("%w: server.default_limit must be in [1, %d], got %d", ErrInvalidConfig, s.MaxLimit, s.DefaultLimit)
	}

	b := c.Bench
	if b.Trials <= 0 {
		return fmt.Errorf("%w: bench.trials must be positive, got %d", ErrInvalidConfig, b.Trials)
	}
	if b.TimeLimit.Duration <= 0 {
		return fmt.Errorf("%w: bench.time_limit must be positive, got %s", ErrInvalidConfig, b.TimeLimit)
	}
	if len(b.Ks) == 0 {
		return fmt.Errorf("%w: bench.ks must not be empty", ErrInvalidConfig)
	}
	for _, k := range b.Ks {
		if k < 0 {
			return fmt.Errorf("%w: bench.ks must not contain negative values, got %d", ErrInvalidConfig, k)
		}
	}

	if c.CLI.DefaultLimit <= 0 {
		return fmt.Errorf("%w: cli.default_limit must be positive, got %d", ErrInvalidConfig, c.CLI.DefaultLimit)
	}
	return nil
}
