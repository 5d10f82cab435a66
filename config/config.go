package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "TRACKER_"

	// DefaultConfigFile is read when no --config flag is given. It is optional.
	DefaultConfigFile = "tracker.yaml"

	defaultDataDir      = "APelahishokr"
	defaultAccountsFile = "accounts.csv"
	defaultProjectsFile = "projects.json"
	defaultLogFile      = "application.log"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
)

type Config struct {
	DataDir      string    `koanf:"data_dir"`
	AccountsFile string    `koanf:"accounts_file"`
	ProjectsFile string    `koanf:"projects_file"`
	Log          LogConfig `koanf:"log"`
}

type LogConfig struct {
	File   string `koanf:"file"`
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// LoadConfig reads configuration from an optional YAML file, then from
// TRACKER_* environment variables, then fills defaults.
//
//	TRACKER_DATA_DIR      -> data_dir
//	TRACKER_LOG_LEVEL     -> log.level
func LoadConfig(path string) (Config, error) {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	k := koanf.New(".")

	if path == "" {
		path = DefaultConfigFile
	}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// envKey maps TRACKER_LOG_LEVEL to log.level and TRACKER_DATA_DIR to data_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest
	}
	return key
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.AccountsFile == "" {
		cfg.AccountsFile = defaultAccountsFile
	}
	if cfg.ProjectsFile == "" {
		cfg.ProjectsFile = defaultProjectsFile
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaultLogFormat
	}
}

// Validate checks config for errors.
func (c Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// AccountsPath returns the account store location.
func (c Config) AccountsPath() string {
	return c.resolve(c.AccountsFile)
}

// ProjectsPath returns the project store location.
func (c Config) ProjectsPath() string {
	return c.resolve(c.ProjectsFile)
}

// LogPath returns the log file location.
func (c Config) LogPath() string {
	return c.resolve(c.Log.File)
}

// resolve places relative file names under DataDir.
func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
