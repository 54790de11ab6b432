package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alnah/go-audit2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")
)

// Defaults.
const (
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 2 * 1024 * 1024
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBrowserMode     = "local"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Browser modes. "serverless" is accepted as an alias of "managed".
const (
	ModeLocal      = "local"
	ModeManaged    = "managed"
	ModeServerless = "serverless"
)

// Config is read once at startup and never reloaded.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Browser BrowserConfig `yaml:"browser" mapstructure:"browser"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes" mapstructure:"maxBodyBytes"`       // request bodies above this are rejected unparsed
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" mapstructure:"shutdownTimeout"` // grace period for in-flight requests
}

// BrowserConfig selects the rendering strategy.
type BrowserConfig struct {
	Mode        string `yaml:"mode" mapstructure:"mode"`               // "local", "managed" or "serverless"
	Bin         string `yaml:"bin" mapstructure:"bin"`                 // required for managed
	MaxSessions int    `yaml:"maxSessions" mapstructure:"maxSessions"` // 0 = derive from GOMAXPROCS
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// binding ties a config key to its environment variables and CLI flag.
// Environment variables are listed by decreasing priority.
type binding struct {
	key  string
	envs []string
	flag string
}

var bindings = []binding{
	{key: "server.addr", envs: []string{"AUDIT2PDF_ADDR"}, flag: "addr"},
	{key: "server.maxBodyBytes", envs: []string{"AUDIT2PDF_MAX_BODY_BYTES", "PDF_MAX_BODY_SIZE"}, flag: "max-body-bytes"},
	{key: "server.shutdownTimeout", envs: []string{"AUDIT2PDF_SHUTDOWN_TIMEOUT"}, flag: "shutdown-timeout"},
	{key: "browser.mode", envs: []string{"AUDIT2PDF_BROWSER", "PDF_BROWSER"}, flag: "browser"},
	{key: "browser.bin", envs: []string{"AUDIT2PDF_BROWSER_BIN", "ROD_BROWSER_BIN"}, flag: "browser-bin"},
	{key: "browser.maxSessions", envs: []string{"AUDIT2PDF_MAX_SESSIONS"}, flag: "max-sessions"},
	{key: "log.level", envs: []string{"AUDIT2PDF_LOG_LEVEL"}, flag: "log-level"},
	{key: "log.format", envs: []string{"AUDIT2PDF_LOG_FORMAT"}, flag: "log-format"},
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Browser: BrowserConfig{Mode: DefaultBrowserMode},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Validate rejects values the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr: must not be empty", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.maxBodyBytes: must be positive, got %d", ErrInvalidConfig, c.Server.MaxBodyBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdownTimeout: must not be negative, got %v", ErrInvalidConfig, c.Server.ShutdownTimeout)
	}

	switch strings.ToLower(c.Browser.Mode) {
	case ModeLocal:
	case ModeManaged, ModeServerless:
		if c.Browser.Bin == "" {
			return fmt.Errorf("%w: browser.bin: required when browser.mode is %q", ErrInvalidConfig, c.Browser.Mode)
		}
	default:
		return fmt.Errorf("%w: browser.mode: invalid value %q (must be local, managed, or serverless)", ErrInvalidConfig, c.Browser.Mode)
	}
	if c.Browser.MaxSessions < 0 {
		return fmt.Errorf("%w: browser.maxSessions: must not be negative, got %d", ErrInvalidConfig, c.Browser.MaxSessions)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil || c.Log.Level == "" {
		return fmt.Errorf("%w: log.level: invalid value %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format: invalid value %q (must be json or console)", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

// Load builds the configuration. Precedence, highest first: flags that were
// set explicitly, environment variables, the YAML file at path (optional),
// built-in defaults. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	if path != "" {
		err := yamlutil.ReadFileStrict(path, cfg)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		case err != nil:
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	v := viper.New()
	setDefaults(v, cfg)
	for _, b := range bindings {
		if err := v.BindEnv(append([]string{b.key}, b.envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.key, err)
		}
		if flags == nil {
			continue
		}
		if f := flags.Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", b.flag, err)
			}
		}
	}

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// setDefaults seeds viper with cfg so that file values sit below env and
// flags.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.maxBodyBytes", cfg.Server.MaxBodyBytes)
	v.SetDefault("server.shutdownTimeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("browser.mode", cfg.Browser.Mode)
	v.SetDefault("browser.bin", cfg.Browser.Bin)
	v.SetDefault("browser.maxSessions", cfg.Browser.MaxSessions)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// EnvVars lists every environment variable Load reads, for help output.
func EnvVars() []string {
	var out []string
	for _, b := range bindings {
		out = append(out, b.envs...)
	}
	return out
}
