package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jdelaire/linedraw/internal/keychain"
)

// Defaults.
const (
	DefaultAddr            = ":5000"
	DefaultLogLevel        = "info"
	DefaultAudioDurationMs = 60000
	DefaultEnvFile         = ".env"
)

// Environment variables. They override the YAML file.
const (
	EnvChannelSecret      = "CHANNEL_SECRET"
	EnvChannelAccessToken = "CHANNEL_ACCESS_TOKEN"
	EnvAddr               = "LINEDRAW_ADDR"
	EnvPort               = "PORT"
	EnvPublicURL          = "LINEDRAW_PUBLIC_URL"
	EnvStaticDir          = "LINEDRAW_STATIC_DIR"
	EnvLogLevel           = "LINEDRAW_LOG_LEVEL"
	EnvAudioDurationMs    = "LINEDRAW_AUDIO_DURATION_MS"
)

// Config is the runtime configuration of the webhook server.
type Config struct {
	Addr               string `yaml:"addr"`
	PublicURL          string `yaml:"public_url"`
	StaticDir          string `yaml:"static_dir"`
	LogLevel           string `yaml:"log_level"`
	AudioDurationMs    int    `yaml:"audio_duration_ms"`
	ChannelSecret      string `yaml:"channel_secret"`
	ChannelAccessToken string `yaml:"channel_access_token"`
}

type lookupFunc func(key string) (string, bool)
type secretFunc func(account string) (string, error)

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML file at path (optional, "" to skip), .env in the working
// directory, and the process environment. Credentials still empty are read
// from the system keychain.
func Load(path string) (*Config, error) {
	return load(path, DefaultEnvFile, os.LookupEnv, keychain.Get)
}

func load(path, envFile string, lookupEnv lookupFunc, secret secretFunc) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	dotenv, err := readDotenv(envFile)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	applyKeychain(cfg, secret)
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}

func applyEnv(cfg *Config, lookup lookupFunc) error {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&cfg.ChannelSecret, EnvChannelSecret)
	set(&cfg.ChannelAccessToken, EnvChannelAccessToken)
	set(&cfg.PublicURL, EnvPublicURL)
	set(&cfg.StaticDir, EnvStaticDir)
	set(&cfg.LogLevel, EnvLogLevel)

	// PORT is what most hosting platforms inject; LINEDRAW_ADDR wins over it.
	if v, ok := lookup(EnvPort); ok && v != "" {
		cfg.Addr = ":" + v
	}
	set(&cfg.Addr, EnvAddr)

	if v, ok := lookup(EnvAudioDurationMs); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAudioDurationMs, err)
		}
		cfg.AudioDurationMs = ms
	}
	return nil
}

func applyKeychain(cfg *Config, secret secretFunc) {
	if secret == nil {
		return
	}
	if cfg.ChannelSecret == "" {
		if v, err := secret(keychain.AccountChannelSecret); err == nil {
			cfg.ChannelSecret = v
		}
	}
	if cfg.ChannelAccessToken == "" {
		if v, err := secret(keychain.AccountChannelAccessToken); err == nil {
			cfg.ChannelAccessToken = v
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.AudioDurationMs == 0 {
		cfg.AudioDurationMs = DefaultAudioDurationMs
	}
}

func validate(cfg *Config) error {
	if cfg.ChannelSecret == "" {
		return fmt.Errorf("channel secret is required (set %s or run 'linedraw secret set %s')",
			EnvChannelSecret, keychain.AccountChannelSecret)
	}
	if cfg.ChannelAccessToken == "" {
		return fmt.Errorf("channel access token is required (set %s or run 'linedraw secret set %s')",
			EnvChannelAccessToken, keychain.AccountChannelAccessToken)
	}
	if cfg.AudioDurationMs < 0 {
		return fmt.Errorf("audio_duration_ms must be positive, got %d", cfg.AudioDurationMs)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// AudioDuration returns the configured audio reply duration.
func (c *Config) AudioDuration() time.Duration {
	return time.Duration(c.AudioDurationMs) * time.Millisecond
}
