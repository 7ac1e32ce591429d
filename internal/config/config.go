// Package config loads nfalab settings from an optional YAML file and
// NFALAB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given. It may be missing.
const DefaultFile = "nfalab.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NFALAB_"

type Config struct {
	LogLevel         string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat        string `mapstructure:"log_format" yaml:"log_format"`
	MaxPatternLength int    `mapstructure:"max_pattern_length" yaml:"max_pattern_length"`

	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Playback PlaybackConfig `mapstructure:"playback" yaml:"playback"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" yaml:"port"`
	ShareBaseURL string `mapstructure:"share_base_url" yaml:"share_base_url"`
}

// StoreConfig selects the session backend: memory, file or redis.
type StoreConfig struct {
	Kind string `mapstructure:"kind" yaml:"kind"`
	Path string `mapstructure:"path" yaml:"path"`

	// EncryptionKey is a base64 AES-256 key. When set, sessions are sealed at rest.
	EncryptionKey string   `mapstructure:"encryption_key" yaml:"encryption_key,omitempty"`
	FallbackKeys  []string `mapstructure:"fallback_keys" yaml:"fallback_keys,omitempty"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type SessionConfig struct {
	LockTTL time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

// PlaybackConfig drives autoplay in the interactive stepper.
type PlaybackConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		MaxPatternLength: 100,
		Server:           ServerConfig{Port: 8080},
		Store:            StoreConfig{Kind: StoreFile, Path: ".nfalab/sessions"},
		Redis:            RedisConfig{Addr: "localhost:6379", Prefix: "nfalab:session:"},
		Session:          SessionConfig{LockTTL: 30 * time.Second},
		Playback:         PlaybackConfig{Interval: 800 * time.Millisecond},
	}
}

// keys lists every setting reachable from the environment, in dotted form.
var keys = []string{
	"log_level",
	"log_format",
	"max_pattern_length",
	"server.port",
	"server.share_base_url",
	"store.kind",
	"store.path",
	"store.encryption_key",
	"redis.addr",
	"redis.password",
	"redis.db",
	"redis.prefix",
	"redis.ttl",
	"session.lock_ttl",
	"playback.interval",
}

// EnvName returns the environment variable overriding a dotted key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads path (or DefaultFile when path is empty), applies environment
// overrides and validates the result. An explicit path must exist.
func Load(path string) (*Config, error) {
	raw := map[string]any{}

	file := path
	if file == "" {
		file = DefaultFile
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	for _, key := range keys {
		if val, ok := os.LookupEnv(EnvName(key)); ok {
			setPath(raw, strings.Split(key, "."), val)
		}
	}

	cfg := Default()
	if err := decode(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setPath(m map[string]any, path []string, val string) {
	if len(path) == 1 {
		m[path[0]] = val
		return
	}
	child, ok := m[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[path[0]] = child
	}
	setPath(child, path[1:], val)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.MaxPatternLength < 0 {
		return fmt.Errorf("max_pattern_length must be >= 0, got %d", c.MaxPatternLength)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store kind %q (expected memory, file or redis)", c.Store.Kind)
	}
	if c.Playback.Interval <= 0 {
		return fmt.Errorf("playback.interval must be positive, got %s", c.Playback.Interval)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", c.LogFormat)
	}
	return nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
