// Package config loads and validates application configuration.
//
// Precedence, highest first:
//  1. environment variables (PORT, DATABASE_URL, ...)
//  2. the YAML file named by CONFIG_FILE, if set (keys are the lowercase
//     variable names: port, database_url, ...)
//  3. defaults
//
// Empty values count as unset at every level.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	// TIMEZONE must load on hosts without a zoneinfo database.
	_ "time/tzdata"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// maxConfigFileSize bounds the YAML file read from CONFIG_FILE.
const maxConfigFileSize = 1 << 20

// Config holds all configuration values for tenere.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `koanf:"port"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `koanf:"-"`

	// StoreDriver selects the fueling store: "postgres" (default) or "bolt".
	StoreDriver string `koanf:"store_driver"`

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string `koanf:"database_url"`

	// BoltPath is the bbolt file used by the bolt driver. Defaults to "tenere.db".
	BoltPath string `koanf:"bolt_path"`

	// Timezone names the IANA zone dates in messages are written in.
	// Defaults to "Europe/Helsinki".
	Timezone string `koanf:"timezone"`

	// Location is Timezone, loaded.
	Location *time.Location `koanf:"-"`

	// MaxBodyBytes caps request bodies. Defaults to 64 KiB.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// raw mirrors Config for fields whose wire form differs from the struct.
type raw struct {
	Config      `koanf:",squash"`
	CORSOrigins string `koanf:"cors_origins"`
}

var defaults = raw{
	Config: Config{
		Port:         "8080",
		LogLevel:     "info",
		StoreDriver:  DriverPostgres,
		BoltPath:     "tenere.db",
		Timezone:     "Europe/Helsinki",
		MaxBodyBytes: 64 << 10,
	},
	CORSOrigins: "http://localhost:5173",
}

var knownKeys = map[string]bool{
	"port": true, "log_level": true, "cors_origins": true, "store_driver": true,
	"database_url": true, "bolt_path": true, "timezone": true, "max_body_bytes": true,
}

// Load reads configuration and returns a validated Config.
// The error lists every missing or invalid setting.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// PORT -> port, DATABASE_URL -> database_url. Unrelated variables are
	// dropped by returning an empty key.
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !knownKeys[key] || os.Getenv(s) == "" {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	var r raw
	if err := k.Unmarshal("", &r); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&r)

	cfg := r.Config
	cfg.CORSOrigins = splitCSV(r.CORSOrigins)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config: CONFIG_FILE: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config: CONFIG_FILE %s is larger than %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: CONFIG_FILE: %w", err)
	}
	return content, nil
}

func applyDefaults(r *raw) {
	if r.Port == "" {
		r.Port = defaults.Port
	}
	if r.LogLevel == "" {
		r.LogLevel = defaults.LogLevel
	}
	if r.StoreDriver == "" {
		r.StoreDriver = defaults.StoreDriver
	}
	if r.BoltPath == "" {
		r.BoltPath = defaults.BoltPath
	}
	if r.Timezone == "" {
		r.Timezone = defaults.Timezone
	}
	if r.MaxBodyBytes <= 0 {
		r.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if strings.TrimSpace(r.CORSOrigins) == "" {
		r.CORSOrigins = defaults.CORSOrigins
	}
}

// validate checks cross-field rules and loads the time zone.
func (c *Config) validate() error {
	var problems []string

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	case DriverBolt:
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverBolt, c.StoreDriver))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q: %v", c.Timezone, err))
	}
	c.Location = loc

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
