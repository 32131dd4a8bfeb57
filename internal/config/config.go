// Package config resolves process settings for the crewcom server.
//
// Settings come from built-in defaults, an optional YAML file, environment
// variables and finally command-line flags, each layer overriding the one
// before it.
//
// Example configuration:
//
//	port: 8080
//	db_path: /var/lib/crewcom/crewcom.sqlite3
//	log_level: debug
//	shutdown_timeout: 5s
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quipper/poc/crewcom/pkg/common/logger"
)

const (
	DefaultPort            = 80
	DefaultDBPath          = "crewcom.sqlite3"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// DBPath is the roster SQLite file. Created on first start.
	DBPath string `yaml:"db_path"`

	LogLevel string `yaml:"log_level"`

	// ShutdownTimeout bounds graceful shutdown. Accepts strings like "10s".
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// Duration wraps time.Duration for YAML unmarshaling from strings like "5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		DBPath:          DefaultDBPath,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: Duration(DefaultShutdownTimeout),
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PORT, SQLITE_PATH and LOG_LEVEL when set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("SQLITE_PATH"); v != "" {
		c.DBPath = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout.Duration())
	}
	return nil
}

// Addr is the listen address for all interfaces.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
