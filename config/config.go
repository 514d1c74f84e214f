package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text or json
}

// Defaults used when neither file, environment nor flags set a value.
const (
	DefaultPort      = 5433
	DefaultUser      = "admin"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Parse builds the server configuration from the process arguments.
func Parse() (*Config, error) {
	return Load(os.Args[0], os.Args[1:], os.Getenv)
}

// Load layers configuration sources, lowest precedence first: built-in
// defaults, the YAML file named by -config (or ROSTERDB_CONFIG),
// ROSTERDB_* environment variables, then explicitly set flags.
func Load(name string, args []string, getenv func(string) string) (*Config, error) {
	var fl Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", getenv("ROSTERDB_CONFIG"), "YAML config file")
	fs.IntVar(&fl.Port, "port", DefaultPort, "listen port")
	fs.StringVar(&fl.User, "user", DefaultUser, "auth username")
	fs.StringVar(&fl.Password, "password", "", "auth password")
	fs.StringVar(&fl.LogLevel, "log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&fl.LogFormat, "log-format", DefaultLogFormat, "log format (text, json)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if *path != "" {
		data, err := os.ReadFile(*path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", *path, err)
		}
	}

	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = fl.Port
		case "user":
			cfg.User = fl.User
		case "password":
			cfg.Password = fl.Password
		case "log-level":
			cfg.LogLevel = fl.LogLevel
		case "log-format":
			cfg.LogFormat = fl.LogFormat
		}
	})

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("ROSTERDB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ROSTERDB_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := getenv("ROSTERDB_USER"); v != "" {
		cfg.User = v
	}
	if v := getenv("ROSTERDB_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := getenv("ROSTERDB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("ROSTERDB_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.User == "" {
		cfg.User = DefaultUser
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}

func (c *Config) validate() error {
	if c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
