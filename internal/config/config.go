package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Filesystem backends.
const (
	BackendLocal = "local"
	BackendRedis = "redis"
)

// Config holds all connection and runtime configuration.
type Config struct {
	// Command file
	File        string        `yaml:"file"`
	Root        string        `yaml:"root"`
	Debounce    time.Duration `yaml:"debounce"`
	CallNow     bool          `yaml:"call_now"`
	RunOnStart  bool          `yaml:"run_on_start"`
	Concurrency int           `yaml:"concurrency"`

	Backend string `yaml:"backend"`

	// Redis connection
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Socket   string `yaml:"socket"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	URI      string `yaml:"uri"`
	TLS      bool   `yaml:"tls"`
	Volume   string `yaml:"volume"`

	JSON     bool   `yaml:"json"`
	NoColor  bool   `yaml:"no_color"`
	Color    bool   `yaml:"color"`
	LogLevel string `yaml:"log_level"`

	HistoryFile string `yaml:"history_file"`

	// Not read from the file itself
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		File:        "commands.txt",
		Debounce:    300 * time.Millisecond,
		Concurrency: 8,
		Backend:     BackendLocal,
		Host:        "127.0.0.1",
		Port:        6379,
		Volume:      "main",
		LogLevel:    "info",
		HistoryFile: filepath.Join(home, ".handycmd_history"),
		ConfigFile:  defaultConfigPath(),
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("HANDYCMD_CONFIG"); path != "" {
		return path
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "handycmd", "config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "handycmd", "config.yaml")
	}
	return ""
}

// RegisterFlags registers CLI flags on the given flag set.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVarP(&c.File, "file", "f", c.File, "Command file to watch")
	fs.StringVar(&c.Root, "root", c.Root, "Directory relative paths resolve against (local backend)")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "Quiet period before a changed file is executed")
	fs.BoolVar(&c.CallNow, "call-now", c.CallNow, "Execute on the first change of a burst, then debounce")
	fs.BoolVar(&c.RunOnStart, "run-on-start", c.RunOnStart, "Execute the current file once at startup")
	fs.IntVar(&c.Concurrency, "concurrency", c.Concurrency, "Occurrences of one statement kind run at once")
	fs.StringVar(&c.Backend, "backend", c.Backend, "Filesystem backend: local or redis")

	fs.StringVar(&c.Host, "host", c.Host, "Server hostname")
	fs.IntVarP(&c.Port, "port", "p", c.Port, "Server port")
	fs.StringVarP(&c.Socket, "socket", "s", c.Socket, "Unix socket path")
	fs.StringVarP(&c.Password, "password", "a", c.Password, "Password")
	fs.IntVarP(&c.DB, "db", "n", c.DB, "Database number")
	fs.StringVarP(&c.URI, "uri", "u", c.URI, "Server URI (redis://...)")
	fs.BoolVar(&c.TLS, "tls", c.TLS, "Enable TLS")
	fs.StringVar(&c.Volume, "volume", c.Volume, "Filesystem volume name")

	fs.BoolVar(&c.JSON, "json", c.JSON, "JSON output mode")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable colors")
	fs.BoolVar(&c.Color, "color", c.Color, "Force colors")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&c.HistoryFile, "history", c.HistoryFile, "REPL history file")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML config file")
}

// Load layers the config file and the environment under any flags that were set
// explicitly, then validates the result. flags may be nil.
func (c *Config) Load(flags *flag.FlagSet) error {
	changed := make(map[string]string)
	explicitFile := false
	if flags != nil {
		flags.Visit(func(f *flag.Flag) {
			changed[f.Name] = f.Value.String()
			if f.Name == "config" {
				explicitFile = true
			}
		})
	}

	if c.ConfigFile != "" {
		err := c.LoadFile(c.ConfigFile)
		if err != nil && (explicitFile || !errors.Is(err, os.ErrNotExist)) {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return fmt.Errorf("failed to load from environment: %w", err)
	}

	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if env := os.Getenv("HANDYCMD_FILE"); env != "" {
		c.File = env
	}
	if env := os.Getenv("HANDYCMD_ROOT"); env != "" {
		c.Root = env
	}
	if env := os.Getenv("HANDYCMD_DEBOUNCE"); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return fmt.Errorf("invalid HANDYCMD_DEBOUNCE: %w", err)
		}
		c.Debounce = d
	}
	if env := os.Getenv("HANDYCMD_BACKEND"); env != "" {
		c.Backend = env
	}
	if env := os.Getenv("REDISCLI_AUTH"); env != "" {
		c.Password = env
	}
	if env := os.Getenv("REDIS_FS_VOLUME"); env != "" {
		c.Volume = env
	}
	if env := os.Getenv("HANDYCMD_LOG_LEVEL"); env != "" {
		c.LogLevel = env
	}
	if env := os.Getenv("HANDYCMD_HISTORY"); env != "" {
		c.HistoryFile = env
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q (use %s or %s)", c.Backend, BackendLocal, BackendRedis)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative, got %s", c.Debounce)
	}
	if strings.TrimSpace(c.File) == "" {
		return errors.New("command file must not be empty")
	}
	return nil
}

// RedisOptions builds a go-redis Options from the config.
func (c *Config) RedisOptions() *redis.Options {
	if c.URI != "" {
		opts, err := redis.ParseURL(c.URI)
		if err == nil {
			if c.DB != 0 {
				opts.DB = c.DB
			}
			return opts
		}
	}

	opts := &redis.Options{
		Addr:     c.Host + ":" + strconv.Itoa(c.Port),
		Password: c.Password,
		DB:       c.DB,
	}

	if c.Socket != "" {
		opts.Network = "unix"
		opts.Addr = c.Socket
	}

	if c.TLS {
		opts.TLSConfig = &tls.Config{}
	}

	return opts
}

// Addr returns a display-friendly connection address.
func (c *Config) Addr() string {
	if c.URI != "" {
		return c.URI
	}
	if c.Socket != "" {
		return c.Socket
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ShouldColor returns true if color output should be enabled.
func (c *Config) ShouldColor() bool {
	if c.NoColor || c.JSON {
		return false
	}
	if c.Color {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
