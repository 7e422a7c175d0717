package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/hmans/moviegraph/internal/auth"
	"github.com/hmans/moviegraph/internal/movie"
)

const ConfigFile = "moviegraph.toml"

// DefaultPort is the port served on when neither config nor PORT set one.
const DefaultPort = 4000

// DefaultStatuses defines the default display configuration per status.
var DefaultStatuses = []StatusConfig{
	{Name: string(movie.StatusWatched), Color: "green"},
	{Name: string(movie.StatusInterested), Color: "yellow"},
	{Name: string(movie.StatusNotInterested), Color: "red"},
	{Name: string(movie.StatusUnknown), Color: "gray"},
}

// StatusConfig defines a single status with its display color.
type StatusConfig struct {
	Name  string `toml:"name"`
	Color string `toml:"color"`
}

// Config holds the moviegraph configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
	Statuses []StatusConfig `toml:"statuses"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Playground bool   `toml:"playground"`
}

// CatalogConfig points at the seed catalog. An empty path uses the built-in
// catalog.
type CatalogConfig struct {
	Path  string `toml:"path,omitempty"`
	Watch bool   `toml:"watch"`
}

// AuthConfig sets the placeholder identity every request runs as.
type AuthConfig struct {
	Identity string `toml:"identity"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "",
			Port:       DefaultPort,
			Playground: true,
		},
		Auth: AuthConfig{Identity: auth.DefaultIdentity},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Statuses: append([]StatusConfig(nil), DefaultStatuses...),
	}
}

// Load reads configuration from path.
// Returns default config if the file doesn't exist. The PORT environment
// variable overrides the configured port.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PORT %q", port)
		}
		cfg.Server.Port = n
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	cfg.Statuses = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Apply defaults for missing values
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Auth.Identity == "" {
		cfg.Auth.Identity = auth.DefaultIdentity
	}

	// Apply default statuses if none defined
	if len(cfg.Statuses) == 0 {
		cfg.Statuses = DefaultStatuses
	}

	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetStatus returns the StatusConfig for a given status name, or nil if not found.
func (c *Config) GetStatus(name string) *StatusConfig {
	for i := range c.Statuses {
		if c.Statuses[i].Name == name {
			return &c.Statuses[i]
		}
	}
	return nil
}

// StatusColor returns the display color for a status, or "gray" when the
// status has no configured color.
func (c *Config) StatusColor(name string) string {
	if s := c.GetStatus(name); s != nil && s.Color != "" {
		return s.Color
	}
	return "gray"
}
