package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/robotplanner/internal/render"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "./configs/robotplanner.yaml"

// Config holds all planner configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Render  RenderConfig  `yaml:"render"`
	Batch   BatchConfig   `yaml:"batch"`
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Redis   RedisConfig   `yaml:"redis"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// RenderConfig holds the glyphs used for ASCII output
type RenderConfig struct {
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Path   string `yaml:"path"`
	Wall   string `yaml:"wall"`
	Empty  string `yaml:"empty"`
	Legend *bool  `yaml:"legend"`
}

// BatchConfig holds batch plan settings
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// ServerConfig holds route server settings
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	MapsDir      string        `yaml:"maps_dir"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// AuthConfig holds JWT authentication settings
type AuthConfig struct {
	Enabled             bool   `yaml:"enabled"`
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings. An empty Address disables
// Redis; routes are then cached in memory and no blacklist is consulted.
type RedisConfig struct {
	Address         string        `yaml:"address"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	BlacklistPrefix string        `yaml:"blacklist_prefix"`
	RoutePrefix     string        `yaml:"route_prefix"`
	RouteTTL        time.Duration `yaml:"route_ttl"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ShowLegend reports whether the ASCII key is printed above rendered maps.
func (r RenderConfig) ShowLegend() bool {
	return r.Legend == nil || *r.Legend
}

// Glyphs converts the configured characters for the renderer. Call after
// Validate so every glyph is a single rune.
func (r RenderConfig) Glyphs() render.Glyphs {
	first := func(s string) rune { return []rune(s)[0] }
	return render.Glyphs{
		Start:  first(r.Start),
		End:    first(r.End),
		Path:   first(r.Path),
		Wall:   first(r.Wall),
		Empty:  first(r.Empty),
		Legend: r.ShowLegend(),
	}
}

// Address returns host:port for the route server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file is only an error
// when the caller asked for it explicitly.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be debug, info, warn or error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	for name, glyph := range map[string]string{
		"start": c.Render.Start, "end": c.Render.End, "path": c.Render.Path,
		"wall": c.Render.Wall, "empty": c.Render.Empty,
	} {
		if len([]rune(glyph)) != 1 {
			return fmt.Errorf("render.%s must be a single character, got %q", name, glyph)
		}
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if c.Auth.Enabled && c.Auth.PublicKeyURL == "" {
		return errors.New("auth.public_key_url is required when auth is enabled")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Render.Start == "" {
		c.Render.Start = "@"
	}
	if c.Render.End == "" {
		c.Render.End = "$"
	}
	if c.Render.Path == "" {
		c.Render.Path = "o"
	}
	if c.Render.Wall == "" {
		c.Render.Wall = "X"
	}
	if c.Render.Empty == "" {
		c.Render.Empty = "."
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = 4
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Server.MapsDir == "" {
		c.Server.MapsDir = "./maps"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Auth.PublicKeyRefreshHrs == 0 {
		c.Auth.PublicKeyRefreshHrs = 24
	}
	if c.Redis.BlacklistPrefix == "" {
		c.Redis.BlacklistPrefix = "blacklist:"
	}
	if c.Redis.RoutePrefix == "" {
		c.Redis.RoutePrefix = "route:"
	}
	if c.Redis.RouteTTL == 0 {
		c.Redis.RouteTTL = time.Hour
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}
