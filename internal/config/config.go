package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSource    = "./data/cutblock_year_timelapse.geojson"
	DefaultYearField = "HARVEST_START_YEAR_CALENDAR"
	DefaultSpeedMs   = 200
	DefaultBufferKm  = 2.0
	DefaultTheme     = "forest"
	DefaultListen    = ":8080"
	DefaultDataDir   = ".cutlapse"

	EnvPrefix = "CUTLAPSE_"
)

var (
	ErrInvalidSpeed = errors.New("config: speed must be positive")
	ErrNoSource     = errors.New("config: source is required")
	ErrNoField      = errors.New("config: year field is required")
)

type Config struct {
	Source    string      `yaml:"source" env:"SOURCE"`
	YearField string      `yaml:"year_field" env:"YEAR_FIELD"`
	Mode      filter.Mode `yaml:"mode" env:"MODE"`
	Autoplay  bool        `yaml:"autoplay" env:"AUTOPLAY"`
	SpeedMs   int         `yaml:"speed_ms" env:"SPEED_MS"`
	Speeds    []Speed     `yaml:"speeds"`
	StartYear *int        `yaml:"start_year,omitempty" env:"START_YEAR"`
	EndYear   *int        `yaml:"end_year,omitempty" env:"END_YEAR"`
	AOI       geo.BBox    `yaml:"aoi"`
	BufferKm  float64     `yaml:"buffer_km" env:"BUFFER_KM"`
	Theme     string      `yaml:"theme" env:"THEME"`
	Listen    string      `yaml:"listen" env:"LISTEN"`
	DataDir   string      `yaml:"data_dir" env:"DATA_DIR"`
}

func DefaultConfig() *Config {
	return &Config{
		Source:    DefaultSource,
		YearField: DefaultYearField,
		Mode:      filter.Cumulative,
		Autoplay:  true,
		SpeedMs:   DefaultSpeedMs,
		Speeds:    append([]Speed(nil), DefaultSpeeds...),
		AOI:       geo.NorthShore,
		BufferKm:  DefaultBufferKm,
		Theme:     DefaultTheme,
		Listen:    DefaultListen,
		DataDir:   DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides cfg with CUTLAPSE_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve loads path (when set) over the defaults and then applies the
// environment.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return ErrNoSource
	}
	if c.YearField == "" {
		return ErrNoField
	}
	if c.SpeedMs <= 0 {
		return fmt.Errorf("%w: speed_ms=%d", ErrInvalidSpeed, c.SpeedMs)
	}
	for _, s := range c.Speeds {
		if s.Ms <= 0 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidSpeed, s.Label, s.Ms)
		}
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.SpeedMs) * time.Millisecond
}

// Area returns the buffered area of interest.
func (c *Config) Area() geo.BBox {
	return c.AOI.Buffer(c.BufferKm)
}
