package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.YearField != DefaultYearField {
		t.Errorf("expected field %s, got %s", DefaultYearField, cfg.YearField)
	}
	if cfg.Mode != filter.Cumulative {
		t.Error("default mode should be cumulative")
	}
	if !cfg.Autoplay {
		t.Error("autoplay should default to on")
	}
	if cfg.Interval().Milliseconds() != 200 {
		t.Errorf("expected 200ms interval, got %v", cfg.Interval())
	}
	if cfg.AOI != geo.NorthShore {
		t.Error("default AOI should be the North Shore box")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutlapse.yaml")
	cfg := DefaultConfig()
	cfg.Mode = filter.Exact
	cfg.StartYear = intp(1995)
	cfg.SpeedMs = 100

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Mode != filter.Exact {
		t.Errorf("mode = %v, want exact", loaded.Mode)
	}
	if loaded.StartYear == nil || *loaded.StartYear != 1995 {
		t.Errorf("start year = %v, want 1995", loaded.StartYear)
	}
	if loaded.EndYear != nil {
		t.Errorf("end year = %v, want nil", *loaded.EndYear)
	}
	if loaded.SpeedMs != 100 {
		t.Errorf("speed = %d, want 100", loaded.SpeedMs)
	}
	if len(loaded.Speeds) != len(DefaultSpeeds) {
		t.Errorf("speeds = %v", loaded.Speeds)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CUTLAPSE_SOURCE", "https://example.com/blocks.geojson")
	t.Setenv("CUTLAPSE_MODE", "exact")
	t.Setenv("CUTLAPSE_START_YEAR", "1990")
	t.Setenv("CUTLAPSE_AUTOPLAY", "false")

	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Source != "https://example.com/blocks.geojson" {
		t.Errorf("source = %s", cfg.Source)
	}
	if cfg.Mode != filter.Exact {
		t.Errorf("mode = %v", cfg.Mode)
	}
	if cfg.StartYear == nil || *cfg.StartYear != 1990 {
		t.Errorf("start year = %v", cfg.StartYear)
	}
	if cfg.Autoplay {
		t.Error("autoplay should be off")
	}
	if cfg.YearField != DefaultYearField {
		t.Error("unset variables should keep defaults")
	}
}

func TestApplyEnvBadMode(t *testing.T) {
	t.Setenv("CUTLAPSE_MODE", "sometimes")
	if err := ApplyEnv(DefaultConfig()); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no source", func(c *Config) { c.Source = "" }, ErrNoSource},
		{"no field", func(c *Config) { c.YearField = "" }, ErrNoField},
		{"zero speed", func(c *Config) { c.SpeedMs = 0 }, ErrInvalidSpeed},
		{"bad preset speed", func(c *Config) { c.Speeds = []Speed{{Label: "x", Ms: -1}} }, ErrInvalidSpeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSpeedIndex(t *testing.T) {
	tests := []struct {
		ms   int
		want int
	}{
		{400, 0},
		{200, 1},
		{50, 3},
		{150, 1},
		{75, 2},
		{1000, 0},
		{10, 3},
	}
	for _, tt := range tests {
		if got := SpeedIndex(DefaultSpeeds, tt.ms); got != tt.want {
			t.Errorf("SpeedIndex(%d) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("modern")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.StartYear == nil || *cfg.StartYear != 2000 {
		t.Errorf("expected start year 2000, got %v", cfg.StartYear)
	}
	if cfg.Source != DefaultSource {
		t.Error("preset should keep defaults")
	}

	if cfg := GetPreset("annual"); cfg == nil || cfg.Mode != filter.Exact || cfg.SpeedMs != 400 {
		t.Errorf("unexpected annual preset: %+v", cfg)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = "custom.geojson"
	if err := ApplyPreset(cfg, "fast"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if cfg.SpeedMs != 50 || cfg.Source != "custom.geojson" {
		t.Errorf("unexpected config after preset: %+v", cfg)
	}
	if err := ApplyPreset(cfg, "nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("err = %v, want ErrUnknownPreset", err)
	}
}

func TestApplyPresetKeepsMode(t *testing.T) {
	t.Setenv("CUTLAPSE_MODE", "exact")

	for _, name := range []string{"full", "modern", "fast"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Resolve("")
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if err := ApplyPreset(cfg, name); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if cfg.Mode != filter.Exact {
				t.Errorf("mode = %v, want exact", cfg.Mode)
			}
		})
	}

	cfg := DefaultConfig()
	if err := ApplyPreset(cfg, "annual"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if cfg.Mode != filter.Exact || cfg.SpeedMs != 400 {
		t.Errorf("annual preset not applied: mode=%v speed=%d", cfg.Mode, cfg.SpeedMs)
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}
