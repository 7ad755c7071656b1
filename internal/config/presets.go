package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/cutlapse/internal/filter"
)

// Speed is one entry of the speed selector.
type Speed struct {
	Label string `yaml:"label"`
	Ms    int    `yaml:"ms"`
}

var DefaultSpeeds = []Speed{
	{Label: "0.5×", Ms: 400},
	{Label: "1×", Ms: 200},
	{Label: "2×", Ms: 100},
	{Label: "4×", Ms: 50},
}

// SpeedIndex returns the selector entry matching ms. Without an exact match
// it picks the nearest slower entry, or the slowest one.
func SpeedIndex(speeds []Speed, ms int) int {
	best, slowest := -1, 0
	for i, s := range speeds {
		if s.Ms == ms {
			return i
		}
		if s.Ms > ms && (best < 0 || s.Ms < speeds[best].Ms) {
			best = i
		}
		if s.Ms > speeds[slowest].Ms {
			slowest = i
		}
	}
	if best < 0 {
		return slowest
	}
	return best
}

var ErrUnknownPreset = errors.New("config: unknown preset")

func intp(v int) *int { return &v }

// Preset overrides a subset of the configuration. Nil and zero fields leave
// the current value alone.
type Preset struct {
	Mode      *filter.Mode
	SpeedMs   int
	StartYear *int
	EndYear   *int
}

func modep(m filter.Mode) *filter.Mode { return &m }

var Presets = map[string]Preset{
	"full": {},
	"modern": {
		StartYear: intp(2000),
	},
	"annual": {
		Mode:    modep(filter.Exact),
		SpeedMs: 400,
	},
	"fast": {
		SpeedMs: 50,
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	cfg := DefaultConfig()
	if err := ApplyPreset(cfg, name); err != nil {
		return nil
	}
	return cfg
}

// ApplyPreset overlays the named preset onto cfg.
func ApplyPreset(cfg *Config, name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	if p.Mode != nil {
		cfg.Mode = *p.Mode
	}
	if p.SpeedMs != 0 {
		cfg.SpeedMs = p.SpeedMs
	}
	if p.StartYear != nil {
		cfg.StartYear = intp(*p.StartYear)
	}
	if p.EndYear != nil {
		cfg.EndYear = intp(*p.EndYear)
	}
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
