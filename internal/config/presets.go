package config

import (
	"sort"
	"time"

	"github.com/san-kum/tractionsim/internal/control"
)

type Preset struct {
	Description  string
	MuPeak       float64
	InitialSpeed float64
	LockWheels   bool
	DesiredSlip  float64
	Duration     time.Duration
}

var Presets = map[string]Preset{
	"dry": {
		Description: "dry asphalt cruise", MuPeak: 1.0, InitialSpeed: 20,
		DesiredSlip: control.DefaultDesiredSlip, Duration: 20 * time.Second,
	},
	"wet": {
		Description: "wet asphalt cruise", MuPeak: 0.6, InitialSpeed: 20,
		DesiredSlip: control.DefaultDesiredSlip, Duration: 20 * time.Second,
	},
	"snow": {
		Description: "packed snow", MuPeak: 0.3, InitialSpeed: 12,
		DesiredSlip: 0.08, Duration: 30 * time.Second,
	},
	"ice": {
		Description: "glare ice", MuPeak: 0.1, InitialSpeed: 8,
		DesiredSlip: 0.05, Duration: 30 * time.Second,
	},
	"lockup": {
		Description: "recover from locked wheels at speed", MuPeak: 1.0, InitialSpeed: 25,
		LockWheels: true, DesiredSlip: control.DefaultDesiredSlip, Duration: 20 * time.Second,
	},
	"launch": {
		Description: "pull away from a near standstill", MuPeak: 0.8, InitialSpeed: 0.5,
		DesiredSlip: 0.12, Duration: 15 * time.Second,
	},
}

// GetPreset returns a fresh config for the named scenario, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = name
	cfg.Vehicle.InitialSpeed = p.InitialSpeed
	cfg.Vehicle.LockWheels = p.LockWheels
	cfg.Vehicle.Params.MuPeak = p.MuPeak
	cfg.Controller.DesiredSlip = p.DesiredSlip
	cfg.Duration = p.Duration
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
