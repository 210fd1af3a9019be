package config

var Presets = map[string]*Config{
	"free_fall": {
		LaunchHeight: 63780,
		Controls:     ControlsConfig{Thrust: Float(0), Angle: Float(0), Fuel: Float(0)},
	},
	"vertical": {
		LaunchHeight: 63780,
		Controls:     ControlsConfig{Thrust: Float(20000), Angle: Float(90), Fuel: Float(500)},
	},
	"lofted": {
		LaunchHeight: 63780,
		Controls:     ControlsConfig{Thrust: Float(30000), Angle: Float(60), Fuel: Float(800)},
	},
	"exhaustion": {
		LaunchHeight: 63780,
		Controls:     ControlsConfig{Thrust: Float(1000), Angle: Float(45), Fuel: Float(5)},
	},
	"pad": {
		LaunchHeight: 10,
		MaxSteps:     2000,
		Controls:     ControlsConfig{Thrust: Float(15000), Angle: Float(85), Fuel: Float(100)},
	},
	"heavy_fuel": {
		LaunchHeight: 63780,
		Physics:      PhysicsConfig{FuelMassRatio: 1},
		Controls:     ControlsConfig{Thrust: Float(40000), Angle: Float(75), Fuel: Float(1500)},
	},
}

// GetPreset returns a full configuration built from the defaults and the
// named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Merge(p)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
