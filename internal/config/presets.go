package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"gentle": scenario("gentle",
		SpringSpec{Name: "value", Kind: KindOrigami, Tension: 20, Friction: 10, To: 1}),
	"wobbly": scenario("wobbly",
		SpringSpec{Name: "value", Kind: KindBouncy, Bounciness: 15, Speed: 8, To: 1}),
	"stiff": scenario("stiff",
		SpringSpec{Name: "value", Kind: KindOrigami, Tension: 80, Friction: 12, To: 1}),
	"clamped": scenario("clamped",
		SpringSpec{Name: "value", Kind: KindRaw, Tension: 1000, Friction: 1, To: 100, OvershootClamping: true}),
	"coast": scenario("coast",
		SpringSpec{Name: "flick", Kind: KindCoasting, Friction: 7, Velocity: 100}),
	"slider": scenario("slider",
		SpringSpec{Name: "thumb", Kind: KindOrigami, Tension: 40, Friction: 7, To: 1},
		SpringSpec{Name: "track", Kind: KindBouncy, Bounciness: 5, Speed: 12, To: 1},
		SpringSpec{Name: "label", Kind: KindOrigami, Tension: 25, Friction: 9, To: 1, OvershootClamping: true}),
}

func scenario(name string, springs ...SpringSpec) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Springs = springs
	cfg.applySpringDefaults()
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Springs = append([]SpringSpec(nil), p.Springs...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
