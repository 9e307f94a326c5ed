package tui

// Theme picks the colours of the spring bars. Calm and Hot are the knob
// colours at rest and at full speed.
type Theme struct {
	Name   string
	Calm   string
	Hot    string
	Target string
	Track  string
}

var (
	ThemeNeon = Theme{
		Name:   "neon",
		Calm:   "#00ccff",
		Hot:    "#ff4444",
		Target: "#ff00ff",
		Track:  "#444444",
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Calm:   "#00cc00",
		Hot:    "#88ff88",
		Target: "#ffff00",
		Track:  "#005500",
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Calm:   "#cccccc",
		Hot:    "#ffffff",
		Target: "#0088ff",
		Track:  "#444444",
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Calm:   "#0077be",
		Hot:    "#00ffcc",
		Target: "#ffd700",
		Track:  "#4488aa",
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Calm:   "#feca57",
		Hot:    "#ff4757",
		Target: "#ff9ff3",
		Track:  "#8b6b8c",
	}

	Themes = []Theme{ThemeNeon, ThemeRetro, ThemeMinimal, ThemeOcean, ThemeSunset}
)

// GetTheme returns the named theme, or ThemeNeon.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
