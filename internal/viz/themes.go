package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the viewer
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Playing   lipgloss.Color
	Paused    lipgloss.Color
	Error     lipgloss.Color

	// cutblock layers
	Fill lipgloss.Color
	Line lipgloss.Color
}

// Available themes
var (
	ThemeForest = Theme{
		Name:      "forest",
		Primary:   lipgloss.Color("#7fb069"), // Moss
		Secondary: lipgloss.Color("#e6aa68"),
		Accent:    lipgloss.Color("#f4e285"),
		Text:      lipgloss.Color("#f0f0e8"),
		Muted:     lipgloss.Color("#5c6b5c"),
		Playing:   lipgloss.Color("#7fb069"),
		Paused:    lipgloss.Color("#e6aa68"),
		Error:     lipgloss.Color("#ff4757"),
		Fill:      lipgloss.Color("#670000"),
		Line:      lipgloss.Color("#b33a3a"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"), // Magenta
		Secondary: lipgloss.Color("#00ffff"), // Cyan
		Accent:    lipgloss.Color("#ffff00"), // Yellow
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Playing:   lipgloss.Color("#00ff00"),
		Paused:    lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
		Fill:      lipgloss.Color("#ff00ff"),
		Line:      lipgloss.Color("#00ffff"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Playing:   lipgloss.Color("#88ff88"),
		Paused:    lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		Fill:      lipgloss.Color("#00aa00"),
		Line:      lipgloss.Color("#88ff88"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Playing:   lipgloss.Color("#00ff00"),
		Paused:    lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
		Fill:      lipgloss.Color("#aaaaaa"),
		Line:      lipgloss.Color("#ffffff"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"), // Ocean blue
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Playing:   lipgloss.Color("#00ff88"),
		Paused:    lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
		Fill:      lipgloss.Color("#ff6b35"),
		Line:      lipgloss.Color("#ffd700"),
	}

	// Default theme
	CurrentTheme = ThemeForest

	// All available themes
	Themes = []Theme{
		ThemeForest,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to forest.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeForest
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
