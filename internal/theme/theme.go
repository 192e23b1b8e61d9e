package theme

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type Palette struct {
	Bg     lipgloss.Color
	Panel  lipgloss.Color
	Border lipgloss.Color
	Grid   lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Title  lipgloss.Color
	Trace  lipgloss.Color
	Marker lipgloss.Color
	Armed  lipgloss.Color
	Hold   lipgloss.Color
}

type Theme struct {
	Mode    string
	Profile termenv.Profile
	Palette Palette
	Styles  Styles
}

type Styles struct {
	StatusBar  lipgloss.Style
	BadgeArmed lipgloss.Style
	BadgeHold  lipgloss.Style
	BadgeDone  lipgloss.Style
	Badge      lipgloss.Style
	Card       lipgloss.Style
	CardTitle  lipgloss.Style
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Value      lipgloss.Style
	Axis       lipgloss.Style
	Grid       lipgloss.Style
	Trace      lipgloss.Style
	Marker     lipgloss.Style
	KeyHint    lipgloss.Style
}

// Resolve picks a palette for mode ("dark", "light" or "auto").
func Resolve(mode string) Theme {
	themeMode := strings.ToLower(strings.TrimSpace(mode))
	profile := termenv.EnvColorProfile()
	if themeMode != "dark" && themeMode != "light" {
		themeMode = detectBackground()
	}
	var palette Palette
	if themeMode == "dark" {
		palette = Palette{
			Bg:     pickColor(profile, "#000000", "16", "0"),
			Panel:  pickColor(profile, "#050505", "232", "0"),
			Border: pickColor(profile, "#808080", "244", "8"),
			Grid:   pickColor(profile, "#3f3f46", "238", "8"),
			Text:   pickColor(profile, "#ffffff", "255", "7"),
			Muted:  pickColor(profile, "#8a8a8a", "245", "8"),
			Title:  pickColor(profile, "#00ffff", "51", "6"),
			Trace:  pickColor(profile, "#00ff41", "46", "2"),
			Marker: pickColor(profile, "#ff2d2d", "196", "1"),
			Armed:  pickColor(profile, "#4ade80", "120", "2"),
			Hold:   pickColor(profile, "#fbbf24", "214", "3"),
		}
	} else {
		palette = Palette{
			Bg:     pickColor(profile, "#f5f7fb", "255", "7"),
			Panel:  pickColor(profile, "#ffffff", "15", "7"),
			Border: pickColor(profile, "#9ca3af", "248", "8"),
			Grid:   pickColor(profile, "#d0d7e2", "252", "7"),
			Text:   pickColor(profile, "#1a2233", "235", "0"),
			Muted:  pickColor(profile, "#6b7280", "243", "8"),
			Title:  pickColor(profile, "#0f766e", "30", "6"),
			Trace:  pickColor(profile, "#047857", "29", "2"),
			Marker: pickColor(profile, "#dc2626", "160", "1"),
			Armed:  pickColor(profile, "#059669", "35", "2"),
			Hold:   pickColor(profile, "#d97706", "172", "3"),
		}
	}
	return Theme{
		Mode:    themeMode,
		Profile: profile,
		Palette: palette,
		Styles:  buildStyles(palette),
	}
}

func buildStyles(p Palette) Styles {
	badgeBase := lipgloss.NewStyle().
		Foreground(p.Panel).
		Bold(true).
		Padding(0, 1)

	return Styles{
		StatusBar: lipgloss.NewStyle().
			Background(p.Bg).
			Foreground(p.Muted).
			Padding(0, 1),
		BadgeArmed: badgeBase.Background(p.Armed),
		BadgeHold:  badgeBase.Background(p.Hold),
		BadgeDone:  badgeBase.Background(p.Muted),
		Badge:      badgeBase.Background(p.Title),
		Card: lipgloss.NewStyle().
			Background(p.Panel).
			Foreground(p.Text).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Border),
		CardTitle: lipgloss.NewStyle().Foreground(p.Title).Bold(true),
		Title:     lipgloss.NewStyle().Foreground(p.Title).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),
		Value:     lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Axis:      lipgloss.NewStyle().Foreground(p.Border),
		Grid:      lipgloss.NewStyle().Foreground(p.Grid),
		Trace:     lipgloss.NewStyle().Foreground(p.Trace),
		Marker:    lipgloss.NewStyle().Foreground(p.Marker).Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
	}
}

func detectBackground() string {
	if val := os.Getenv("COLORFGBG"); val != "" {
		parts := strings.Split(val, ";")
		bg := parts[len(parts)-1]
		if num, err := strconv.Atoi(bg); err == nil {
			if num <= 6 || num == 8 {
				return "dark"
			}
			return "light"
		}
	}
	return "dark"
}

func pickColor(profile termenv.Profile, hex, ansi256, ansi string) lipgloss.Color {
	switch profile {
	case termenv.TrueColor:
		return lipgloss.Color(hex)
	case termenv.ANSI256:
		return lipgloss.Color(ansi256)
	default:
		return lipgloss.Color(ansi)
	}
}

// Toggle flips between dark and light; auto resolves to light first.
func Toggle(current string) string {
	switch strings.ToLower(strings.TrimSpace(current)) {
	case "dark":
		return "light"
	case "light":
		return "dark"
	default:
		if detectBackground() == "dark" {
			return "light"
		}
		return "dark"
	}
}
