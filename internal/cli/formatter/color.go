package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is one set of theme colors.
type Palette struct {
	Green, Yellow, Red, Blue, Purple, Dim, Fg, Header lipgloss.Color
}

// DarkPalette is the Gruvbox dark set.
var DarkPalette = Palette{
	Green:  "#8ec07c",
	Yellow: "#fabd2f",
	Red:    "#fb4934",
	Blue:   "#83a598",
	Purple: "#d3869b",
	Dim:    "#928374",
	Fg:     "#ebdbb2",
	Header: "#fe8019",
}

// LightPalette is the Gruvbox light set.
var LightPalette = Palette{
	Green:  "#427b58",
	Yellow: "#b57614",
	Red:    "#9d0006",
	Blue:   "#076678",
	Purple: "#8f3f71",
	Dim:    "#7c6f64",
	Fg:     "#3c3836",
	Header: "#af3a03",
}

var (
	ColorGreen, ColorYellow, ColorRed, ColorBlue    lipgloss.Color
	ColorPurple, ColorDim, ColorFg, ColorHeader     lipgloss.Color
	StyleGreen, StyleYellow, StyleRed, StyleBlue    lipgloss.Style
	StylePurple, StyleDim, StyleFg, StyleHeader     lipgloss.Style
	StyleBold                                       lipgloss.Style
	dark                                            bool
)

func init() {
	ApplyTheme(true)
}

// ApplyTheme switches every color and style to the dark or light palette.
func ApplyTheme(useDark bool) {
	p := LightPalette
	if useDark {
		p = DarkPalette
	}
	dark = useDark
	ColorGreen, ColorYellow, ColorRed, ColorBlue = p.Green, p.Yellow, p.Red, p.Blue
	ColorPurple, ColorDim, ColorFg, ColorHeader = p.Purple, p.Dim, p.Fg, p.Header

	StyleGreen = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
}

// IsDark reports the active theme.
func IsDark() bool { return dark }

// ThemeName is "dark" or "light".
func ThemeName() string {
	if dark {
		return "dark"
	}
	return "light"
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
