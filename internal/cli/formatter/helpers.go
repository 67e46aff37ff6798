package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/naumanrao/courseadmin/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Localized renders all three locales on one line, dimming empty ones.
func Localized(t domain.LocalizedText) string {
	parts := make([]string, 0, len(domain.Locales))
	for _, loc := range domain.Locales {
		v := t.Get(loc)
		if v == "" {
			v = Dim("—")
		}
		parts = append(parts, Dim(string(loc)+":")+" "+v)
	}
	return strings.Join(parts, "  ")
}

// Price renders a course price; zero is "Free".
func Price(p float64) string {
	if p == 0 {
		return StyleGreen.Render("Free")
	}
	return fmt.Sprintf("%.2f", p)
}

// Remaining renders a session lifetime as "23h59m".
func Remaining(d time.Duration) string {
	if d <= 0 {
		return StyleRed.Render("expired")
	}
	d = d.Truncate(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// Check renders a yes/no flag.
func Check(ok bool) string {
	if ok {
		return StyleGreen.Render("✔")
	}
	return Dim("·")
}

// PadRight pads a string to a minimum width, truncating if needed.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
