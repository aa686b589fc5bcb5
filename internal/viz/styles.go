package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Panel   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Sky     lipgloss.Style
	Ground  lipgloss.Style
	Graph   lipgloss.Style
	Help    lipgloss.Style
	Good    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		Value:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Sky:     lipgloss.NewStyle().Foreground(t.Sky),
		Ground:  lipgloss.NewStyle().Foreground(t.Ground),
		Graph:   lipgloss.NewStyle().Foreground(t.Accent),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Good:    lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// Gauge draws v in [lo, hi] as a bar of the given width. A range that
// straddles zero fills outward from a center mark.
func Gauge(v, lo, hi float64, width int) string {
	if width < 3 || hi <= lo {
		return ""
	}
	if math.IsNaN(v) {
		v = lo
	}
	v = math.Max(lo, math.Min(hi, v))
	frac := (v - lo) / (hi - lo)

	cells := []rune(strings.Repeat("░", width))
	if lo < 0 && hi > 0 {
		zero := int(math.Round(-lo / (hi - lo) * float64(width-1)))
		at := int(math.Round(frac * float64(width-1)))
		for i := min(zero, at); i <= max(zero, at); i++ {
			cells[i] = '█'
		}
		cells[zero] = '┃'
		return string(cells)
	}
	filled := int(math.Round(frac * float64(width)))
	for i := 0; i < filled; i++ {
		cells[i] = '█'
	}
	return string(cells)
}

// Separator draws a centered rule.
func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	return strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1)
}
