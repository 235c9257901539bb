package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#74c7ec")
	muted  = lipgloss.Color("#a6adc8")
	good   = lipgloss.Color("#a6e3a1")
	warn   = lipgloss.Color("#fab387")

	titleStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	okStyle    = lipgloss.NewStyle().Foreground(good)
	warnStyle  = lipgloss.NewStyle().Foreground(warn).Bold(true)
	focusStyle = lipgloss.NewStyle().Foreground(warn).Bold(true)
	boxStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)

// renderTable lays out rows in padded columns. Rows whose index is in
// highlight are drawn in the focus style.
func renderTable(header []string, rows [][]string, highlight map[int]bool) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(line(header)))
	for i, row := range rows {
		b.WriteString("\n")
		if highlight[i] {
			b.WriteString(focusStyle.Render(line(row)))
			continue
		}
		b.WriteString(line(row))
	}
	return b.String()
}

// resultStyle colours a W/L/OTW/OTL result.
func resultStyle(result string) string {
	switch result {
	case "W", "OTW":
		return okStyle.Render(result)
	case "L", "OTL":
		return warnStyle.Render(result)
	default:
		return result
	}
}
