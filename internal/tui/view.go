package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
	"github.com/eugenenazirov/ewaste-impact/internal/equivalence"
	"github.com/eugenenazirov/ewaste-impact/internal/impact"
)

const (
	nameColumnWidth = 16

	// Cells around the progress bar: the goal label, the percentage and the
	// totals box border and padding.
	progressChrome   = 50
	minProgressWidth = 10
	maxProgressWidth = 30
)

func (m *Model) render() string {
	report := m.Report()
	summary := equivalence.Summarize(report.Totals, m.goalKg)

	var b strings.Builder
	b.WriteString(titleStyle.Render("E-Waste Impact Calculator"))
	b.WriteString("\n")
	b.WriteString(m.renderDevices(report))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(renderTotals(summary, m.progressWidth())))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderDevices(report impact.Report) string {
	lines := make(map[string]impact.Contribution, len(report.Breakdown))
	for _, c := range report.Breakdown {
		lines[c.DeviceID] = c
	}

	header := fmt.Sprintf("  %-*s %5s %8s %12s", nameColumnWidth, "Device", "Qty", "Size", "CO2 (kg)")
	rows := []string{labelStyle.Render(header)}

	for i, d := range m.devices {
		qty := m.selection.Quantity(d.ID)
		co2 := "-"
		if line, ok := lines[d.ID]; ok {
			co2 = equivalence.FormatFloat(line.Totals.CO2, 1)
		}

		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		row := fmt.Sprintf("%s %-*s %5d %8s %12s", cursor, nameColumnWidth, truncate(d.Name, nameColumnWidth), qty, m.sizeLabel(d), co2)

		switch {
		case i == m.cursor:
			row = selectedStyle.Render(row)
		case qty == 0:
			row = mutedStyle.Render(row)
		default:
			row = valueStyle.Render(row)
		}
		rows = append(rows, row)
	}

	return strings.Join(rows, "\n")
}

func (m *Model) sizeLabel(d catalog.DeviceType) string {
	size, ok := m.sizes[d.ID]
	if !ok {
		return "-"
	}
	label := strconv.FormatFloat(size, 'f', -1, 64)
	if d.Sizing.Unit != "" {
		label += " " + d.Sizing.Unit
	}
	return label
}

// progressWidth fits the goal bar to the terminal width.
func (m *Model) progressWidth() int {
	return min(max(m.width-progressChrome, minProgressWidth), maxProgressWidth)
}

func renderTotals(s equivalence.Summary, barWidth int) string {
	rows := []struct {
		label string
		value string
	}{
		{"CO2 saved", s.Display.CO2 + " kg"},
		{"Landfill avoided", s.Display.Landfill + " kg"},
		{"Energy saved", s.Display.Energy + " kWh"},
		{"Trees planted", s.Display.Trees},
		{"Cars off the road", s.Display.Cars},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", r.label)))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", "Goal "+equivalence.FormatFloat(s.GoalKg, 0)+" kg")))
	b.WriteString(renderProgressBar(s.GoalProgress, barWidth))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(s.Display.GoalProgress + "%"))

	if !s.Totals.IsZero() {
		b.WriteString("\n\n")
		b.WriteString(goodStyle.Render(s.Display.Comparison))
	}
	return b.String()
}

// renderProgressBar draws percent (0 to 100) as a bar of width cells.
func renderProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return goodStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
