package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aaronsalm/kurve/internal/curve"
)

const (
	// plotRows is the character height of the plot area: one row per pH
	// unit keeps the y axis readable.
	plotRows = 15
	// plotMaxPH mirrors the diagram's fixed y range.
	plotMaxPH = 14.0
)

// renderPlot draws the curve as a character grid, pH 14 on the top row
// and pH 0 on the bottom, titrant volume left to right. Colored switches
// the dots from a single hue to an indicator palette by pH.
func renderPlot(out *curve.Output, width int, colored bool) string {
	if out == nil || len(out.Points) == 0 {
		return ""
	}
	cols := width - 4 // room for the y-axis labels
	if cols < 10 {
		cols = 10
	}

	grid := make([][]string, plotRows)
	for i := range grid {
		grid[i] = make([]string, cols)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	maxVol := out.MaxVolume()
	for _, p := range out.Points {
		col := 0
		if maxVol > 0 {
			col = int(math.Round(p.Volume / maxVol * float64(cols-1)))
		}
		ph := math.Max(0, math.Min(plotMaxPH, p.PH))
		row := plotRows - 1 - int(math.Round(ph/plotMaxPH*float64(plotRows-1)))
		grid[row][col] = dotStyle(p.PH, colored).Render("•")
	}

	var b strings.Builder
	for i, row := range grid {
		b.WriteString(stylePlotAxis.Render(yLabel(i)))
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	b.WriteString(stylePlotAxis.Render(xAxisLine(maxVol, cols)))
	return b.String()
}

// yLabel returns the 3-character pH label for a grid row. Only the two
// ends and the midpoint are labeled.
func yLabel(row int) string {
	switch row {
	case 0:
		return "14 "
	case plotRows / 2:
		return " 7 "
	case plotRows - 1:
		return " 0 "
	}
	return "   "
}

func xAxisLine(maxVol float64, cols int) string {
	axis := "   " + strings.Repeat("─", cols)
	label := fmt.Sprintf(" 0%*s", cols-1, fmt.Sprintf("%g mL", maxVol))
	return axis + "\n  " + label
}

func dotStyle(ph float64, colored bool) lipgloss.Style {
	if !colored {
		return stylePlotDot
	}
	switch {
	case ph < 6:
		return stylePlotDot.Foreground(colorCurveAcidic)
	case ph > 8:
		return stylePlotDot.Foreground(colorCurveBasic)
	default:
		return stylePlotDot.Foreground(colorCurveNeutral)
	}
}
