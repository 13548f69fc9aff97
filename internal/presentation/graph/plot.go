package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/viability/pkg/domain"
)

// PlotOptions sizes the ASCII plot area (excluding axis labels).
type PlotOptions struct {
	Width  int
	Height int
}

// DefaultPlotOptions fits an 80-column terminal.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 60, Height: 15}
}

// Plot renders the curve as an ASCII scatter chart with rho on the x axis
// and mean lifetime on the y axis. Points map to the nearest cell.
func Plot(curve *domain.Curve, opts PlotOptions) string {
	if opts.Width < 2 {
		opts.Width = 2
	}
	if opts.Height < 2 {
		opts.Height = 2
	}

	var sb strings.Builder
	sb.WriteString(Title + "\n\n")
	if len(curve.Points) == 0 {
		sb.WriteString("(no points)\n")
		return sb.String()
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for _, p := range curve.Points {
		minX = math.Min(minX, p.Rho)
		maxX = math.Max(maxX, p.Rho)
		maxY = math.Max(maxY, p.MeanLifetime)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == 0 {
		maxY = 1
	}

	cells := make([][]byte, opts.Height)
	for r := range cells {
		cells[r] = []byte(strings.Repeat(" ", opts.Width))
	}
	for _, p := range curve.Points {
		col := int(math.Round((p.Rho - minX) / (maxX - minX) * float64(opts.Width-1)))
		row := opts.Height - 1 - int(math.Round(p.MeanLifetime/maxY*float64(opts.Height-1)))
		cells[row][col] = '*'
	}

	yLabel := len(fmt.Sprintf("%.1f", maxY))
	for r, line := range cells {
		label := ""
		switch r {
		case 0:
			label = fmt.Sprintf("%.1f", maxY)
		case opts.Height - 1:
			label = "0"
		}
		sb.WriteString(fmt.Sprintf("%*s |%s\n", yLabel, label, strings.TrimRight(string(line), " ")))
	}

	sb.WriteString(fmt.Sprintf("%*s +%s\n", yLabel, "", strings.Repeat("-", opts.Width)))
	left := fmt.Sprintf("%.2f", minX)
	right := fmt.Sprintf("%.2f", maxX)
	gap := max(opts.Width-len(left)-len(right), 1)
	sb.WriteString(fmt.Sprintf("%*s  %s%s%s\n", yLabel, "", left, strings.Repeat(" ", gap), right))
	sb.WriteString(fmt.Sprintf("%*s  %s\n", yLabel, "", centre("rho", opts.Width)))
	return sb.String()
}

func centre(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
