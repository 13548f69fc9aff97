package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/viability/pkg/domain"
)

// Title is the heading used for every rendering of a viability curve.
const Title = "Viability vs systemic reduction"

// GenerateMermaid produces a Mermaid xychart of the curve.
// Grid order is kept on the x axis, so unsorted grids render as given.
func GenerateMermaid(curve *domain.Curve) string {
	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", Title))

	labels := make([]string, len(curve.Points))
	values := make([]string, len(curve.Points))
	maxMean := 0.0
	for i, p := range curve.Points {
		labels[i] = fmt.Sprintf("\"%.2f\"", p.Rho)
		values[i] = fmt.Sprintf("%.1f", p.MeanLifetime)
		maxMean = max(maxMean, p.MeanLifetime)
	}

	sb.WriteString(fmt.Sprintf("    x-axis \"rho\" [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"W(rho) steps\" 0 --> %.0f\n", axisCeil(maxMean)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	return sb.String()
}

// axisCeil rounds v up to a readable axis bound.
func axisCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	step := 10.0
	for v > step*10 {
		step *= 10
	}
	n := int(v/step) + 1
	return float64(n) * step
}
