package graph_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/viability/internal/presentation/graph"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCurve() *domain.Curve {
	return &domain.Curve{Points: []domain.Point{
		{Rho: 0, MeanLifetime: 120},
		{Rho: 0.5, MeanLifetime: 60},
		{Rho: 1, MeanLifetime: 15},
	}}
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(sampleCurve())

	tests := []string{
		"xychart-beta",
		`title "Viability vs systemic reduction"`,
		`x-axis "rho" ["0.00", "0.50", "1.00"]`,
		"y-axis \"W(rho) steps\" 0 --> 200",
		"line [120.0, 60.0, 15.0]",
	}
	for _, want := range tests {
		assert.Contains(t, out, want)
	}
}

func TestPlot(t *testing.T) {
	out := graph.Plot(sampleCurve(), graph.PlotOptions{Width: 21, Height: 5})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, graph.Title, lines[0])
	assert.Equal(t, 3, strings.Count(out, "*"))
	// Highest point sits on the top row at the left edge.
	assert.True(t, strings.HasSuffix(lines[2], "|*"), lines[2])
	assert.Contains(t, out, "0.00")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "rho")
}

func TestPlot_Degenerate(t *testing.T) {
	assert.Contains(t, graph.Plot(&domain.Curve{}, graph.DefaultPlotOptions()), "(no points)")

	single := &domain.Curve{Points: []domain.Point{{Rho: 0.3, MeanLifetime: 0}}}
	assert.NotPanics(t, func() { graph.Plot(single, graph.PlotOptions{}) })
}

func TestRenderChart_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, graph.RenderChart(&buf, sampleCurve(), graph.ImagePNG, graph.DefaultChartOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestRenderChart_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, graph.RenderChart(&buf, sampleCurve(), graph.ImageSVG, graph.ChartOptions{Width: 400, Height: 300}))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Viability vs systemic reduction")
	assert.Contains(t, out, "rho")
}

func TestRenderChart_SinglePointAndFlatCurve(t *testing.T) {
	for _, curve := range []*domain.Curve{
		{Points: []domain.Point{{Rho: 0.5, MeanLifetime: 14}}},
		{Points: []domain.Point{{Rho: 0, MeanLifetime: 14}, {Rho: 1, MeanLifetime: 14}}},
	} {
		var buf bytes.Buffer
		assert.NoError(t, graph.RenderChart(&buf, curve, graph.ImagePNG, graph.ChartOptions{}))
	}
}

func TestRenderChart_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, graph.RenderChart(&buf, &domain.Curve{}, graph.ImagePNG, graph.DefaultChartOptions()))
	assert.Error(t, graph.RenderChart(&buf, sampleCurve(), graph.ImageFormat("gif"), graph.DefaultChartOptions()))
}

func TestImageFormatFor(t *testing.T) {
	f, err := graph.ImageFormatFor("out/curve.PNG")
	require.NoError(t, err)
	assert.Equal(t, graph.ImagePNG, f)

	f, err = graph.ImageFormatFor("curve.svg")
	require.NoError(t, err)
	assert.Equal(t, graph.ImageSVG, f)

	_, err = graph.ImageFormatFor("curve.jpg")
	assert.Error(t, err)
}
