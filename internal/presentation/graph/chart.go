package graph

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ImageFormat is the encoding of a rendered chart.
type ImageFormat string

const (
	ImagePNG ImageFormat = "png"
	ImageSVG ImageFormat = "svg"
)

// ImageFormatFor picks the image format from the file extension of path.
func ImageFormatFor(path string) (ImageFormat, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case string(ImagePNG):
		return ImagePNG, nil
	case string(ImageSVG):
		return ImageSVG, nil
	default:
		return "", fmt.Errorf("unsupported plot file %q (use .png or .svg)", path)
	}
}

// ChartOptions sizes the rendered image in pixels.
type ChartOptions struct {
	Width  int
	Height int
}

// DefaultChartOptions returns an 8x5 figure at 100 dpi.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 800, Height: 500}
}

var (
	lineColor = chart.ColorBlue
	gridColor = drawing.Color{R: 220, G: 220, B: 220, A: 255}
)

// RenderChart draws W(rho) against rho as a line with dot markers, with
// labelled axes, a light grid and the viability title.
func RenderChart(w io.Writer, curve *domain.Curve, format ImageFormat, opts ChartOptions) error {
	if curve == nil || len(curve.Points) == 0 {
		return errors.New("curve has no points to plot")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultChartOptions()
	}

	xs := make([]float64, len(curve.Points))
	ys := make([]float64, len(curve.Points))
	maxMean := 0.0
	for i, p := range curve.Points {
		xs[i] = p.Rho
		ys[i] = p.MeanLifetime
		maxMean = max(maxMean, p.MeanLifetime)
	}

	grid := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	graph := chart.Chart{
		Title:  Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:           "rho",
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: formatValue("%.1f"),
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           "W(rho) [steps]",
			Range:          &chart.ContinuousRange{Min: 0, Max: axisCeil(maxMean)},
			ValueFormatter: formatValue("%.0f"),
			GridMajorStyle: grid,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "W(rho)",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
		},
	}

	var provider chart.RendererProvider
	switch format {
	case ImagePNG:
		provider = chart.PNG
	case ImageSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

func formatValue(layout string) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf(layout, f)
		}
		return ""
	}
}
