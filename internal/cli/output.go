package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/viability/internal/presentation/graph"
	"github.com/aretw0/viability/internal/presentation/report"
	"github.com/aretw0/viability/internal/presentation/tui"
	"github.com/aretw0/viability/pkg/domain"
	"golang.org/x/term"
)

// Output writes results in the requested format.
// Markdown is rendered with glamour when writing to a terminal.
type Output struct {
	W      io.Writer
	Format report.Format
	Plot   bool
	TTY    bool
	Width  int

	// PlotOut, when set, receives a PNG or SVG chart of every curve
	// (chosen by extension).
	PlotOut string
}

// NewOutput builds an Output for w, detecting whether w is a terminal.
func NewOutput(w io.Writer, format report.Format, plot bool) *Output {
	out := &Output{W: w, Format: format, Plot: plot}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		out.TTY = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			out.Width = width
		}
	}
	return out
}

// Curve writes a swept curve, followed by its ASCII plot when requested,
// and saves the chart image to PlotOut when set.
func (o *Output) Curve(curve *domain.Curve) error {
	if err := o.writeCurve(curve); err != nil {
		return err
	}
	if o.PlotOut == "" {
		return nil
	}
	return SaveChart(o.PlotOut, curve)
}

// SaveChart renders curve into the image file at path.
func SaveChart(path string, curve *domain.Curve) error {
	format, err := graph.ImageFormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plot file: %w", err)
	}
	if err := graph.RenderChart(f, curve, format, graph.DefaultChartOptions()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing plot file: %w", err)
	}
	return nil
}

func (o *Output) writeCurve(curve *domain.Curve) error {
	if o.Format == report.FormatMarkdown && o.TTY {
		render, err := tui.NewRenderer(o.Width)
		if err != nil {
			return fmt.Errorf("markdown renderer: %w", err)
		}
		rendered, err := render(report.Markdown(curve))
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		if _, err := io.WriteString(o.W, rendered); err != nil {
			return err
		}
	} else if err := report.WriteCurve(o.W, curve, o.Format); err != nil {
		return err
	}

	if !o.Plot {
		return nil
	}
	if o.Format == report.FormatMarkdown {
		_, err := fmt.Fprintf(o.W, "\n```mermaid\n%s```\n", graph.GenerateMermaid(curve))
		return err
	}
	_, err := fmt.Fprint(o.W, "\n"+graph.Plot(curve, graph.DefaultPlotOptions()))
	return err
}

// Estimate writes a single estimate.
func (o *Output) Estimate(est domain.Estimate) error {
	return report.WriteEstimate(o.W, est, o.Format)
}

// Trace writes the step-by-step trace of one trajectory.
func (o *Output) Trace(trace *domain.Trace) error {
	return report.WriteTrace(o.W, trace, o.Format)
}
