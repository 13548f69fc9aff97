// Package report formats viability curves and estimates for output.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/viability/internal/presentation/graph"
	"github.com/aretw0/viability/pkg/domain"
)

// Format selects the output representation of a curve.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

// Formats lists the supported formats, in help-text order.
var Formats = []Format{FormatText, FormatTable, FormatMarkdown, FormatJSON, FormatCSV}

// ParseFormat resolves a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatText, FormatTable, FormatMarkdown, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, joinFormats())
}

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// PointLine is the one-line console summary of a sweep point.
func PointLine(p domain.Point) string {
	return fmt.Sprintf("rho = %.2f, W(rho) ≈ %.1f steps", p.Rho, p.MeanLifetime)
}

// WriteCurve writes the curve to w in the given format.
func WriteCurve(w io.Writer, curve *domain.Curve, format Format) error {
	switch format {
	case FormatText, "":
		for _, p := range curve.Points {
			if _, err := fmt.Fprintln(w, PointLine(p)); err != nil {
				return err
			}
		}
		return nil
	case FormatTable:
		return writeTable(w, curve)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(curve))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(curve)
	case FormatCSV:
		return writeCSV(w, curve)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeTable(w io.Writer, curve *domain.Curve) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rho\tW(rho)\tstd err\ttimed out\t")
	for _, p := range curve.Points {
		fmt.Fprintf(tw, "%.2f\t%.1f\t%.2f\t%d\t\n", p.Rho, p.MeanLifetime, p.StdErr, p.TimedOut)
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, curve *domain.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rho", "mean_lifetime", "std_err", "timed_out"}); err != nil {
		return err
	}
	for _, p := range curve.Points {
		record := []string{
			strconv.FormatFloat(p.Rho, 'g', -1, 64),
			strconv.FormatFloat(p.MeanLifetime, 'g', -1, 64),
			strconv.FormatFloat(p.StdErr, 'g', -1, 64),
			strconv.Itoa(p.TimedOut),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders the curve as a markdown document with a results table
// and the run parameters.
func Markdown(curve *domain.Curve) string {
	var sb strings.Builder
	sb.WriteString("# " + graph.Title + "\n\n")
	if curve.ID != "" {
		sb.WriteString(fmt.Sprintf("Curve `%s`, seed `%d`.\n\n", curve.ID, curve.Seed))
	}

	sb.WriteString("| rho | W(rho) | std err | timed out |\n")
	sb.WriteString("|---:|---:|---:|---:|\n")
	for _, p := range curve.Points {
		sb.WriteString(fmt.Sprintf("| %.2f | %.1f | %.2f | %d |\n", p.Rho, p.MeanLifetime, p.StdErr, p.TimedOut))
	}

	b := curve.Base
	sb.WriteString("\n## Parameters\n\n")
	sb.WriteString(fmt.Sprintf("- trials: %d, max steps: %d\n", b.Trials, b.MaxSteps))
	sb.WriteString(fmt.Sprintf("- gamma_ref: %g, gamma_min: %g\n", b.GammaRef, b.GammaMin))
	sb.WriteString(fmt.Sprintf("- k0: %g, alpha: %g, u0: %g\n", b.K0, b.Alpha, b.U0))
	sb.WriteString(fmt.Sprintf("- mu: %g, sigma0: %g, c: %g\n", b.Mu, b.Sigma0, b.C))
	return sb.String()
}

// WriteEstimate writes a single estimate in the given format.
// Tabular formats share the text rendering.
func WriteEstimate(w io.Writer, est domain.Estimate, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	}
	_, err := fmt.Fprintf(w, "%s\n  trials: %d  std dev: %.2f  std err: %.2f  min: %d  max: %d  timed out: %d\n",
		PointLine(domain.PointFrom(est)), est.Trials, est.StdDev, est.StdErr, est.Min, est.Max, est.TimedOut)
	if err == nil && est.Degenerate {
		_, err = fmt.Fprintln(w, "  warning: alpha*rho >= 1, the controller has no authority")
	}
	return err
}

// WriteTrace writes a per-step trace of one trajectory.
func WriteTrace(w io.Writer, trace *domain.Trace, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(trace)
	case FormatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"t", "k_eff", "u_max", "u", "eta", "e_red", "gamma"})
		for _, s := range trace.Steps {
			_ = cw.Write([]string{
				strconv.Itoa(s.T),
				strconv.FormatFloat(s.Gain, 'g', -1, 64),
				strconv.FormatFloat(s.Saturation, 'g', -1, 64),
				strconv.FormatFloat(s.Control, 'g', -1, 64),
				strconv.FormatFloat(s.Noise, 'g', -1, 64),
				strconv.FormatFloat(s.Environment, 'g', -1, 64),
				strconv.FormatFloat(s.Gamma, 'g', -1, 64),
			})
		}
		cw.Flush()
		return cw.Error()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "t\tu\teta\te_red\tgamma\t")
	for _, s := range trace.Steps {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.4f\t%.6f\t\n", s.T, s.Control, s.Noise, s.Environment, s.Gamma)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s (lifetime %d)\n", trace.Outcome, trace.Lifetime())
	return err
}
