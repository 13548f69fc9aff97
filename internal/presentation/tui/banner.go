package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the viability banner, coloured for the terminal profile.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` __   ___      _     _ _ _ _         `, "#34d399"},
		{` \ \ / (_)__ _| |__ (_) (_) |_ _  _ `, "#2dd4bf"},
		{`  \ V /| / _' | '_ \| | | |  _| || |`, "#22d3ee"},
		{`   \_/ |_\__,_|_.__/|_|_|_|\__|\_, |`, "#38bdf8"},
		{`                               |__/ `, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  W(rho) survival estimator "+version).Faint())
	fmt.Fprintln(w)
}
