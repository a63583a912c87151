package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the metron banner.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text, color string
	}{
		{"                  _                   ", "#38bdf8"},
		{"  _ __ ___   ___| |_ _ __ ___  _ __  ", "#22d3ee"},
		{" | '_ ` _ \\ / _ \\ __| '__/ _ \\| '_ \\ ", "#2dd4bf"},
		{" | | | | | |  __/ |_| | | (_) | | | |", "#34d399"},
		{" |_| |_| |_|\\___|\\__|_|  \\___/|_| |_|", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
