package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the nfalab ASCII art banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	// Subtle gradient from indigo to rose
	lines := []struct {
		text  string
		color string
	}{
		{"         __       _       _     ", "#818cf8"},
		{"  _ __  / _| __ _| | __ _| |__  ", "#a78bfa"},
		{" | '_ \\| |_ / _` | |/ _` | '_ \\ ", "#c084fc"},
		{" | | | |  _| (_| | | (_| | |_) |", "#e879f9"},
		{" |_| |_|_|  \\__,_|_|\\__,_|_.__/ ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
