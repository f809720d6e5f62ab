package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner and the version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"    _                        ___ _              ", "#818cf8"},
		{"   /_\\  __ _ __  ___   ___  | _ ) |___  __ _ ___", "#a78bfa"},
		{"  / _ \\/ _| '  \\/ -_) |___| | _ \\ / _ \\/ _` (_-<", "#c084fc"},
		{" /_/ \\_\\__|_|_|_\\___|       |___/_\\___/\\__, /__/", "#e879f9"},
		{"                                       |___/    ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}

// Status writes a one-line colored status message: green when ok, red otherwise.
func Status(w io.Writer, ok bool, msg string) {
	p := termenv.ColorProfile()
	color := "#22c55e"
	mark := "✔"
	if !ok {
		color = "#ef4444"
		mark = "✘"
	}
	fmt.Fprintln(w, termenv.String(mark+" "+msg).Foreground(p.Color(color)))
}
