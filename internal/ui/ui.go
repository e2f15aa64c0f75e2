// Package ui provides terminal styling and the interactive menu for
// fontdoctor. Output degrades to plain text when stdout is not a terminal or
// NO_COLOR is set.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor reports whether the NO_COLOR convention is in effect.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// StylesFor picks colored or plain styles for the given writer.
func StylesFor(w io.Writer) Styles {
	if IsTTY(w) && !DetectNoColor() {
		return DefaultStyles()
	}
	return NoColorStyles()
}
