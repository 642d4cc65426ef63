package display

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how results are written
type Format int

const (
	// FormatTerminal uses colors and tables
	FormatTerminal Format = iota
	// FormatText is plain text
	FormatText
)

// DetectFormat picks terminal output only for a color-capable tty
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
