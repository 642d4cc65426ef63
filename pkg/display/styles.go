package display

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	headingColor = lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
	pathColor    = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#A0A8B0"}
	successColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	warningColor = lipgloss.AdaptiveColor{Light: "#FFC107", Dark: "#FFD54F"}
	infoColor    = lipgloss.AdaptiveColor{Light: "#17A2B8", Dark: "#4DD0E1"}
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(headingColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	pathStyle    = lipgloss.NewStyle().Foreground(pathColor).Italic(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor)
)

// Indicators, plain and styled
const (
	successMark = "✓"
	errorMark   = "✗"
	warningMark = "!"
	infoMark    = "•"
	pendingMark = "○"
)

func indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
