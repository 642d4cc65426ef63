// Package display renders overlay reports and brand results for the CLI.
//
// Terminal output uses lipgloss styles and pterm tables. Text output is the
// same content without styling, for pipes and NO_COLOR.
package display
