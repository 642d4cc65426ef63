package assets

import (
	"fmt"
	"regexp"
)

// baseThemeColors matches the background colors hard-coded in the base
// branding stylesheets
var baseThemeColors = regexp.MustCompile(`#130829|hsla\(235, 43%, 10%, \.5\)`)

// ThemeCSS points every base background color at --theme-bg and appends
// the single rule defining it.
func ThemeCSS(contents []byte, backgroundColor string) []byte {
	out := baseThemeColors.ReplaceAll(contents, []byte("var(--theme-bg)"))
	return append(out, fmt.Sprintf(":root { --theme-bg: %s }", backgroundColor)...)
}
