package fragments

import (
	"regexp"

	"github.com/zen-browser/surfer/pkg/types"
)

var updateURLPattern = regexp.MustCompile(`URL=.*update.xml`)

// UpdateURL returns the update descriptor URL line. @MOZ_APPUPDATE_HOST@,
// %BUILD_TARGET% and %CHANNEL% are placeholders filled by the build. Compat
// builds publish under a "-generic" channel everywhere except macOS.
func UpdateURL(compat bool, platform types.Platform) string {
	suffix := ""
	if compat && !platform.IsMacOS() {
		suffix = "-generic"
	}
	return "URL=https://@MOZ_APPUPDATE_HOST@/updates/browser/%BUILD_TARGET%/%CHANNEL%" + suffix + "/update.xml"
}

// PatchUpdateURL rewrites every update URL in an application descriptor
// template and reports how many lines matched.
func PatchUpdateURL(contents []byte, compat bool, platform types.Platform) ([]byte, int) {
	replacement := []byte(UpdateURL(compat, platform))
	n := 0
	out := updateURLPattern.ReplaceAllFunc(contents, func([]byte) []byte {
		n++
		return replacement
	})
	return out, n
}
