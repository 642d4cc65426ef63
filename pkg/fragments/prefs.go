package fragments

import "path"

// ProfilePrefsPath is where the preference fragment lives inside a
// branding directory
var ProfilePrefsPath = path.Join("pref", "firefox-branding.js")

// ProfilePrefs returns the branding preference fragment. %VERSION% is left
// for the build to fill in.
func ProfilePrefs() []byte {
	out, err := render("firefox-branding.js.tmpl", nil)
	if err != nil {
		panic(err)
	}
	return out
}
