package fragments

import "github.com/zen-browser/surfer/pkg/brand"

// InstallerScriptName is the installer defines file in a branding directory
const InstallerScriptName = "branding.nsi"

type installerData struct {
	FullName string
	Vendor   string
}

// InstallerDefines renders the NSIS !define block for a brand. Only the
// full name (also used as the certificate name) and vendor vary; URLs and
// layout constants are fixed.
func InstallerDefines(def *brand.Definition) []byte {
	out, err := render("branding.nsi.tmpl", installerData{FullName: def.FullName, Vendor: def.Vendor})
	if err != nil {
		// The template is embedded and its data is two strings
		panic(err)
	}
	return out
}
