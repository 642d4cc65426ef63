package fragments

import (
	"github.com/zen-browser/surfer/pkg/types"
)

// UnresolvableUpdateHost is exported when no update host is configured so
// update checks can never reach a real server
const UnresolvableUpdateHost = "localhost:7648 # This should not resolve"

// MozconfigOptions select the internal mozconfig block
type MozconfigOptions struct {
	Brand          string
	BuildMode      string
	Platform       types.Platform
	UpdateHostname string
	// GenerateProfile selects the conservative flags used for PGO profile runs
	GenerateProfile bool
}

type mozconfigData struct {
	Brand         string
	BuildMode     string
	OptimizeFlags string
	UpdateHost    string
}

// Mozconfig renders the internal mozconfig block that binds the brand key
// to the branding directory and update channel.
func Mozconfig(opts MozconfigOptions) string {
	host := opts.UpdateHostname
	if host == "" {
		host = UnresolvableUpdateHost
	}
	out, err := render("mozconfig.tmpl", mozconfigData{
		Brand:         opts.Brand,
		BuildMode:     opts.BuildMode,
		OptimizeFlags: OptimizeFlags(opts.Platform, opts.GenerateProfile),
		UpdateHost:    host,
	})
	if err != nil {
		panic(err)
	}
	return string(out)
}

// OptimizeFlags returns the release optimisation line for a platform
func OptimizeFlags(platform types.Platform, generateProfile bool) string {
	if generateProfile {
		return `ac_add_options --enable-optimize="-O2 -w"`
	}
	switch platform {
	case types.PlatformLinux:
		return `ac_add_options --enable-optimize="-march=nehalem -msse3 -mtune=znver3 -O3 -w -mavx -maes"`
	case types.PlatformDarwin:
		return `ac_add_options --enable-optimize="-mcpu=apple-m1 -O3 -w"`
	case types.PlatformWin32:
		return `ac_add_options --enable-optimize="-march=x86-64-v3 -Qvec -w -ftree-vectorize -msse3 -mssse3 -msse4.1 -mtune=haswell -mavx -maes"`
	default:
		return "# Unknown platform " + string(platform)
	}
}
