package types

import "runtime"

// Platform identifies the host the vendored tree is built on. Values follow
// the naming the build tooling uses, so Windows is "win32" rather than
// Go's "windows".
type Platform string

const (
	PlatformDarwin Platform = "darwin"
	PlatformWin32  Platform = "win32"
	PlatformLinux  Platform = "linux"
)

// HostPlatform maps runtime.GOOS onto a Platform. Anything that is neither
// macOS nor Windows is treated as linux.
func HostPlatform() Platform {
	return PlatformFromGOOS(runtime.GOOS)
}

// PlatformFromGOOS maps a GOOS value or an already normalized platform name.
func PlatformFromGOOS(goos string) Platform {
	switch goos {
	case "darwin", "macos":
		return PlatformDarwin
	case "windows", "win32":
		return PlatformWin32
	default:
		return PlatformLinux
	}
}

// IsMacOS reports whether the platform is darwin
func (p Platform) IsMacOS() bool { return p == PlatformDarwin }

// IsWindows reports whether the platform is win32
func (p Platform) IsWindows() bool { return p == PlatformWin32 }

func (p Platform) String() string { return string(p) }
