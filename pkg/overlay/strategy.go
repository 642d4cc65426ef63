package overlay

import "github.com/zen-browser/surfer/pkg/types"

// Strategy is how an overlay file is placed into the engine
type Strategy int

const (
	// StrategySymlink links the destination to the canonical overlay file
	StrategySymlink Strategy = iota
	// StrategyCopy writes an independent byte copy
	StrategyCopy
)

func (s Strategy) String() string {
	switch s {
	case StrategySymlink:
		return "symlink"
	case StrategyCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// ParseStrategy is the inverse of String
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "symlink":
		return StrategySymlink, true
	case "copy":
		return StrategyCopy, true
	default:
		return 0, false
	}
}

// SelectStrategy picks the strategy for one run. Windows hosts copy unless
// symbolic links were explicitly enabled, since creating links there needs
// elevated rights by default.
func SelectStrategy(platform types.Platform, windowsUseSymbolicLinks bool) Strategy {
	if platform.IsWindows() && !windowsUseSymbolicLinks {
		return StrategyCopy
	}
	return StrategySymlink
}
