// Package paths is the single source of truth for surfer's project layout.
//
// A project root contains the overlay tree (src/), brand sources
// (configs/branding/<key>), the vendored engine tree (engine/) and surfer's
// own state directory (.surfer/). Callers never join these by hand.
package paths
