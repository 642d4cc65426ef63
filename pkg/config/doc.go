// Package config handles configuration management for surfer.
// Values are layered from embedded defaults, the project's surfer.toml,
// SURFER_* environment variables and finally command-line overrides.
package config
