// Package brand resolves a brand key into a complete brand definition.
//
// A brand is a directory of artwork under configs/branding/<key> plus an
// optional [brands.<key>] table in surfer.toml. Resolution merges an
// explicit, ordered list of partial records left to right (global project
// fields, documented defaults, then the brand's own table) and validates
// the result.
package brand
