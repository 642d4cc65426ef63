// Package fragments renders the small text fragments the vendored build
// reads: installer defines, profile preferences, the update descriptor URL
// and the internal mozconfig block. Every renderer is a pure function of
// its inputs.
package fragments
