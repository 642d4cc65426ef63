// Package assets materializes a resolved brand into the branding directory
// the vendored build reads.
//
// A run is planned first. Planning reads the brand directory, the locale
// templates and the base branding but writes nothing, so every fail-fast
// check (missing per-size logos, installer script count) happens before the
// output directory is touched. Apply then resets the output directory and
// generates, in order: raster icons, the macOS icon container, about logos,
// locale files, the inherited branding merge, optional icons, the update
// URL patch and the internal mozconfig.
package assets
