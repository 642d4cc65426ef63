package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Maintain a branded fork of a vendored browser tree"
	MsgImportShort      = "Project the overlay tree onto the engine"
	MsgPatchesShort     = "Inspect the overlay tree"
	MsgPatchesListShort = "List overlay groups and their file counts"
	MsgBrandShort       = "Manage brands"
	MsgBrandListShort   = "List available brands"
	MsgBrandShowShort   = "Show the resolved definition of a brand"
	MsgBrandApplyShort  = "Generate the branding directory for a brand"
	MsgVersionShort     = "Print version information"
	MsgCompletionShort  = "Generate shell completion script"
	MsgManShort         = "Generate the surfer man page"

	// Status messages
	MsgFallbackWarning = "Warning: no project root found, using current directory: %s\n"
	MsgVersionFormat   = "surfer version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrInitPaths  = "failed to initialize paths: %w"
	MsgErrLoadConfig = "failed to load configuration: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot     = "Project root (default: $SURFER_ROOT, the git root or the current directory)"
	MsgFlagPlatform = "Target platform: darwin, win32 or linux (default: host)"
	MsgFlagCompat   = "Publish updates on the generic compatibility channel"
)

// Long messages
const (
	MsgRootLong = `surfer keeps a small overlay tree of maintainer-owned files projected onto a
large vendored source tree ("engine"), and turns brand definitions into the
icons, installer defines, preference fragments and update URLs the vendored
build expects.`

	MsgImportLong = `Import scans every configured overlay root and places each file at the same
relative path inside the engine. Files are symlinked, or copied on Windows
unless build_options.windows_use_symbolic_links is set.

Existing files at a destination are replaced. Replacing a file surfer does not
manage, or a managed copy that was edited in place, is reported as a warning.`

	MsgBrandApplyLong = `Apply resolves the brand, validates its artwork and the base branding, then
regenerates engine/browser/branding/<brand> from scratch. Nothing is written
when validation fails.`
)
