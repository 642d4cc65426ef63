// Package overlay projects the maintainer-owned overlay tree onto the
// vendored engine tree.
//
// A Scanner enumerates overlay files and groups them by their first path
// segment. A Materializer places each file at the same relative path under
// the engine, either as a symlink back to the overlay or as a byte copy,
// and records every placed path in the engine's ignore manifest so the
// vendored tree's version control never tracks it.
//
// Which destination files surfer owns is tracked in an explicit ownership
// manifest rather than inferred from "is it a symlink". Existing unmanaged
// files at a destination are still replaced, but the replacement is logged
// and reported so it is never silent.
package overlay
