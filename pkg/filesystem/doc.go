// Package filesystem provides the types.FS backends surfer runs on.
//
// NewOS is used for real runs. NewAferoFS and NewBillyFS wrap in-memory
// filesystems for tests; only the billy backend models symlinks faithfully,
// so tests exercising the symlink strategy should prefer it.
package filesystem
