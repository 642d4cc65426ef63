// Package testutil provides test environments and fixtures for surfer
// components.
//
// Key components:
//   - TestEnvironment: a project root on either an in-memory or a real
//     temp filesystem, with paths resolved for it
//   - BrandBuilder: declarative brand directory setup with PNG artwork
//   - BaseBranding: the vendored base branding every brand inherits from
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; use EnvIsolated when code needs real symlinks,
//     memory-mapped reads or the synthfs pipeline
//   - Define test data inline
package testutil
