// Package types defines the small set of interfaces and value types shared
// across surfer packages: the filesystem abstraction every writer goes
// through and the host platform identifiers the build rules key on.
package types
