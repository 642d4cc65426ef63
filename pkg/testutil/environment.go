// pkg/testutil/environment.go
// DEPENDENCIES: afero (memory backend)
// PURPOSE: Orchestrate project environments for overlay and brand tests

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/paths"
	"github.com/zen-browser/surfer/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // afero MemMapFs, no real filesystem
	EnvIsolated                  // Real filesystem in a temp directory
)

// TestEnvironment is a surfer project root with its dependencies
type TestEnvironment struct {
	Root  string
	FS    types.FS
	Paths paths.Paths
	Type  EnvType

	t *testing.T
}

// NewTestEnvironment creates a project root with an empty engine tree
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}
	switch envType {
	case EnvMemoryOnly:
		env.Root = "/virtual/zen"
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
	case EnvIsolated:
		env.Root = filepath.Join(t.TempDir(), "zen")
		env.FS = filesystem.NewOS()
	}

	p, err := paths.New(env.Root)
	require.NoError(t, err)
	env.Paths = p

	require.NoError(t, env.FS.MkdirAll(p.EngineDir(), 0755))
	return env
}

// WriteFile writes content at a project-relative path, creating parents
func (env *TestEnvironment) WriteFile(rel string, content []byte) string {
	env.t.Helper()
	return WriteFile(env.t, env.FS, env.Paths.Resolve(rel), content)
}

// ReadFile reads a project-relative path
func (env *TestEnvironment) ReadFile(rel string) []byte {
	env.t.Helper()
	data, err := env.FS.ReadFile(env.Paths.Resolve(rel))
	require.NoError(env.t, err)
	return data
}

// WithFileTree writes every path -> content pair under the project root
func (env *TestEnvironment) WithFileTree(tree map[string]string) {
	env.t.Helper()
	for rel, content := range tree {
		env.WriteFile(rel, []byte(content))
	}
}

// WriteFile writes content at an absolute path, creating parents
func WriteFile(t *testing.T, fsys types.FS, path string, content []byte) string {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fsys.WriteFile(path, content, 0644))
	return path
}
