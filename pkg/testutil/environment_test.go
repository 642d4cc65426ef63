package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/brand"
	"github.com/zen-browser/surfer/pkg/filesystem"
)

func TestNewTestEnvironment(t *testing.T) {
	for _, envType := range []EnvType{EnvMemoryOnly, EnvIsolated} {
		env := NewTestEnvironment(t, envType)

		assert.True(t, filesystem.IsDir(env.FS, env.Paths.EngineDir()))
		assert.Equal(t, envType == EnvIsolated, filesystem.IsOS(env.FS))

		env.WithFileTree(map[string]string{"src/browser/a.js": "a"})
		assert.Equal(t, "a", string(env.ReadFile("src/browser/a.js")))
	}
}

func TestBrandBuilder(t *testing.T) {
	env := NewTestEnvironment(t, EnvMemoryOnly)

	dir := env.Brand("acme").Without("firefox.ico").WithFile("content/x.svg", []byte("<svg/>")).Create()

	for _, name := range brand.RequiredFiles {
		_, err := env.FS.Stat(filepath.Join(dir, name))
		if name == "firefox.ico" {
			assert.Error(t, err)
			continue
		}
		assert.NoError(t, err, name)
	}

	data, err := env.FS.ReadFile(filepath.Join(dir, "logo22.png"))
	require.NoError(t, err)
	w, h := PNGSize(t, data)
	assert.Equal(t, 44, w)
	assert.Equal(t, 44, h)

	assert.True(t, filesystem.Exists(env.FS, filepath.Join(dir, "content", "x.svg")))
}

func TestBaseBranding(t *testing.T) {
	env := NewTestEnvironment(t, EnvMemoryOnly)

	dir := env.BaseBranding(map[string][]byte{"configure.sh": nil, "extra.txt": []byte("x")})

	files, err := filesystem.ListFiles(env.FS, dir)
	require.NoError(t, err)
	assert.Contains(t, files, "extra.txt")
	assert.NotContains(t, files, "configure.sh")
	assert.Contains(t, files, "branding.nsi")
}
