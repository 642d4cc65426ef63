// cmd/surfer/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: testutil isolated environments, real filesystem
// PURPOSE: Drive the surfer commands end to end through cobra

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/testutil"
)

const projectConfig = `
name = "Acme"
vendor = "Acme Corp"
build_mode = "release"

[brands.acme]
brandFullName = "Acme Browser"
brandShortName = "Acme"
brandShorterName = "Acme"
backgroundColor = "#112233"
`

func newProject(t *testing.T) *testutil.TestEnvironment {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("SURFER_ROOT", "")
	t.Setenv(EnvGenerateProfile, "")

	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.WriteFile("surfer.toml", []byte(projectConfig))
	return env
}

// run executes surfer with args against the project and returns stdout
func run(t *testing.T, env *testutil.TestEnvironment, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--root", env.Root, "--platform", "linux"))
	err := cmd.Execute()
	return out.String(), err
}

func TestImportCmd(t *testing.T) {
	env := newProject(t)
	env.WithFileTree(map[string]string{
		"src/browser/base/zen.js": "// zen",
		"src/toolkit/theme.css":   "body {}",
	})

	out, err := run(t, env, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "2 entries, 2 created")
	assert.Contains(t, out, "2 ignore lines added")

	dest := filepath.Join(env.Paths.EngineDir(), "browser", "base", "zen.js")
	info, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0, "expected a symlink at %s", dest)

	ignore := string(env.ReadFile("engine/.gitignore"))
	assert.Contains(t, ignore, "browser/base/zen.js\n")
	assert.Contains(t, ignore, "toolkit/theme.css\n")

	t.Run("second_run_is_unchanged", func(t *testing.T) {
		out, err := run(t, env, "import")
		require.NoError(t, err)
		assert.Contains(t, out, "2 entries, 0 created, 0 replaced, 2 unchanged")
	})
}

func TestImportCmdOptionalRoot(t *testing.T) {
	env := newProject(t)
	env.WithFileTree(map[string]string{
		"src/browser/a.js": "a",
		"tests/smoke.js":   "smoke",
	})

	_, err := run(t, env, "import")
	require.NoError(t, err)

	_, err = os.Lstat(filepath.Join(env.Paths.EngineDir(), "browser", "base", "zen-components", "tests", "smoke.js"))
	assert.NoError(t, err)
}

func TestImportCmdMissingSource(t *testing.T) {
	env := newProject(t)

	_, err := run(t, env, "import")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrScan), "got %v", err)
}

func TestPatchesListCmd(t *testing.T) {
	env := newProject(t)
	env.WithFileTree(map[string]string{
		"src/browser/a.js":      "a",
		"src/browser/b/c.js":    "c",
		"src/toolkit/theme.css": "t",
	})

	out, err := run(t, env, "patches", "list")
	require.NoError(t, err)
	assert.Equal(t, "browser\t2\ntoolkit\t1\n", out)
}

func TestBrandListCmd(t *testing.T) {
	env := newProject(t)

	out, err := run(t, env, "brand", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No brands found")

	env.Brand("acme").Create()
	env.Brand("beta").Create()

	out, err = run(t, env, "brand", "list")
	require.NoError(t, err)
	assert.Equal(t, "• acme\n• beta\n", out)
}

func TestBrandShowCmd(t *testing.T) {
	env := newProject(t)
	env.Brand("acme").Create()

	out, err := run(t, env, "brand", "show", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "key: acme")
	assert.Contains(t, out, "brandFullName: Acme Browser")
	assert.Contains(t, out, "brandingVendor: Acme Corp")
	assert.Contains(t, out, "#112233")

	_, err = run(t, env, "brand", "show", "missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingBrand), "got %v", err)
}

func TestBrandApplyCmd(t *testing.T) {
	env := newProject(t)
	env.Brand("acme").Create()
	env.BaseBranding(nil)
	env.WriteFile("engine/build/application.ini.in",
		[]byte("[AppUpdate]\nURL=https://aus5.mozilla.org/update/6/%PRODUCT%/update.xml\n"))

	out, err := run(t, env, "brand", "apply", "acme", "--compat")
	require.NoError(t, err)
	assert.Contains(t, out, "Brand acme")
	assert.Contains(t, out, "update URLs patched: 1")

	nsis := string(env.ReadFile("engine/browser/branding/acme/branding.nsi"))
	assert.Regexp(t, `!define BrandFullName\s+"Acme Browser"`, nsis)

	appIni := string(env.ReadFile("engine/build/application.ini.in"))
	assert.Contains(t, appIni, "/%CHANNEL%-generic/update.xml")

	_, err = os.Stat(env.Paths.HashCachePath())
	assert.NoError(t, err, "hash cache should be persisted")

	mozconfig := string(env.ReadFile(".surfer/mozconfig"))
	assert.Contains(t, mozconfig, "--with-branding=browser/branding/acme")
}

func TestBrandApplyCmdIncompleteBrand(t *testing.T) {
	env := newProject(t)
	env.Brand("acme").Without("firefox.ico").Create()
	env.BaseBranding(nil)

	_, err := run(t, env, "brand", "apply", "acme")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteBrand), "got %v", err)
	assert.Equal(t, []string{"firefox.ico"}, errors.Missing(err))

	_, statErr := os.Stat(env.Paths.BrandOutputDir("acme"))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written for an incomplete brand")
}

func TestBrandApplyCmdInconsistentBaseWritesNothing(t *testing.T) {
	env := newProject(t)
	env.Brand("acme").Create()
	env.BaseBranding(map[string][]byte{"branding.nsi": nil})

	_, err := run(t, env, "brand", "apply", "acme")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateConsistency), "got %v", err)

	for _, path := range []string{env.Paths.HashCachePath(), env.Paths.StateDir(), env.Paths.BrandOutputDir("acme")} {
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "%s should not exist after a failed apply", path)
	}
}

func TestVersionCmd(t *testing.T) {
	env := newProject(t)

	out, err := run(t, env, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "surfer version dev")
}

func TestCompletionCmd(t *testing.T) {
	env := newProject(t)

	out, err := run(t, env, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")

	_, err = run(t, env, "completion", "tcsh")
	assert.Error(t, err)
}

func TestManCmd(t *testing.T) {
	env := newProject(t)

	out, err := run(t, env, "man")
	require.NoError(t, err)
	assert.Contains(t, out, ".TH")
	assert.Contains(t, out, "SURFER")
}

func TestRootWithoutCommand(t *testing.T) {
	env := newProject(t)

	_, err := run(t, env)
	assert.EqualError(t, err, "no command specified")
}
