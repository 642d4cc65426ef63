package brand

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/config"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/types"
)

const brandingDir = "/project/configs/branding"

func newFS(t *testing.T, brands map[string][]string) types.FS {
	t.Helper()
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	for key, files := range brands {
		require.NoError(t, fs.MkdirAll(brandingDir+"/"+key, 0755))
		for _, f := range files {
			require.NoError(t, fs.WriteFile(brandingDir+"/"+key+"/"+f, []byte("x"), 0644))
		}
	}
	return fs
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Name = "Zen Browser"
	cfg.Vendor = "Zen Team"
	return cfg
}

func TestResolvePrecedence(t *testing.T) {
	fs := newFS(t, map[string][]string{"acme": RequiredFiles})
	cfg := testConfig(t)
	cfg.Brands["acme"] = map[string]interface{}{
		"brandFullName":   "Acme Browser",
		"backgroundColor": "#112233",
		"brandingVendor":  "Acme Corp",
		"customToken":     "kept",
		"release": map[string]interface{}{
			"displayVersion": "1.2.3",
			"github":         map[string]interface{}{"repo": "acme/browser"},
		},
	}

	def, err := NewResolver(fs, brandingDir, cfg).Resolve("acme")
	require.NoError(t, err)

	// brand-specific beats defaults beats global
	assert.Equal(t, "Acme Browser", def.FullName)
	assert.Equal(t, "#112233", def.BackgroundColor)
	assert.Equal(t, "Acme Corp", def.Vendor)
	// defaults fill what the brand omits
	assert.Equal(t, "Nightly", def.ShortName)
	assert.Equal(t, "Nightly", def.ShorterName)
	// global fills what nothing else sets
	assert.Equal(t, "Zen Browser", def.GenericName)

	assert.Equal(t, "acme", def.Key)
	assert.Equal(t, brandingDir+"/acme", def.Dir)
	assert.Equal(t, "1.2.3", def.Release.DisplayVersion)
	require.NotNil(t, def.Release.GitHub)
	assert.Equal(t, "acme/browser", def.Release.GitHub.Repo)
	assert.Equal(t, "acme", def.Channel(), "channel defaults to the brand key")

	assert.Equal(t, map[string]interface{}{"customToken": "kept"}, def.Extra)
	assert.Equal(t, "kept", def.Tokens()["customToken"])
}

func TestResolveDefaultsOnly(t *testing.T) {
	fs := newFS(t, map[string][]string{"plain": RequiredFiles})

	def, err := NewResolver(fs, brandingDir, testConfig(t)).Resolve("plain")
	require.NoError(t, err)

	assert.Equal(t, "Mozilla Nightly", def.FullName)
	assert.Equal(t, "#2B2A33", def.BackgroundColor)
	assert.Equal(t, "Zen Team", def.Vendor)
	assert.Empty(t, def.Extra)

	tokens := def.Tokens()
	assert.Equal(t, map[string]string{
		FieldFullName:        "Mozilla Nightly",
		FieldShortName:       "Nightly",
		FieldShorterName:     "Nightly",
		FieldGenericName:     "Zen Browser",
		FieldVendor:          "Zen Team",
		FieldBackgroundColor: "#2B2A33",
	}, tokens)
}

func TestResolveMissingBrand(t *testing.T) {
	fs := newFS(t, nil)

	_, err := NewResolver(fs, brandingDir, testConfig(t)).Resolve("ghost")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingBrand))
	assert.Contains(t, err.Error(), "branding ghost does not exist")
}

func TestResolveIncompleteBrandListsEveryMissingFile(t *testing.T) {
	fs := newFS(t, map[string][]string{"half": {"logo.png", "firefox.ico"}})

	_, err := NewResolver(fs, brandingDir, testConfig(t)).Resolve("half")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteBrand))
	assert.Equal(t, []string{"firefox64.ico", "logo-mac.png"}, errors.Missing(err))
}

func TestResolveRejectsMissingVendor(t *testing.T) {
	fs := newFS(t, map[string][]string{"acme": RequiredFiles})
	cfg := testConfig(t)
	cfg.Vendor = ""

	_, err := NewResolver(fs, brandingDir, cfg).Resolve("acme")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBrandInvalid))
}

func TestList(t *testing.T) {
	fs := newFS(t, map[string][]string{
		"zen":   RequiredFiles,
		"alpha": nil,
	})
	require.NoError(t, fs.WriteFile(brandingDir+"/README.md", []byte("not a brand"), 0644))

	keys, err := NewResolver(fs, brandingDir, testConfig(t)).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zen"}, keys)

	empty := filesystem.NewAferoFS(afero.NewMemMapFs())
	keys, err = NewResolver(empty, brandingDir, testConfig(t)).List()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMerge(t *testing.T) {
	merged := Merge(
		Partial{"a": 1, "nested": map[string]interface{}{"x": 1, "y": 2}},
		nil,
		Partial{"b": 2, "nested": map[string]interface{}{"x": 9}},
	)
	assert.Equal(t, Partial{"a": 1, "b": 2, "nested": map[string]interface{}{"x": 9}}, merged, "merge is shallow")
}
