// pkg/display/renderer_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test plain text rendering of overlay reports and brand results

package display

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/assets"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/overlay"
)

func entry(path string) overlay.Entry {
	return overlay.Entry{RelativePath: path, Group: strings.SplitN(path, "/", 2)[0]}
}

func TestImport(t *testing.T) {
	report := &overlay.Report{
		Strategy: overlay.StrategySymlink,
		Results: []overlay.EntryResult{
			{Entry: entry("browser/a.js"), Action: overlay.ActionCreated},
			{Entry: entry("browser/b.js"), Action: overlay.ActionUnchanged},
			{Entry: entry("toolkit/c.css"), Action: overlay.ActionReplaced, Overwritten: true},
		},
		IgnoreLinesAdded: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatText).Import(report))
	out := buf.String()

	assert.Contains(t, out, "Import (symlink)")
	assert.Contains(t, out, "browser (1 unchanged)")
	assert.Contains(t, out, "created   browser/a.js")
	assert.NotContains(t, out, "browser/b.js")
	assert.Contains(t, out, "toolkit/c.css (overwrote unmanaged file)")
	assert.Contains(t, out, "3 entries, 1 created, 1 replaced, 1 unchanged, 1 overwritten, 1 ignore lines added")
	assert.NotContains(t, out, "\x1b[", "text output carries no escape codes")
}

func TestGroups(t *testing.T) {
	groups := []overlay.Group{
		{Name: "browser", Entries: []overlay.Entry{entry("browser/a.js"), entry("browser/b.js")}},
		{Name: "toolkit", Entries: []overlay.Entry{entry("toolkit/c.css")}},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRenderer(&buf, FormatText).Groups(groups))
		assert.Equal(t, "browser\t2\ntoolkit\t1\n", buf.String())
	})

	t.Run("terminal table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRenderer(&buf, FormatTerminal).Groups(groups))
		assert.Contains(t, buf.String(), "browser")
		assert.Contains(t, buf.String(), "total")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRenderer(&buf, FormatText).Groups(nil))
		assert.Equal(t, "No overlay files found\n", buf.String())
	})
}

func TestBrands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatText).Brands([]string{"acme", "release"}))
	assert.Equal(t, "• acme\n• release\n", buf.String())
}

func TestApply(t *testing.T) {
	res := &assets.Result{
		Key:       "acme",
		OutputDir: "/zen/engine/browser/branding/acme",
		Artifacts: []assets.Artifact{
			{Kind: assets.RasterIcon, Path: "default16.png"},
			{Kind: assets.RasterIcon, Path: "default32.png"},
			{Kind: assets.InstallerDefine, Path: "branding.nsi"},
		},
		AppIni:           "/zen/engine/build/application.ini.in",
		UpdateURLMatches: 2,
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatText).Apply(res))
	out := buf.String()

	assert.Contains(t, out, "Brand acme")
	assert.Contains(t, out, "raster-icon")
	assert.Contains(t, out, "update URLs patched: 2")
	assert.Less(t, strings.Index(out, "installer-define"), strings.Index(out, "raster-icon"))
}

func TestError(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, FormatText)

	out := r.Error(errors.IncompleteBrandError("acme", []string{"logo.png", "firefox.ico"}))
	assert.Contains(t, out, "brand acme is missing required files")
	assert.Contains(t, out, "missing firefox.ico\n")
	assert.Contains(t, out, "missing logo.png")

	assert.Equal(t, "✗ plain", r.Error(stderrors.New("plain")))
	assert.Empty(t, r.Error(nil))
}
