package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zen-browser/surfer/pkg/brand"
)

// PNG returns a solid w×h image
func PNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// PNGSize decodes the dimensions of a PNG
func PNGSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

var brandColor = color.NRGBA{R: 0x2b, G: 0x2a, B: 0x33, A: 0xff}

// BrandBuilder declares the files of a brand directory
type BrandBuilder struct {
	env     *TestEnvironment
	key     string
	skip    map[string]bool
	extra   map[string][]byte
	noSizes bool
}

// Brand starts a brand directory under configs/branding/<key>
func (env *TestEnvironment) Brand(key string) *BrandBuilder {
	return &BrandBuilder{env: env, key: key, skip: map[string]bool{}, extra: map[string][]byte{}}
}

// Without leaves a file out of the brand directory
func (b *BrandBuilder) Without(names ...string) *BrandBuilder {
	for _, n := range names {
		b.skip[n] = true
	}
	return b
}

// WithFile adds an arbitrary file relative to the brand directory
func (b *BrandBuilder) WithFile(rel string, content []byte) *BrandBuilder {
	b.extra[rel] = content
	return b
}

// WithoutSizedLogos leaves out every logo<size>.png
func (b *BrandBuilder) WithoutSizedLogos() *BrandBuilder {
	b.noSizes = true
	return b
}

// Create writes the brand directory and returns it
func (b *BrandBuilder) Create() string {
	t := b.env.t
	t.Helper()

	dir := b.env.Paths.BrandSourceDir(b.key)
	files := map[string][]byte{
		"logo.png":      PNG(t, 64, 64, brandColor),
		"logo-mac.png":  PNG(t, 64, 64, brandColor),
		"firefox.ico":   []byte("ico"),
		"firefox64.ico": []byte("ico64"),
	}
	if !b.noSizes {
		for _, size := range []int{16, 22, 24, 32, 48, 64, 128, 256, 512} {
			// Odd sizes exercise the resize path
			src := size
			if size == 22 || size == 512 {
				src = size * 2
			}
			files[fmt.Sprintf("logo%d.png", size)] = PNG(t, src, src, brandColor)
		}
	}
	for rel, content := range b.extra {
		files[rel] = content
	}

	require.NoError(t, b.env.FS.MkdirAll(dir, 0755))
	for rel, content := range files {
		if b.skip[rel] {
			continue
		}
		WriteFile(t, b.env.FS, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

// BaseCSS is a base branding stylesheet using both hard-coded colors
const BaseCSS = "#background { color: #130829; }\n.overlay { background: hsla(235, 43%, 10%, .5); }\n"

// BaseBranding writes the vendored base branding. Extra entries are added
// as given; a nil value removes a default file.
func (env *TestEnvironment) BaseBranding(extra map[string][]byte) string {
	env.t.Helper()

	dir := env.Paths.BaseBrandingDir()
	files := map[string][]byte{
		"branding.nsi":               []byte("!define BrandFullName \"Nightly\"\n"),
		"configure.sh":               []byte("MOZ_APP_DISPLAYNAME=Nightly\n"),
		"content/aboutDialog.css":    []byte(BaseCSS),
		"content/about-wordmark.svg": []byte("<svg/>"),
		"locales/en-US/brand.ftl":    []byte("-brand-short-name = Nightly\n"),
		"pref/firefox-branding.js":   []byte("pref(\"old\", true);\n"),
		"default16.png":              []byte("old icon"),
	}
	for rel, content := range extra {
		if content == nil {
			delete(files, rel)
			continue
		}
		files[rel] = content
	}
	require.NoError(env.t, env.FS.MkdirAll(dir, 0755))
	for rel, content := range files {
		WriteFile(env.t, env.FS, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

// AcmeDefinition returns the resolved definition used by pipeline tests
func (env *TestEnvironment) AcmeDefinition() *brand.Definition {
	return &brand.Definition{
		Key:             "acme",
		Dir:             env.Paths.BrandSourceDir("acme"),
		FullName:        "Acme Browser",
		ShortName:       "Acme",
		ShorterName:     "Acme",
		GenericName:     "Acme",
		Vendor:          "Acme Corp",
		BackgroundColor: "#112233",
	}
}
