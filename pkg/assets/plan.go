package assets

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/zen-browser/surfer/pkg/brand"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/fragments"
)

// InstallerScriptName is the installer defines file inherited from the base
// branding and regenerated for every brand
const InstallerScriptName = fragments.InstallerScriptName

// Source artwork names inside a brand directory
const (
	LogoName    = "logo.png"
	MacLogoName = "logo-mac.png"
	contentDir  = "content"
)

// IconJob renders one source image to one square output
type IconJob struct {
	Kind   ArtifactKind
	Source string
	// Target is relative to the output directory
	Target string
	Size   int
}

// CopyJob copies one file into the output directory
type CopyJob struct {
	Source string
	Target string
}

// Plan is everything Apply will do for one brand, computed without writing
type Plan struct {
	Brand     *brand.Definition
	OutputDir string

	Icons   []IconJob
	MacIcon bool

	Locales []LocaleTemplate

	// Inherited lists base branding files to copy, relative to the base
	// directory, excluding every path a generator owns
	Inherited []string
	// InstallerScript is the single inherited installer script path
	InstallerScript string

	Optional []CopyJob

	// AppIni is empty when the vendored tree has no descriptor template
	AppIni string
}

// Generated returns the output paths owned by generators, sorted
func (p *Plan) Generated() []string {
	var out []string
	for _, job := range p.Icons {
		out = append(out, job.Target)
	}
	if p.MacIcon {
		out = append(out, MacIconName)
	}
	for _, t := range p.Locales {
		out = append(out, t.Path)
	}
	out = append(out, fragments.ProfilePrefsPath)
	return out
}

// Plan validates def against the brand directory, templates and base
// branding. It never writes.
func (p *Pipeline) Plan(def *brand.Definition) (*Plan, error) {
	plan := &Plan{
		Brand:     def,
		OutputDir: p.paths.BrandOutputDir(def.Key),
		MacIcon:   p.platform.IsMacOS(),
	}

	if err := p.planIcons(plan); err != nil {
		return nil, err
	}

	templates, err := loadTemplates(p.fs, p.templateDir())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrAssetGeneration, "failed to read locale templates")
	}
	plan.Locales = templates

	if err := p.planInherited(plan); err != nil {
		return nil, err
	}
	if err := p.planOptional(plan); err != nil {
		return nil, err
	}

	if appIni := p.paths.AppIniPath(); filesystem.Exists(p.fs, appIni) {
		plan.AppIni = appIni
	}
	return plan, nil
}

func (p *Pipeline) planIcons(plan *Plan) error {
	dir := plan.Brand.Dir
	var missing []string
	need := func(name string) string {
		src := filepath.Join(dir, name)
		if !filesystem.Exists(p.fs, src) {
			missing = append(missing, name)
		}
		return src
	}

	for _, size := range IconSizes {
		plan.Icons = append(plan.Icons, IconJob{
			Kind:   RasterIcon,
			Source: need(fmt.Sprintf("logo%d.png", size)),
			Target: fmt.Sprintf("default%d.png", size),
			Size:   size,
		})
	}

	logo := need(LogoName)
	plan.Icons = append(plan.Icons,
		IconJob{Kind: AboutLogo, Source: logo, Target: path.Join(contentDir, "about-logo.png"), Size: AboutLogoSize},
		IconJob{Kind: AboutLogo, Source: logo, Target: path.Join(contentDir, "about-logo@2x.png"), Size: AboutLogo2xSize},
	)
	if plan.MacIcon {
		need(MacLogoName)
	}

	if len(missing) > 0 {
		return errors.AssetGenerationError(plan.Brand.Key, missing)
	}
	return nil
}

func (p *Pipeline) planInherited(plan *Plan) error {
	base := p.paths.BaseBrandingDir()
	var files []string
	if filesystem.IsDir(p.fs, base) {
		var err error
		files, err = filesystem.ListFiles(p.fs, base)
		if err != nil {
			return errors.Wrapf(err, errors.ErrAssetGeneration, "failed to read base branding")
		}
	}

	generated := make(map[string]bool)
	for _, rel := range plan.Generated() {
		generated[rel] = true
	}

	var scripts []string
	for _, rel := range files {
		if generated[rel] {
			continue
		}
		plan.Inherited = append(plan.Inherited, rel)
		if path.Base(rel) == InstallerScriptName {
			scripts = append(scripts, rel)
		}
	}

	if len(scripts) != 1 {
		return errors.TemplateConsistencyError(InstallerScriptName, scripts).
			WithDetail(errors.DetailPath, base).
			WithDetail(errors.DetailBrand, plan.Brand.Key)
	}
	plan.InstallerScript = scripts[0]
	return nil
}

// planOptional copies every top-level brand file and every file directly
// under content/. A brand without content/ contributes top-level files only.
func (p *Pipeline) planOptional(plan *Plan) error {
	dir := plan.Brand.Dir
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAssetGeneration, "failed to read brand directory %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.Contains(entry.Name(), contentDir) {
			continue
		}
		plan.Optional = append(plan.Optional, CopyJob{
			Source: filepath.Join(dir, entry.Name()),
			Target: entry.Name(),
		})
	}

	content := filepath.Join(dir, contentDir)
	if !filesystem.IsDir(p.fs, content) {
		return nil
	}
	entries, err = p.fs.ReadDir(content)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAssetGeneration, "failed to read %s", content)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		plan.Optional = append(plan.Optional, CopyJob{
			Source: filepath.Join(content, entry.Name()),
			Target: path.Join(contentDir, entry.Name()),
		})
	}
	return nil
}
