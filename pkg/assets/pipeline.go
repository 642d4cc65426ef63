package assets

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zen-browser/surfer/pkg/brand"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/fragments"
	"github.com/zen-browser/surfer/pkg/hashcache"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/paths"
	"github.com/zen-browser/surfer/pkg/synthfs"
	"github.com/zen-browser/surfer/pkg/types"
)

// DefaultWorkers bounds concurrent icon rendering
const DefaultWorkers = 4

// Options configures a Pipeline
type Options struct {
	FS       types.FS
	Paths    paths.Paths
	Platform types.Platform
	// Compat selects the generic update channel on non-macOS platforms
	Compat bool

	// BuildMode, UpdateHostname and GenerateProfile feed the mozconfig
	BuildMode       string
	UpdateHostname  string
	GenerateProfile bool

	// TemplateDir overrides the locale template directory. Relative paths
	// are resolved against the project root.
	TemplateDir string

	// Cache receives the logo hash; nil uses a fresh in-memory cache
	Cache   *hashcache.Cache
	Workers int
}

// Pipeline turns brand definitions into branding directories
type Pipeline struct {
	logger           zerolog.Logger
	fs               types.FS
	paths            paths.Paths
	platform         types.Platform
	compat           bool
	buildMode        string
	updateHostname   string
	generateProfile  bool
	templateOverride string
	cache            *hashcache.Cache
	workers          int
}

// New creates a pipeline
func New(opts Options) *Pipeline {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	cache := opts.Cache
	if cache == nil {
		cache = hashcache.New(nil)
	}
	platform := opts.Platform
	if platform == "" {
		platform = types.HostPlatform()
	}
	return &Pipeline{
		logger:           logging.GetLogger("assets.pipeline"),
		fs:               opts.FS,
		paths:            opts.Paths,
		platform:         platform,
		compat:           opts.Compat,
		buildMode:        opts.BuildMode,
		updateHostname:   opts.UpdateHostname,
		generateProfile:  opts.GenerateProfile,
		templateOverride: opts.TemplateDir,
		cache:            cache,
		workers:          workers,
	}
}

func (p *Pipeline) templateDir() string {
	if p.templateOverride != "" {
		return p.paths.Resolve(p.templateOverride)
	}
	if dir := filepath.Join(p.paths.ConfigsDir(), LocaleTemplateDirName); filesystem.IsDir(p.fs, dir) {
		return dir
	}
	return ""
}

// Apply materializes def into its branding directory. Validation failures
// return before anything is written.
func (p *Pipeline) Apply(ctx context.Context, def *brand.Definition) (*Result, error) {
	done := logging.LogOperationStart(p.logger, "brand-apply")
	defer done()

	plan, err := p.Plan(def)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Key: def.Key, OutputDir: plan.OutputDir}
	logger := p.logger.With().Str("brand", def.Key).Str("output", plan.OutputDir).Logger()

	if err := p.fs.RemoveAll(plan.OutputDir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to clear %s", plan.OutputDir)
	}
	if err := p.fs.MkdirAll(plan.OutputDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", plan.OutputDir)
	}

	steps := []struct {
		name string
		run  func(context.Context, *Plan, *Result) error
	}{
		{"icons", p.renderIcons},
		{"mac-icon", p.renderMacIcon},
		{"logo-hash", p.recordLogo},
		{"locales", p.writeLocales},
		{"inherited", p.mergeInherited},
		{"optional-icons", p.copyOptional},
		{"update-url", p.patchUpdateURL},
		{"mozconfig", p.writeMozconfig},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		logger.Debug().Str("step", step.name).Msg("Running asset step")
		if err := step.run(ctx, plan, res); err != nil {
			if errors.GetErrorCode(err) != errors.ErrUnknown {
				return res, err
			}
			return res, errors.Wrapf(err, errors.ErrAssetGeneration, "%s failed for brand %s", step.name, def.Key)
		}
	}

	logger.Info().
		Int("artifacts", len(res.Artifacts)).
		Int("updateUrls", res.UpdateURLMatches).
		Msg("Applied brand")
	return res, nil
}

func (p *Pipeline) output(plan *Plan, rel string) string {
	return filepath.Join(plan.OutputDir, filepath.FromSlash(rel))
}

func (p *Pipeline) writeOutput(plan *Plan, res *Result, kind ArtifactKind, rel string, data []byte) error {
	target := p.output(plan, rel)
	if err := p.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", rel)
	}
	if err := p.fs.WriteFile(target, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", rel)
	}
	res.add(kind, rel, len(data))
	return nil
}

func (p *Pipeline) renderIcons(ctx context.Context, plan *Plan, res *Result) error {
	rendered := make([][]byte, len(plan.Icons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, job := range plan.Icons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := p.fs.ReadFile(job.Source)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", job.Source)
			}
			data, err := ScalePNG(src, job.Size)
			if err != nil {
				return errors.Wrapf(err, errors.ErrAssetGeneration, "failed to render %s from %s", job.Target, job.Source)
			}
			target := p.output(plan, job.Target)
			if err := p.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := p.fs.WriteFile(target, data, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", job.Target)
			}
			rendered[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, job := range plan.Icons {
		res.add(job.Kind, job.Target, len(rendered[i]))
	}
	return nil
}

// renderMacIcon renders every frame into the scratch iconset, then packs
// the iconset into the container.
func (p *Pipeline) renderMacIcon(ctx context.Context, plan *Plan, res *Result) error {
	if !plan.MacIcon {
		return nil
	}

	iconset := filepath.Join(p.paths.ScratchDir(), MacIconsetDirName)
	if err := p.fs.RemoveAll(iconset); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to clear %s", iconset)
	}
	if err := p.fs.MkdirAll(iconset, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", iconset)
	}

	srcPath := filepath.Join(plan.Brand.Dir, MacLogoName)
	data, err := p.fs.ReadFile(srcPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", srcPath)
	}
	src, err := decodePNG(data)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAssetGeneration, "failed to decode %s", srcPath)
	}

	frames := MacIconFrames()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, frame := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			encoded, err := RenderFrame(src, frame)
			if err != nil {
				return err
			}
			return p.fs.WriteFile(filepath.Join(iconset, frame.Name), encoded, 0644)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	images := make([][]byte, len(frames))
	for i, frame := range frames {
		images[i], err = p.fs.ReadFile(filepath.Join(iconset, frame.Name))
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to read frame %s", frame.Name)
		}
	}
	icns, err := EncodeICNS(frames, images)
	if err != nil {
		return err
	}
	return p.writeOutput(plan, res, PlatformIconContainer, MacIconName, icns)
}

func (p *Pipeline) recordLogo(_ context.Context, plan *Plan, res *Result) error {
	hash, added, err := p.cache.Add(p.fs, filepath.Join(plan.Brand.Dir, LogoName))
	if err != nil {
		return err
	}
	res.LogoHash = hash
	res.LogoHashNew = added
	return nil
}

func (p *Pipeline) writeLocales(_ context.Context, plan *Plan, res *Result) error {
	tokens := plan.Brand.Tokens()
	for _, t := range plan.Locales {
		if err := p.writeOutput(plan, res, LocalizedTemplate, t.Path, Expand(t.Content, tokens)); err != nil {
			return err
		}
	}
	return nil
}

// mergeInherited copies the base branding into the output as one batch.
// Stylesheets are themed, the installer script is regenerated and the
// profile preferences are always written.
func (p *Pipeline) mergeInherited(ctx context.Context, plan *Plan, res *Result) error {
	base := p.paths.BaseBrandingDir()
	color := plan.Brand.BackgroundColor

	batch := synthfs.NewBatch("inherited-branding", p.fs)
	for _, rel := range plan.Inherited {
		source := filepath.Join(base, filepath.FromSlash(rel))
		target := p.output(plan, rel)
		switch {
		case rel == plan.InstallerScript:
			batch.Write(target, fragments.InstallerDefines(plan.Brand))
		case strings.Contains(path.Ext(rel), "css"):
			batch.CopyTransformed(source, target, func(content []byte) ([]byte, error) {
				return ThemeCSS(content, color), nil
			})
		default:
			batch.Copy(source, target)
		}
	}
	batch.Write(p.output(plan, fragments.ProfilePrefsPath), fragments.ProfilePrefs())

	if err := batch.Run(ctx); err != nil {
		return err
	}

	for _, step := range batch.Steps() {
		rel, _ := filepath.Rel(plan.OutputDir, step.Target)
		rel = filepath.ToSlash(rel)
		kind := InheritedFile
		switch {
		case rel == plan.InstallerScript:
			kind = InstallerDefine
		case rel == fragments.ProfilePrefsPath:
			kind = ProfilePref
		case step.Transform != nil:
			kind = ThemedCSS
		}
		res.add(kind, rel, p.sizeOf(step.Target))
	}
	return nil
}

func (p *Pipeline) copyOptional(ctx context.Context, plan *Plan, res *Result) error {
	if len(plan.Optional) == 0 {
		return nil
	}
	batch := synthfs.NewBatch("optional-icons", p.fs)
	for _, job := range plan.Optional {
		batch.Copy(job.Source, p.output(plan, job.Target))
	}
	if err := batch.Run(ctx); err != nil {
		return err
	}
	for _, job := range plan.Optional {
		p.logger.Debug().Str("icon", job.Target).Msg("Copied optional icon")
		res.add(OptionalIcon, job.Target, p.sizeOf(p.output(plan, job.Target)))
	}
	return nil
}

func (p *Pipeline) patchUpdateURL(_ context.Context, plan *Plan, res *Result) error {
	if plan.AppIni == "" {
		p.logger.Warn().Str("path", p.paths.AppIniPath()).Msg("No application descriptor template, skipping update URL patch")
		return nil
	}
	contents, err := p.fs.ReadFile(plan.AppIni)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", plan.AppIni)
	}
	patched, n := fragments.PatchUpdateURL(contents, p.compat, p.platform)
	if err := p.fs.WriteFile(plan.AppIni, patched, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", plan.AppIni)
	}
	res.AppIni = plan.AppIni
	res.UpdateURLMatches = n
	return nil
}

func (p *Pipeline) writeMozconfig(_ context.Context, plan *Plan, res *Result) error {
	target := p.paths.MozconfigPath()
	content := fragments.Mozconfig(fragments.MozconfigOptions{
		Brand:           plan.Brand.Key,
		BuildMode:       p.buildMode,
		Platform:        p.platform,
		UpdateHostname:  p.updateHostname,
		GenerateProfile: p.generateProfile,
	})
	if err := p.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(target))
	}
	if err := p.fs.WriteFile(target, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
	}
	res.Mozconfig = target
	return nil
}

func (p *Pipeline) sizeOf(name string) int {
	info, err := p.fs.Stat(name)
	if err != nil {
		return 0
	}
	return int(info.Size())
}
