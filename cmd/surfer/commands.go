package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zen-browser/surfer/pkg/assets"
	"github.com/zen-browser/surfer/pkg/brand"
	"github.com/zen-browser/surfer/pkg/display"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/hashcache"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/overlay"
)

// EnvGenerateProfile turns on profile-guided optimization flags in the
// generated mozconfig when set to "1"
const EnvGenerateProfile = "ZEN_GA_GENERATE_PROFILE"

func renderer(cmd *cobra.Command) *display.Renderer {
	format := display.FormatText
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		format = display.DetectFormat(f)
	}
	return display.NewRenderer(cmd.OutOrStdout(), format)
}

// overlayRoots maps configured roots onto absolute project and engine paths
func (a *app) overlayRoots() []overlay.Root {
	roots := make([]overlay.Root, 0, len(a.config.Overlay.Roots))
	for _, r := range a.config.Overlay.Roots {
		roots = append(roots, overlay.Root{
			Source:      a.paths.Resolve(r.Source),
			Destination: filepath.Join(a.paths.EngineDir(), filepath.FromSlash(r.Destination)),
			Optional:    r.Optional,
		})
	}
	return roots
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "import",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cli.import")

			ownership, err := overlay.LoadOwnership(a.fs, a.paths.OwnershipManifestPath())
			if err != nil {
				return err
			}

			strategy := overlay.SelectStrategy(a.platform, a.config.BuildOptions.WindowsUseSymbolicLinks)
			logger.Info().
				Str("platform", string(a.platform)).
				Str("strategy", strategy.String()).
				Msg("Importing overlay")

			m := overlay.NewMaterializer(overlay.Options{
				FS:         a.fs,
				Strategy:   strategy,
				EngineRoot: a.paths.EngineDir(),
				Ignore:     overlay.NewIgnoreManifest(a.fs, a.paths.IgnoreManifestPath()),
				Ownership:  ownership,
				Workers:    a.config.Overlay.Workers,
			})
			scanner := overlay.NewScanner(a.config.Overlay.Exclude)

			report, importErr := m.Import(cmd.Context(), scanner, a.overlayRoots())
			if report != nil {
				if err := renderer(cmd).Import(report); err != nil {
					return err
				}
			}
			return importErr
		},
	}
}

func newPatchesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patches",
		Short:   MsgPatchesShort,
		GroupID: "core",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgPatchesListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			scanner := overlay.NewScanner(a.config.Overlay.Exclude)

			var groups []overlay.Group
			for _, root := range a.overlayRoots() {
				found, _, err := scanner.ScanRoot(a.fs, root)
				if err != nil {
					return err
				}
				groups = append(groups, found...)
			}
			return renderer(cmd).Groups(groups)
		},
	})

	return cmd
}

func newBrandCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "brand",
		Short:   MsgBrandShort,
		GroupID: "core",
	}

	resolver := func(a *app) *brand.Resolver {
		return brand.NewResolver(a.fs, a.paths.BrandingDir(), a.config)
	}

	// Completion failures are silent; the shell simply offers nothing
	brandKeys := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		a, err := loadApp(cmd, flags)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		keys, err := resolver(a).List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgBrandListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			keys, err := resolver(a).List()
			if err != nil {
				return err
			}
			return renderer(cmd).Brands(keys)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:               "show <brand>",
		Short:             MsgBrandShowShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: brandKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			def, err := resolver(a).Resolve(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(def); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to encode brand definition")
			}
			return enc.Close()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:               "apply <brand>",
		Short:             MsgBrandApplyShort,
		Long:              MsgBrandApplyLong,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: brandKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			def, err := resolver(a).Resolve(args[0])
			if err != nil {
				return err
			}

			opts := assets.Options{
				FS:              a.fs,
				Paths:           a.paths,
				Platform:        a.platform,
				Compat:          a.config.Compat,
				BuildMode:       a.config.BuildMode,
				UpdateHostname:  a.config.UpdateHostname,
				GenerateProfile: os.Getenv(EnvGenerateProfile) == "1",
				TemplateDir:     a.config.Assets.TemplateDir,
				Workers:         a.config.Assets.Workers,
			}

			// Validate before the cache database is created
			if _, err := assets.New(opts).Plan(def); err != nil {
				return err
			}

			var store *hashcache.SQLiteStore
			if a.config.Assets.HashCache {
				store, err = hashcache.OpenSQLite(a.paths.HashCachePath())
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
			}
			opts.Cache = hashcache.New(store)

			res, err := assets.New(opts).Apply(cmd.Context(), def)
			if err != nil {
				return err
			}
			return renderer(cmd).Apply(res)
		},
	})

	return cmd
}
