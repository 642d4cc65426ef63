package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/zen-browser/surfer/internal/version"
	"github.com/zen-browser/surfer/pkg/config"
	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/paths"
	"github.com/zen-browser/surfer/pkg/types"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	verbosity int
	root      string
	platform  string
	compat    bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "surfer",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			logging.WithRunID(uuid.NewString())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&flags.platform, "platform", "", MsgFlagPlatform)
	rootCmd.PersistentFlags().BoolVar(&flags.compat, "compat", false, MsgFlagCompat)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(newImportCmd(flags))
	rootCmd.AddCommand(newPatchesCmd(flags))
	rootCmd.AddCommand(newBrandCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// app bundles what every command needs once the project is located
type app struct {
	paths    paths.Paths
	config   *config.Config
	fs       types.FS
	platform types.Platform
}

// loadApp resolves the project root and configuration. Flags only override
// configuration when they were given explicitly.
func loadApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	p, err := initPaths(flags.root)
	if err != nil {
		return nil, err
	}

	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("platform") {
		overrides["platform"] = flags.platform
	}
	if cmd.Flags().Changed("compat") {
		overrides["compat"] = flags.compat
	}

	cfg, err := config.Load(p.Root(), overrides)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	platform := types.HostPlatform()
	if cfg.Platform != "" {
		platform = types.PlatformFromGOOS(cfg.Platform)
	}

	return &app{
		paths:    p,
		config:   cfg,
		fs:       filesystem.NewOS(),
		platform: platform,
	}, nil
}

// initPaths initializes the paths instance and shows a warning if using fallback
func initPaths(root string) (paths.Paths, error) {
	p, err := paths.New(root)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	if p.UsedFallback() {
		fmt.Fprintf(os.Stderr, MsgFallbackWarning, p.Root())
	}

	return p, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		Args:    cobra.NoArgs,
		Hidden:  true,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "SURFER",
				Section: "1",
				Source:  "surfer " + version.Version,
				Manual:  "surfer manual",
			}
			if err := doc.GenMan(cmd.Root(), header, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to generate man page: %w", err)
			}
			return nil
		},
	}
}
