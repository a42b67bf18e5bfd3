// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmd/auth"
	"github.com/opmodel/hostctl/internal/cmd/channel"
	configcmd "github.com/opmodel/hostctl/internal/cmd/config"
	"github.com/opmodel/hostctl/internal/cmd/release"
	servingcmd "github.com/opmodel/hostctl/internal/cmd/serving"
	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/config"
	"github.com/opmodel/hostctl/internal/output"
)

// rootFlags holds the raw values of the persistent flags.
type rootFlags struct {
	config     string
	project    string
	site       string
	output     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for hostctl.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	gc := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "hostctl",
		Short: "Static hosting release manager",
		Long: `hostctl manages releases of a static hosting site: it compiles serving
configs, hashes site content, deploys versions to live and preview channels,
clones versions between channels and keeps the auth domain allowlist clean.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, &flags, gc)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: HOSTCTL_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flags.project, "project", "", "Project id (env: HOSTCTL_PROJECT)")
	rootCmd.PersistentFlags().StringVar(&flags.site, "site", "", "Site id (env: HOSTCTL_SITE)")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "Output format: yaml, json, table")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewVersionCmd(gc),
		configcmd.NewConfigCmd(gc),
		servingcmd.NewServingCmd(gc),
		channel.NewChannelCmd(gc),
		release.NewReleaseCmd(gc),
		auth.NewAuthCmd(gc),
		NewCloneCmd(gc),
		NewDeployCmd(gc),
		NewHashCmd(gc),
	)

	return rootCmd
}

// initializeGlobals loads configuration, resolves project and site, and sets
// up logging.
func initializeGlobals(cmd *cobra.Command, flags *rootFlags, gc *cmdtypes.GlobalConfig) error {
	configPath, err := config.ResolveConfigPath(flags.config)
	if err != nil {
		return err
	}
	expanded, err := config.ExpandPath(configPath.Value)
	if err != nil {
		return err
	}

	cfg, loadErr := config.NewLoader().LoadWithDefaults(expanded)
	if loadErr != nil {
		// Commands that need no backend still work; config vet reports it.
		cfg = config.DefaultConfig()
	}

	project := config.ResolveValue(config.ResolveOptions{
		Key:         "project",
		FlagValue:   flags.project,
		EnvVar:      "HOSTCTL_PROJECT",
		ConfigValue: cfg.Project,
	})
	site := config.ResolveValue(config.ResolveOptions{
		Key:         "site",
		FlagValue:   flags.site,
		EnvVar:      "HOSTCTL_SITE",
		ConfigValue: cfg.Site,
	})

	gc.Config = cfg
	gc.ConfigPath = expanded
	gc.Project = project.Value
	gc.Site = site.Value
	gc.Output = flags.output
	gc.Verbose = flags.verbose
	gc.Resolved = []config.ResolvedValue{configPath, project, site}

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if loadErr != nil {
		output.Debug("config load error", "path", expanded, "error", loadErr)
	}
	if flags.verbose {
		config.LogResolvedValues(gc.Resolved)
	}

	return nil
}
