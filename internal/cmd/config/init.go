package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/config"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/output"
)

const configHeader = "# hostctl configuration\n# The access token is read from HOSTCTL_TOKEN and never stored here.\n\n"

func newInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new hostctl configuration file",
		Long: `Create a new hostctl configuration file with default values.

The configuration file is created at ~/.hostctl/config.yaml by default.
Use --config or HOSTCTL_CONFIG to choose a different location. Values passed
with --project and --site are written into the new file.

Examples:
  # Initialize configuration
  hostctl config init --project my-project --site my-site

  # Overwrite existing configuration
  hostctl config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInit(c, gc, force)
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return initCmd
}

func runInit(c *cobra.Command, gc *cmdtypes.GlobalConfig, force bool) error {
	path := gc.ConfigPath

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create config directory")
	}

	cfg := config.DefaultConfig()
	cfg.Project = gc.Project
	cfg.Site = gc.Site

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(configHeader), data...)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write "+path)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file created: "+path))
	return nil
}
