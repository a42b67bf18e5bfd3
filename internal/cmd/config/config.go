// Package config implements the config command group: init, vet and view.
package config

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
)

// NewConfigCmd returns `hostctl config`.
func NewConfigCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Manage the hostctl configuration file",
		Long: `Create, validate and inspect ~/.hostctl/config.yaml.

Project, site and backend settings are read from the file, then from
HOSTCTL_* environment variables, then from flags.`,
	}
	c.AddCommand(newInitCmd(gc), newVetCmd(gc), newViewCmd(gc))
	return c
}
