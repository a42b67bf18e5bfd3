// Package serving provides the `hostctl serving` command group.
package serving

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	oerrors "github.com/opmodel/hostctl/internal/errors"
)

// NewServingCmd creates the serving command group.
func NewServingCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "serving",
		Short: "Serving config operations",
		Long:  `Commands for compiling hosting configs into serving configs and comparing them with released versions.`,
	}

	c.AddCommand(
		newCompileCmd(gc),
		newDiffCmd(gc),
	)

	return c
}

// specPath returns the hosting config file argument, falling back to a
// default file in the current directory.
func specPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if path := cmdutil.FindSpecFile("."); path != "" {
		return path, nil
	}
	return "", oerrors.NewNotFoundError("no hosting config found in the current directory", ".",
		"Pass a file or create hosting.yaml.")
}
