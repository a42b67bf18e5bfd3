package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	"github.com/opmodel/hostctl/internal/output"
	"github.com/opmodel/hostctl/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show hostctl version information.

Displays:
  - hostctl version, commit, and build date
  - CUE SDK version (embedded in CLI)`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVersion(c, gc)
		},
	}
}

func runVersion(c *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	info := version.Get()

	format, err := cmdutil.ResolveFormat(gc.Output, output.FormatTable,
		output.FormatTable, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.WriteDocument(c.OutOrStdout(), info, format)
	}

	_, err = fmt.Fprintln(c.OutOrStdout(), info.String())
	return err
}
