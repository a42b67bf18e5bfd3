package serving

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/output"
)

func newCompileCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a hosting config into a serving config",
		Long: `Compile a hosting config (JSON or YAML) into the serving config that a
version is created with.

Arguments:
  file    Hosting config file (default: hosting.yaml, hosting.yml or
          hosting.json in the current directory)

Examples:
  # Compile hosting.yaml and print YAML
  hostctl serving compile

  # Print the JSON sent to the backend
  hostctl serving compile ./hosting.json -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCompile(c, gc, args)
		},
	}
}

func runCompile(c *cobra.Command, gc *cmdtypes.GlobalConfig, args []string) error {
	format, err := cmdutil.ResolveFormat(gc.Output, output.FormatYAML, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return err
	}

	path, err := specPath(args)
	if err != nil {
		return err
	}

	cfg, err := cmdutil.CompileFile(path)
	if err != nil {
		cmdutil.PrintValidationError("compile failed", err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	return output.WriteDocument(c.OutOrStdout(), cfg, format)
}
