package serving

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/output"
	"github.com/opmodel/hostctl/internal/serving"
)

func newDiffCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var cf cmdutil.ChannelFlags

	c := &cobra.Command{
		Use:   "diff [file]",
		Short: "Compare a hosting config with a channel's released serving config",
		Long: `Compile a hosting config and compare it with the serving config of the
version currently released to a channel.

Examples:
  # Compare hosting.yaml with what is live
  hostctl serving diff --channel live

  # Compare a specific file with a preview channel
  hostctl serving diff ./hosting.json --channel pr-42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, gc, &cf, args)
		},
	}

	cf.AddTo(c, "live")

	return c
}

func runDiff(c *cobra.Command, gc *cmdtypes.GlobalConfig, cf *cmdutil.ChannelFlags, args []string) error {
	if err := cf.Validate(); err != nil {
		return err
	}
	if err := gc.RequireSite(); err != nil {
		return err
	}

	path, err := specPath(args)
	if err != nil {
		return err
	}
	desired, err := cmdutil.CompileFile(path)
	if err != nil {
		cmdutil.PrintValidationError("compile failed", err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	clients, err := cmdutil.NewClients(gc)
	if err != nil {
		return err
	}

	log := output.ChannelLogger(gc.Site, cf.Channel)
	channel, err := clients.Hosting.GetChannel(c.Context(), gc.Project, gc.Site, cf.Channel)
	if err != nil {
		return fmt.Errorf("looking up channel: %w", err)
	}
	if channel == nil {
		return oerrors.NewNotFoundError(fmt.Sprintf("channel %q does not exist", cf.Channel), gc.Site,
			"Run 'hostctl channel list' to see existing channels.")
	}

	var live serving.ServingConfig
	if channel.Release != nil && channel.Release.Version != nil && channel.Release.Version.Config != nil {
		live = *channel.Release.Version.Config
		log.Debug("comparing with released version", "version", channel.Release.Version.ID())
	} else {
		log.Debug("channel has no release, comparing with an empty config")
	}

	diff, err := serving.Diff(live, desired, output.IsTTY())
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("No differences"))
		return nil
	}
	fmt.Fprint(c.OutOrStdout(), diff)
	return nil
}
