package channel

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/output"
)

func newListCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List a site's channels",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runList(c, gc)
		},
	}
}

func runList(c *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	format, err := cmdutil.ResolveFormat(gc.Output, output.FormatTable,
		output.FormatTable, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return err
	}
	if err := gc.RequireSite(); err != nil {
		return err
	}

	clients, err := cmdutil.NewClients(gc)
	if err != nil {
		return err
	}

	channels, err := clients.Hosting.ListChannels(c.Context(), gc.Project, gc.Site)
	if err != nil {
		var notFound *hosting.ChannelsNotFoundError
		if errors.As(err, &notFound) {
			return &oerrors.DetailError{
				Type:     "not found",
				Message:  fmt.Sprintf("site %q has no channels or does not exist", gc.Site),
				Location: gc.Site,
				Hint:     "Check --site and --project.",
				Cause:    err,
			}
		}
		return fmt.Errorf("listing channels: %w", err)
	}

	if format != output.FormatTable {
		return output.WriteDocument(c.OutOrStdout(), channels, format)
	}
	_, err = cmdutil.ChannelTable(channels).WriteTo(c.OutOrStdout())
	return err
}
