package channel

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/output"
)

func newExtendCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var ef cmdutil.ExpiresFlags

	c := &cobra.Command{
		Use:   "extend <channel>",
		Short: "Reset a preview channel's expiration",
		Long: `Reset the expiration of a preview channel to the given duration from now.

Examples:
  hostctl channel extend feature-x --expires 30d`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runExtend(c, gc, &ef, args[0])
		},
	}

	ef.AddTo(c)

	return c
}

func runExtend(c *cobra.Command, gc *cmdtypes.GlobalConfig, ef *cmdutil.ExpiresFlags, id string) error {
	if id == liveChannel {
		return oerrors.NewValidationError("the live channel does not expire", "", "channel", "")
	}
	ttl, err := ef.TTL()
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

	channel, err := clients.Hosting.UpdateChannelTTL(c.Context(), gc.Project, gc.Site, id, ttl)
	if err != nil {
		return fmt.Errorf("extending channel %s: %w", id, err)
	}
	output.ChannelLogger(gc.Site, id).Info("extended channel", "expires", channel.ExpireTime)

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Channel "+id+" extended"))
	return nil
}
