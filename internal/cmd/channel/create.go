package channel

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/output"
)

func newCreateCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var ef cmdutil.ExpiresFlags

	c := &cobra.Command{
		Use:   "create <channel>",
		Short: "Create a preview channel",
		Long: `Create a preview channel and authorize its domain for sign-in.

Channel ids derived from branch names are normalized: / : _ and # become -.

Examples:
  # Create a channel that expires in a week
  hostctl channel create feature-x

  # Create a channel that expires in 12 hours
  hostctl channel create feature/x --expires 12h`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCreate(c, gc, &ef, args[0])
		},
	}

	ef.AddTo(c)

	return c
}

func runCreate(c *cobra.Command, gc *cmdtypes.GlobalConfig, ef *cmdutil.ExpiresFlags, arg string) error {
	id := hosting.NormalizeName(arg)
	if id == liveChannel {
		return oerrors.NewValidationError("the live channel always exists", "", "channel", "")
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

	log := output.ChannelLogger(gc.Site, id)
	channel, err := clients.Hosting.CreateChannel(c.Context(), gc.Project, gc.Site, id, ttl)
	if err != nil {
		return fmt.Errorf("creating channel %s: %w", id, err)
	}
	log.Info("created channel", "url", channel.URL, "expires", channel.ExpireTime)

	if gc.Project != "" && channel.URL != "" {
		if _, err := clients.Auth.AddAuthDomain(c.Context(), gc.Project, channel.URL); err != nil {
			log.Warn("unable to authorize channel domain", "url", channel.URL, "err", err)
		}
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Channel "+id+" created: "+channel.URL))
	return nil
}
