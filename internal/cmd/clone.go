package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	"github.com/opmodel/hostctl/internal/deploy"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/output"
)

// NewCloneCmd creates the clone command.
func NewCloneCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var ef cmdutil.ExpiresFlags

	c := &cobra.Command{
		Use:   "clone <source-site>:<source-channel> <target-site>:<target-channel>",
		Short: "Copy the released version of one channel to another",
		Long: `Clone the version currently released to a source channel into the target
site and release it to the target channel. A missing target preview channel is
created and its domain is authorized for sign-in.

The clone runs as a long-running operation and is bounded by 10 minutes.

Examples:
  # Promote a preview to production
  hostctl clone my-site:pr-42 my-site:live

  # Copy production of one site into a staging channel of another
  hostctl clone my-site:live my-staging-site:qa --expires 3d`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runClone(c, gc, &ef, args)
		},
	}

	ef.AddTo(c)

	return c
}

func runClone(c *cobra.Command, gc *cmdtypes.GlobalConfig, ef *cmdutil.ExpiresFlags, args []string) error {
	src, err := cmdutil.ParseSiteChannel(args[0])
	if err != nil {
		return err
	}
	dst, err := cmdutil.ParseSiteChannel(args[1])
	if err != nil {
		return err
	}
	if src == dst {
		return oerrors.NewValidationError("source and target channel are the same", "", "", "")
	}
	ttl, err := ef.TTL()
	if err != nil {
		return err
	}

	clients, err := cmdutil.NewClients(gc)
	if err != nil {
		return err
	}
	ctx := c.Context()
	log := output.ChannelLogger(dst.Site, dst.Channel)

	source, err := clients.Hosting.GetChannel(ctx, gc.Project, src.Site, src.Channel)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", src, err)
	}
	if source == nil {
		return oerrors.NewNotFoundError(fmt.Sprintf("channel %s does not exist", src), "", "")
	}
	if source.Release == nil || source.Release.Version == nil || source.Release.Version.Name == "" {
		return oerrors.NewNotFoundError(fmt.Sprintf("channel %s has no release to clone", src), "",
			"Deploy to the source channel first.")
	}

	target, err := clients.Hosting.GetChannel(ctx, gc.Project, dst.Site, dst.Channel)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", dst, err)
	}
	if target == nil {
		if dst.Channel == deploy.LiveChannel {
			return oerrors.NewNotFoundError(fmt.Sprintf("site %s has no live channel", dst.Site), "", "")
		}
		target, err = clients.Hosting.CreateChannel(ctx, gc.Project, dst.Site, dst.Channel, ttl)
		if err != nil {
			return fmt.Errorf("creating channel %s: %w", dst, err)
		}
		log.Info("created channel", "url", target.URL)
		if gc.Project != "" && target.URL != "" {
			if _, err := clients.Auth.AddAuthDomain(ctx, gc.Project, target.URL); err != nil {
				log.Warn("unable to authorize channel domain", "url", target.URL, "err", err)
			}
		}
	}

	sourceVersion := source.Release.Version.Name
	version, err := output.Await(ctx, fmt.Sprintf("Cloning %s to %s...", src, dst),
		func(ctx context.Context) (*hosting.Version, error) {
			return clients.Hosting.CloneVersion(ctx, dst.Site, sourceVersion, true)
		})
	if err != nil {
		return fmt.Errorf("cloning %s: %w", sourceVersion, err)
	}
	log.Debug("cloned version", "source", sourceVersion, "version", version.Name)

	if _, err := clients.Hosting.CreateRelease(ctx, dst.Site, dst.Channel, version.Name); err != nil {
		return fmt.Errorf("releasing %s: %w", version.Name, err)
	}
	log.Info("released version", "version", version.ID())

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(fmt.Sprintf("Cloned %s to %s: %s", src, dst, target.URL)))
	return nil
}
