// Package release provides the `hostctl release` command group.
package release

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	"github.com/opmodel/hostctl/internal/output"
)

// NewReleaseCmd creates the release command group.
func NewReleaseCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "release",
		Short: "Release history",
		Long:  `Commands for inspecting the releases of a channel.`,
	}

	c.AddCommand(newListCmd(gc))

	return c
}

func newListCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var cf cmdutil.ChannelFlags

	c := &cobra.Command{
		Use:   "list",
		Short: "List the releases of a channel, newest first",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runList(c, gc, &cf)
		},
	}

	cf.AddTo(c, "live")

	return c
}

func runList(c *cobra.Command, gc *cmdtypes.GlobalConfig, cf *cmdutil.ChannelFlags) error {
	format, err := cmdutil.ResolveFormat(gc.Output, output.FormatTable,
		output.FormatTable, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return err
	}
	if err := cf.Validate(); err != nil {
		return err
	}
	if err := gc.RequireSite(); err != nil {
		return err
	}

	clients, err := cmdutil.NewClients(gc)
	if err != nil {
		return err
	}

	releases, err := clients.Hosting.ListReleases(c.Context(), gc.Site, cf.Channel)
	if err != nil {
		return fmt.Errorf("listing releases of %s:%s: %w", gc.Site, cf.Channel, err)
	}
	output.ChannelLogger(gc.Site, cf.Channel).Debug("listed releases", "count", len(releases))

	if format != output.FormatTable {
		return output.WriteDocument(c.OutOrStdout(), releases, format)
	}
	_, err = cmdutil.ReleaseTable(releases).WriteTo(c.OutOrStdout())
	return err
}
