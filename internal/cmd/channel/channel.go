// Package channel provides the `hostctl channel` command group.
package channel

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
)

// liveChannel is the production channel id.
const liveChannel = "live"

// NewChannelCmd creates the channel command group.
func NewChannelCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "channel",
		Short: "Channel operations",
		Long:  `Commands for listing, creating, extending and deleting a site's channels.`,
	}

	c.AddCommand(
		newListCmd(gc),
		newCreateCmd(gc),
		newExtendCmd(gc),
		newDeleteCmd(gc),
	)

	return c
}
