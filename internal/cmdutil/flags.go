// Package cmdutil provides shared command utilities for hostctl subcommands.
// It centralizes flag groups, backend client creation, hosting config loading
// and output formatting helpers.
package cmdutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/hosting"
)

// ChannelFlags holds the --channel flag shared by commands that target one
// channel (serving diff, release list, deploy).
type ChannelFlags struct {
	Channel string
}

// AddTo registers the channel flag on the given cobra command.
func (f *ChannelFlags) AddTo(cmd *cobra.Command, defaultChannel string) {
	cmd.Flags().StringVar(&f.Channel, "channel", defaultChannel,
		"Channel id")
}

// Validate checks the channel flag is set.
func (f *ChannelFlags) Validate() error {
	if f.Channel == "" {
		return oerrors.NewValidationError("--channel is required", "", "channel", "")
	}
	return nil
}

// ExpiresFlags holds the --expires flag for commands that set a channel TTL.
type ExpiresFlags struct {
	Expires string
}

// AddTo registers the expires flag on the given cobra command.
func (f *ExpiresFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Expires, "expires", "",
		"Channel lifetime, e.g. 12h or 7d (default 7d, max 30d)")
}

// TTL parses the flag value.
func (f *ExpiresFlags) TTL() (time.Duration, error) {
	return hosting.ParseTTL(f.Expires)
}

// SiteChannel is a SITE:CHANNEL argument.
type SiteChannel struct {
	Site    string
	Channel string
}

// String returns the SITE:CHANNEL form.
func (s SiteChannel) String() string {
	return s.Site + ":" + s.Channel
}

// ParseSiteChannel parses a SITE:CHANNEL argument. Both parts are required.
func ParseSiteChannel(arg string) (SiteChannel, error) {
	site, channel, ok := strings.Cut(arg, ":")
	if !ok || site == "" || channel == "" {
		return SiteChannel{}, oerrors.NewValidationError(
			fmt.Sprintf("invalid channel reference %q", arg), "", "",
			"Use the form SITE:CHANNEL, e.g. my-site:live")
	}
	return SiteChannel{Site: site, Channel: channel}, nil
}

// ResolveDir returns the directory argument, defaulting to the current
// directory.
func ResolveDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
