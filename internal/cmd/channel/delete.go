package channel

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/output"
)

func newDeleteCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "delete <channel>",
		Short: "Delete a preview channel",
		Long: `Delete a preview channel and remove its domain from the auth allowlist.

Examples:
  # Delete with a confirmation prompt
  hostctl channel delete feature-x

  # Skip confirmation prompt
  hostctl channel delete feature-x --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDelete(c, gc, args[0], force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return c
}

func runDelete(c *cobra.Command, gc *cmdtypes.GlobalConfig, id string, force bool) error {
	if id == liveChannel {
		return oerrors.NewValidationError("the live channel cannot be deleted", "", "channel", "")
	}
	if err := gc.RequireSite(); err != nil {
		return err
	}

	log := output.ChannelLogger(gc.Site, id)
	if !force && !confirmDelete(c.InOrStdin(), gc.Site, id) {
		log.Info("deletion canceled")
		return nil
	}

	clients, err := cmdutil.NewClients(gc)
	if err != nil {
		return err
	}

	channel, err := clients.Hosting.GetChannel(c.Context(), gc.Project, gc.Site, id)
	if err != nil {
		return fmt.Errorf("looking up channel %s: %w", id, err)
	}
	if channel == nil {
		return oerrors.NewNotFoundError(fmt.Sprintf("channel %q does not exist", id), gc.Site, "")
	}

	if err := clients.Hosting.DeleteChannel(c.Context(), gc.Project, gc.Site, id); err != nil {
		return fmt.Errorf("deleting channel %s: %w", id, err)
	}
	log.Info("deleted channel")

	if gc.Project != "" && channel.URL != "" {
		if _, err := clients.Auth.RemoveAuthDomain(c.Context(), gc.Project, channel.URL); err != nil {
			log.Warn("unable to remove channel domain from auth allowlist", "url", channel.URL, "err", err)
		}
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Channel "+id+" deleted"))
	return nil
}

// confirmDelete prompts the user for confirmation.
func confirmDelete(in io.Reader, site, id string) bool {
	output.Prompt(fmt.Sprintf("Delete channel %q of site %q? [y/N]: ", id, site))
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes"
	}
	return false
}
