// Package auth provides the `hostctl auth` command group.
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	"github.com/opmodel/hostctl/internal/output"
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "auth",
		Short: "Auth domain allowlist operations",
		Long:  `Commands for keeping the project's authorized sign-in domains in sync with the site's channels.`,
	}

	c.AddCommand(newCleanCmd(gc))

	return c
}

func newCleanCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var dryRun bool

	c := &cobra.Command{
		Use:   "clean",
		Short: "Remove authorized domains of deleted preview channels",
		Long: `Remove authorized domains that belong to preview channels of the site which
no longer exist. Domains of existing channels, the platform default domain
and unrelated domains are kept.

Examples:
  # Show what would be removed
  hostctl auth clean --dry-run

  # Remove stale domains
  hostctl auth clean`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runClean(c, gc, dryRun)
		},
	}

	c.Flags().BoolVar(&dryRun, "dry-run", false, "Show decisions without updating the allowlist")

	return c
}

func runClean(c *cobra.Command, gc *cmdtypes.GlobalConfig, dryRun bool) error {
	format, err := cmdutil.ResolveFormat(gc.Output, output.FormatTable,
		output.FormatTable, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return err
	}
	if err := gc.RequireProject(); err != nil {
		return err
	}
	if err := gc.RequireSite(); err != nil {
		return err
	}

	clients, err := cmdutil.NewClients(gc)
	if err != nil {
		return err
	}

	decisions, err := clients.Auth.Classify(c.Context(), gc.Project, gc.Site)
	if err != nil {
		return fmt.Errorf("classifying authorized domains: %w", err)
	}

	var stale int
	for _, d := range decisions {
		if !d.Keep {
			stale++
		}
	}

	if format != output.FormatTable {
		if err := output.WriteDocument(c.OutOrStdout(), decisions, format); err != nil {
			return err
		}
	} else {
		for _, d := range decisions {
			fmt.Fprintln(c.OutOrStdout(), cmdutil.DecisionLine(d))
		}
	}

	switch {
	case stale == 0:
		output.Info("no stale authorized domains")
		return nil
	case dryRun:
		output.Info(fmt.Sprintf("dry run: %d authorized domain(s) would be removed", stale))
		return nil
	}

	kept, err := clients.Auth.CleanAuthState(c.Context(), gc.Project, gc.Site)
	if err != nil {
		return fmt.Errorf("updating authorized domains: %w", err)
	}
	output.Info(fmt.Sprintf("removed %d authorized domain(s)", stale), "remaining", len(kept))
	return nil
}

