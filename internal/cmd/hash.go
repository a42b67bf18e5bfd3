package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	"github.com/opmodel/hostctl/internal/deploy"
	"github.com/opmodel/hostctl/internal/output"
)

// NewHashCmd creates the hash command.
func NewHashCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		nameFlag        string
		concurrencyFlag int
	)

	c := &cobra.Command{
		Use:   "hash [dir]",
		Short: "Hash site files using the local hash cache",
		Long: `Compute SHA-256 hashes for every file under a site directory.

Hashes are cached in <dir>/.hostctl/hosting.<name>.cache keyed by file
modification time, so unchanged files are not re-read on the next run.

Arguments:
  dir    Site directory (default: current directory)

Examples:
  # Hash the public directory and list changed files
  hostctl hash ./public

  # Use a separate cache per target
  hostctl hash ./public --name staging -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runHash(c, gc, cmdutil.ResolveDir(args), nameFlag, concurrencyFlag)
		},
	}

	c.Flags().StringVar(&nameFlag, "name", deploy.DefaultCacheName, "Hash cache name")
	c.Flags().IntVar(&concurrencyFlag, "concurrency", runtime.NumCPU(), "Files hashed in parallel")

	return c
}

func runHash(c *cobra.Command, gc *cmdtypes.GlobalConfig, dir, name string, concurrency int) error {
	format, err := cmdutil.ResolveFormat(gc.Output, output.FormatTable,
		output.FormatTable, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return err
	}

	plan, err := deploy.Plan(c.Context(), deploy.PlanOptions{Root: dir, CacheName: name, Concurrency: concurrency})
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		return output.WriteDocument(c.OutOrStdout(), plan.Files, format)
	}

	for _, fh := range plan.Files {
		status := output.StatusCached
		if !fh.Cached {
			status = output.StatusHashed
		}
		if fh.Cached && !gc.Verbose {
			continue
		}
		fmt.Fprintln(c.OutOrStdout(), output.FormatItemLine("file", fh.Path, status))
	}
	output.Info(fmt.Sprintf("hashed %d file(s), %d changed", len(plan.Files), plan.Changed), "cache", plan.CacheStatus)
	return nil
}
