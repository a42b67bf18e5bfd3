package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	"github.com/opmodel/hostctl/internal/deploy"
	"github.com/opmodel/hostctl/internal/hashcache"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/output"
	"github.com/opmodel/hostctl/internal/serving"
)

// NewDeployCmd creates the deploy command.
func NewDeployCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		cf cmdutil.ChannelFlags
		ef cmdutil.ExpiresFlags

		specFlag        string
		nameFlag        string
		concurrencyFlag int
		messageFlag     string
	)

	c := &cobra.Command{
		Use:   "deploy [dir]",
		Short: "Deploy a site directory to a channel",
		Long: `Deploy a site directory to the live channel or a preview channel.

The deploy compiles the hosting config, hashes the site files against the
local hash cache, creates a version with the serving config, finalizes it and
releases it to the channel. A missing preview channel is created and its
domain is authorized for sign-in. File content upload is handled outside
hostctl; files whose hash changed are reported at debug level.

Arguments:
  dir    Site directory (default: current directory)

Examples:
  # Deploy ./public to production
  hostctl deploy ./public

  # Deploy to a preview channel named after the branch
  hostctl deploy ./public --channel feature/login --expires 3d

  # Use an explicit hosting config
  hostctl deploy ./public --hosting-config ./hosting.prod.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDeploy(c, gc, deployArgs{
				dir:         cmdutil.ResolveDir(args),
				channel:     cf.Channel,
				expires:     &ef,
				specFile:    specFlag,
				cacheName:   nameFlag,
				concurrency: concurrencyFlag,
				message:     messageFlag,
			})
		},
	}

	cf.AddTo(c, deploy.LiveChannel)
	ef.AddTo(c)
	c.Flags().StringVar(&specFlag, "hosting-config", "",
		"Hosting config file (default: hosting.yaml, hosting.yml or hosting.json in dir)")
	c.Flags().StringVar(&nameFlag, "name", deploy.DefaultCacheName, "Hash cache name")
	c.Flags().IntVar(&concurrencyFlag, "concurrency", runtime.NumCPU(), "Files hashed in parallel")
	c.Flags().StringVarP(&messageFlag, "message", "m", "", "Deploy message, stored as a version label")

	return c
}

type deployArgs struct {
	dir         string
	channel     string
	expires     *cmdutil.ExpiresFlags
	specFile    string
	cacheName   string
	concurrency int
	message     string
}

func runDeploy(c *cobra.Command, gc *cmdtypes.GlobalConfig, args deployArgs) error {
	if err := gc.RequireSite(); err != nil {
		return err
	}
	channel := hosting.NormalizeName(args.channel)
	if channel == "" {
		channel = deploy.LiveChannel
	}
	ttl, err := args.expires.TTL()
	if err != nil {
		return err
	}

	spec, err := loadDeploySpec(args.dir, args.specFile)
	if err != nil {
		cmdutil.PrintValidationError("hosting config invalid", err)
		return err
	}

	clients, err := cmdutil.NewClients(gc)
	if err != nil {
		return err
	}

	var auth deploy.DomainAuthorizer
	if gc.Project != "" {
		auth = clients.Auth
	}

	var labels map[string]string
	if args.message != "" {
		labels = map[string]string{"deploy-message": args.message}
	}

	deployer := deploy.NewDeployer(clients.Hosting, auth)
	result, err := output.Await(c.Context(), fmt.Sprintf("Deploying %s to %s:%s...", args.dir, gc.Site, channel),
		func(ctx context.Context) (*deploy.Result, error) {
			return deployer.Deploy(ctx, deploy.Options{
				Project:     gc.Project,
				Site:        gc.Site,
				Channel:     channel,
				ChannelTTL:  ttl,
				Root:        args.dir,
				CacheName:   args.cacheName,
				Concurrency: args.concurrency,
				Spec:        spec,
				Labels:      labels,
				Upload:      reportChangedFiles,
			})
		})
	if err != nil {
		return err
	}

	url := ""
	if result.Channel != nil {
		url = result.Channel.URL
	}
	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(fmt.Sprintf("Deployed %s to %s:%s %s", result.Version.ID(), gc.Site, channel, url)))
	return nil
}

// loadDeploySpec loads the explicit hosting config, or the default one in
// dir. No config at all deploys without serving rules.
func loadDeploySpec(dir, specFile string) (*serving.HostingSpec, error) {
	path := specFile
	if path == "" {
		path = cmdutil.FindSpecFile(dir)
	}
	if path == "" {
		output.Debug("no hosting config found, deploying without serving rules", "dir", filepath.Clean(dir))
		return nil, nil
	}
	return cmdutil.LoadHostingSpec(path)
}

// reportChangedFiles is the upload step of a CLI deploy. Content upload is
// external; it only reports which files need uploading.
func reportChangedFiles(_ context.Context, version *hosting.Version, files []hashcache.FileHash) error {
	changed := 0
	for _, f := range files {
		if !f.Cached {
			changed++
			output.Debug("file needs upload", "path", f.Path, "hash", f.Hash)
		}
	}
	output.Debug("upload handed off", "version", version.Name, "files", len(files), "changed", changed)
	return nil
}
