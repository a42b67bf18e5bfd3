package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/opmodel/hostctl/internal/hashcache"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/output"
	"github.com/opmodel/hostctl/internal/serving"
)

// LiveChannel is the production channel id.
const LiveChannel = "live"

// HostingAPI is the subset of hosting.Client a deploy needs.
type HostingAPI interface {
	GetChannel(ctx context.Context, project, site, id string) (*hosting.Channel, error)
	CreateChannel(ctx context.Context, project, site, id string, ttl time.Duration) (*hosting.Channel, error)
	CreateVersion(ctx context.Context, site string, config serving.ServingConfig, labels map[string]string) (*hosting.Version, error)
	FinalizeVersion(ctx context.Context, versionName string) (*hosting.Version, error)
	CreateRelease(ctx context.Context, site, channelID, versionName string) (*hosting.Release, error)
}

// DomainAuthorizer adds a channel's domain to the auth allowlist.
type DomainAuthorizer interface {
	AddAuthDomain(ctx context.Context, project, url string) ([]string, error)
}

// UploadFunc uploads the files of a version. It runs after the version is
// created and before it is finalized.
type UploadFunc func(ctx context.Context, version *hosting.Version, files []hashcache.FileHash) error

// Options configures one deploy.
type Options struct {
	Project string
	Site    string
	// Channel defaults to LiveChannel.
	Channel string
	// ChannelTTL applies when a preview channel has to be created.
	ChannelTTL time.Duration

	Root        string
	CacheName   string
	Concurrency int

	// Spec is the raw hosting configuration; nil means no serving rules.
	Spec   *serving.HostingSpec
	Labels map[string]string
	Upload UploadFunc
}

// Result summarizes a finished deploy.
type Result struct {
	Channel *hosting.Channel
	Version *hosting.Version
	Release *hosting.Release
	Plan    *HashPlan
	// AuthDomains is the allowlist after authorizing the channel, if updated.
	AuthDomains []string
}

// Deployer runs deploys.
type Deployer struct {
	api  HostingAPI
	auth DomainAuthorizer
}

// NewDeployer creates a Deployer. auth may be nil to skip domain
// authorization.
func NewDeployer(api HostingAPI, auth DomainAuthorizer) *Deployer {
	return &Deployer{api: api, auth: auth}
}

// Deploy compiles the serving config, hashes files, creates a version,
// uploads, finalizes, releases it to the channel and authorizes the
// channel's domain for preview channels.
func (d *Deployer) Deploy(ctx context.Context, opts Options) (*Result, error) {
	channelID := opts.Channel
	if channelID == "" {
		channelID = LiveChannel
	}
	log := output.ChannelLogger(opts.Site, channelID)

	cfg, err := serving.Compile(opts.Spec)
	if err != nil {
		return nil, fmt.Errorf("compiling serving config: %w", err)
	}

	plan, err := Plan(ctx, PlanOptions{Root: opts.Root, CacheName: opts.CacheName, Concurrency: opts.Concurrency})
	if err != nil {
		return nil, fmt.Errorf("hashing files: %w", err)
	}
	log.Info("hashed files", "files", len(plan.Files), "changed", plan.Changed)

	result := &Result{Plan: plan}

	channel, err := d.ensureChannel(ctx, opts, channelID)
	if err != nil {
		return nil, err
	}
	result.Channel = channel

	version, err := d.api.CreateVersion(ctx, opts.Site, cfg, opts.Labels)
	if err != nil {
		return nil, fmt.Errorf("creating version: %w", err)
	}
	log.Debug("created version", "version", version.Name)

	if opts.Upload != nil {
		if err := opts.Upload(ctx, version, plan.Files); err != nil {
			return nil, fmt.Errorf("uploading files to %s: %w", version.Name, err)
		}
	}

	version, err = d.api.FinalizeVersion(ctx, version.Name)
	if err != nil {
		return nil, fmt.Errorf("finalizing version: %w", err)
	}
	result.Version = version
	log.Debug("finalized version", "version", version.Name)

	release, err := d.api.CreateRelease(ctx, opts.Site, channelID, version.Name)
	if err != nil {
		return nil, fmt.Errorf("releasing %s: %w", version.Name, err)
	}
	result.Release = release
	log.Info("released version", "version", version.ID())

	if channelID != LiveChannel && d.auth != nil && channel != nil && channel.URL != "" {
		domains, err := d.auth.AddAuthDomain(ctx, opts.Project, channel.URL)
		if err != nil {
			// Non-fatal: the release is already live.
			log.Warn("unable to authorize channel domain", "url", channel.URL, "err", err)
		} else {
			result.AuthDomains = domains
		}
	}

	return result, nil
}

func (d *Deployer) ensureChannel(ctx context.Context, opts Options, channelID string) (*hosting.Channel, error) {
	channel, err := d.api.GetChannel(ctx, opts.Project, opts.Site, channelID)
	if err != nil {
		return nil, fmt.Errorf("looking up channel %s: %w", channelID, err)
	}
	if channel != nil || channelID == LiveChannel {
		return channel, nil
	}

	channel, err = d.api.CreateChannel(ctx, opts.Project, opts.Site, channelID, opts.ChannelTTL)
	if err != nil {
		return nil, fmt.Errorf("creating channel %s: %w", channelID, err)
	}
	output.ChannelLogger(opts.Site, channelID).Info("created channel", "url", channel.URL)
	return channel, nil
}
