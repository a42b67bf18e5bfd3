// Package deploy orchestrates a hosting deploy: hash the site directory,
// create and finalize a version, release it to a channel and authorize the
// channel's domain.
package deploy

import (
	"context"
	"fmt"

	"github.com/opmodel/hostctl/internal/hashcache"
	"github.com/opmodel/hostctl/internal/output"
)

// DefaultCacheName names the hash cache used by deploys.
const DefaultCacheName = "source"

// HashPlan is the result of hashing a site directory.
type HashPlan struct {
	Files []hashcache.FileHash
	// Changed counts files that had to be re-hashed.
	Changed int
	// CacheStatus is how the previous cache was obtained.
	CacheStatus hashcache.Status
}

// PlanOptions configures Plan.
type PlanOptions struct {
	Root        string
	CacheName   string
	Concurrency int
}

// Plan hashes every file under Root, reusing the named hash cache, and
// writes the refreshed cache back. Cache problems are logged and never fail
// the plan.
func Plan(ctx context.Context, opts PlanOptions) (*HashPlan, error) {
	name := opts.CacheName
	if name == "" {
		name = DefaultCacheName
	}

	loaded := hashcache.Load(opts.Root, name)
	switch loaded.Status {
	case hashcache.StatusMissing:
		output.Debug("hash cache not populated", "name", name)
	case hashcache.StatusFailed:
		output.Debug("hash cache load error", "name", name, "err", loaded.Err)
	default:
		output.Debug("hash cache loaded", "name", name, "entries", loaded.Cache.Len())
	}

	files, err := hashcache.WalkFiles(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("listing files under %s: %w", opts.Root, err)
	}

	hasher := &hashcache.Hasher{Root: opts.Root, Cache: loaded.Cache, Concurrency: opts.Concurrency}
	hashes, err := hasher.HashFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	plan := &HashPlan{Files: hashes, CacheStatus: loaded.Status}
	for _, fh := range hashes {
		if !fh.Cached {
			plan.Changed++
		}
	}

	if err := hashcache.Dump(opts.Root, name, loaded.Cache); err != nil {
		output.Debug("unable to store hash cache", "name", name, "err", err)
	} else {
		output.Debug("hash cache stored", "name", name, "files", loaded.Cache.Len())
	}

	return plan, nil
}
