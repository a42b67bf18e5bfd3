package hashcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FileHash is the content hash of one file.
type FileHash struct {
	// Path is relative to the hashed root, slash-separated.
	Path string `json:"path"`
	Hash string `json:"hash"`
	// Cached is true when the hash came from the cache.
	Cached bool `json:"cached"`
}

// Hasher hashes files under Root, consulting and updating Cache.
type Hasher struct {
	Root  string
	Cache *Cache
	// Concurrency bounds the number of files hashed at once.
	// Zero means runtime.NumCPU().
	Concurrency int
}

// HashFiles returns SHA-256 hashes for paths in the same order. Files whose
// modification time matches the cache are not re-read.
func (h *Hasher) HashFiles(ctx context.Context, paths []string) ([]FileHash, error) {
	limit := h.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]FileHash, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fh, err := h.hashOne(rel)
			if err != nil {
				return err
			}
			results[i] = fh
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (h *Hasher) hashOne(rel string) (FileHash, error) {
	full := filepath.Join(h.Root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return FileHash{}, fmt.Errorf("stat %s: %w", rel, err)
	}
	mtime := info.ModTime().UnixMilli()

	if hash, ok := h.Cache.Lookup(rel, mtime); ok {
		return FileHash{Path: rel, Hash: hash, Cached: true}, nil
	}

	hash, err := hashFile(full)
	if err != nil {
		return FileHash{}, fmt.Errorf("hashing %s: %w", rel, err)
	}
	h.Cache.Set(rel, Entry{ModTime: mtime, Hash: hash})
	return FileHash{Path: rel, Hash: hash}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum := sha256.New()
	if _, err := io.Copy(sum, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// WalkFiles lists regular files under root as slash-separated relative
// paths, skipping the .hostctl cache directory.
func WalkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".hostctl" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
