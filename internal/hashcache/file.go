package hashcache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Status describes how Load obtained its cache.
type Status int

const (
	// StatusLoaded means the cache file was read.
	StatusLoaded Status = iota
	// StatusMissing means no cache file exists yet; the first-run state.
	StatusMissing
	// StatusFailed means the cache file could not be read; Err says why.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadResult is the outcome of Load. Cache is never nil.
type LoadResult struct {
	Cache  *Cache
	Status Status
	Err    error
}

// Path returns the cache file location for name under root.
func Path(root, name string) string {
	return filepath.Join(root, ".hostctl", "hosting."+name+".cache")
}

// Load reads the named cache under root. Malformed lines are skipped. Any
// failure degrades to an empty cache, reported through the result so the
// caller can decide whether to log it.
func Load(root, name string) LoadResult {
	data, err := os.ReadFile(Path(root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Cache: New(), Status: StatusMissing}
		}
		return LoadResult{Cache: New(), Status: StatusFailed, Err: err}
	}

	cache := New()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Split(strings.TrimSuffix(scanner.Text(), "\r"), ",")
		if len(fields) != 3 {
			continue
		}
		mtime, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		cache.Set(fields[0], Entry{ModTime: mtime, Hash: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return LoadResult{Cache: New(), Status: StatusFailed, Err: err}
	}

	return LoadResult{Cache: cache, Status: StatusLoaded}
}

// Dump writes cache to the named cache file under root, one
// "path,mtime,hash" line per entry sorted by path. The file is written to a
// temporary sibling and renamed into place.
func Dump(root, name string, cache *Cache) error {
	target := Path(root, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	type line struct {
		path  string
		entry Entry
	}
	lines := make([]line, 0, cache.Len())
	cache.Range(func(path string, e Entry) bool {
		lines = append(lines, line{path: path, entry: e})
		return true
	})
	sort.Slice(lines, func(i, j int) bool { return lines[i].path < lines[j].path })

	var buf bytes.Buffer
	for _, l := range lines {
		fmt.Fprintf(&buf, "%s,%d,%s\n", l.path, l.entry.ModTime, l.entry.Hash)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
