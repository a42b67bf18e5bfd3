package hashcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/work", ".hostctl", "hosting.source.cache"), Path("/work", "source"))
}

func TestDumpLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	c := New()
	c.Set("index.html", Entry{ModTime: 1700000000123, Hash: "aaa"})
	c.Set("css/site.css", Entry{ModTime: 1700000000456, Hash: "bbb"})

	require.NoError(t, Dump(root, "source", c))

	res := Load(root, "source")
	require.NoError(t, res.Err)
	assert.Equal(t, StatusLoaded, res.Status)
	assert.Equal(t, 2, res.Cache.Len())

	e, ok := res.Cache.Get("css/site.css")
	require.True(t, ok)
	assert.Equal(t, Entry{ModTime: 1700000000456, Hash: "bbb"}, e)
}

func TestDump_SortedLines(t *testing.T) {
	root := t.TempDir()

	c := New()
	c.Set("b", Entry{ModTime: 2, Hash: "h2"})
	c.Set("a", Entry{ModTime: 1, Hash: "h1"})
	require.NoError(t, Dump(root, "target", c))

	data, err := os.ReadFile(Path(root, "target"))
	require.NoError(t, err)
	assert.Equal(t, "a,1,h1\nb,2,h2\n", string(data))
}

func TestDump_NamesAreIndependent(t *testing.T) {
	root := t.TempDir()

	src := New()
	src.Set("a", Entry{ModTime: 1, Hash: "src"})
	require.NoError(t, Dump(root, "source", src))

	assert.Equal(t, StatusMissing, Load(root, "target").Status)
	assert.Equal(t, 1, Load(root, "source").Cache.Len())
}

func TestLoad_SkipsMalformedLines(t *testing.T) {
	root := t.TempDir()
	path := Path(root, "source")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	content := "good,10,hash\n" +
		"short,10\n" +
		"too,many,fields,here\n" +
		"badmtime,notanumber,hash\n" +
		"\n" +
		"other,20,hash2"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res := Load(root, "source")
	require.NoError(t, res.Err)
	assert.Equal(t, StatusLoaded, res.Status)
	assert.Equal(t, 2, res.Cache.Len())

	_, ok := res.Cache.Get("short")
	assert.False(t, ok)
	_, ok = res.Cache.Get("other")
	assert.True(t, ok)
}

func TestLoad_CRLFLineEndings(t *testing.T) {
	root := t.TempDir()
	path := Path(root, "source")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("index.html,10,aaa\r\ncss/site.css,20,bbb\r\n"), 0o644))

	res := Load(root, "source")
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Cache.Len())

	e, ok := res.Cache.Get("index.html")
	require.True(t, ok)
	assert.Equal(t, Entry{ModTime: 10, Hash: "aaa"}, e)
	e, ok = res.Cache.Get("css/site.css")
	require.True(t, ok)
	assert.Equal(t, "bbb", e.Hash)
}

func TestLoad_MissingFile(t *testing.T) {
	res := Load(t.TempDir(), "nope")

	assert.NoError(t, res.Err)
	assert.Equal(t, StatusMissing, res.Status)
	require.NotNil(t, res.Cache)
	assert.Equal(t, 0, res.Cache.Len())
}

func TestLoad_UnreadableDegradesToEmpty(t *testing.T) {
	root := t.TempDir()
	// A directory where the cache file should be makes ReadFile fail.
	require.NoError(t, os.MkdirAll(Path(root, "source"), 0o755))

	res := Load(root, "source")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Error(t, res.Err)
	require.NotNil(t, res.Cache)
	assert.Equal(t, 0, res.Cache.Len())
}

func TestDump_UnwritableRootFails(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := Dump(blocker, "source", New())
	assert.Error(t, err)
}
