package cmdutil

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/serving"
	"github.com/opmodel/hostctl/internal/testutil"
)

func TestFindSpecFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindSpecFile(dir))

	testutil.WriteFile(t, dir, "hosting.json", `{}`)
	assert.Equal(t, filepath.Join(dir, "hosting.json"), FindSpecFile(dir))

	testutil.WriteFile(t, dir, "hosting.yaml", ``)
	assert.Equal(t, filepath.Join(dir, "hosting.yaml"), FindSpecFile(dir))
}

func TestLoadHostingSpec(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "ok.yaml", `
cleanUrls: true
redirects:
  - source: /old
    destination: /new
    type: 301
`)
		spec, err := LoadHostingSpec(path)
		require.NoError(t, err)
		require.NotNil(t, spec)
		require.Len(t, spec.Redirects, 1)
		assert.Equal(t, "/new", spec.Redirects[0].Destination)
	})

	t.Run("empty", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "empty.yaml", "")
		spec, err := LoadHostingSpec(path)
		require.NoError(t, err)
		assert.Nil(t, spec)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadHostingSpec(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	})

	t.Run("schema violation", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "bad.yaml", `cleanUrls: "yes"`)
		_, err := LoadHostingSpec(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))

		var detail *oerrors.DetailError
		require.True(t, errors.As(err, &detail))
		assert.Equal(t, path, detail.Location)
	})
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()

	path := testutil.WriteFile(t, dir, "hosting.json", `{"rewrites":[{"source":"/api/**","function":"api"}]}`)
	cfg, err := CompileFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Rewrites, 1)
	assert.Equal(t, serving.FunctionTarget{Function: "api"}, cfg.Rewrites[0].Target)

	path = testutil.WriteFile(t, dir, "conflict.json", `{"headers":[{"source":"/a","regex":"^/a$","headers":[{"key":"X","value":"1"}]}]}`)
	_, err = CompileFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
	var conflict *serving.ConflictingPatternError
	assert.True(t, errors.As(err, &conflict))
}
