package serving

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Equal(t *testing.T) {
	cfg, err := Compile(mustParse(t, `{"redirects": [{"source": "/a", "destination": "/b"}]}`))
	require.NoError(t, err)

	out, err := Diff(cfg, cfg, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiff_ReportsChangedLocation(t *testing.T) {
	live, err := Compile(mustParse(t, `{"redirects": [{"source": "/a", "destination": "/old-target"}]}`))
	require.NoError(t, err)
	desired, err := Compile(mustParse(t, `{"redirects": [{"source": "/a", "destination": "/new-target"}]}`))
	require.NoError(t, err)

	out, err := Diff(live, desired, false)
	require.NoError(t, err)
	assert.Contains(t, out, "old-target")
	assert.Contains(t, out, "new-target")
}

func TestDiff_EmptyLive(t *testing.T) {
	desired, err := Compile(mustParse(t, `{"cleanUrls": true}`))
	require.NoError(t, err)

	out, err := Diff(ServingConfig{}, desired, false)
	require.NoError(t, err)
	assert.Contains(t, out, "cleanUrls")
}
