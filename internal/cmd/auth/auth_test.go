package auth

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/testutil"
)

func newAuthBackend(t *testing.T) *testutil.Backend {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/v1beta1/projects/my-proj/sites/app/channels", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"channels": []any{
				map[string]any{"name": "sites/app/channels/live", "url": "https://app.web.app"},
				map[string]any{"name": "sites/app/channels/pr-1", "url": "https://app--pr-1-abc.web.app"},
			},
		})
	})
	backend.Handle(http.MethodGet, "/admin/v2/projects/my-proj/config", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"authorizedDomains": []string{
			"localhost",
			"app--pr-1-abc.web.app",
			"app--old-def.web.app",
			"app.firebaseapp.com",
		}})
	})
	backend.Handle(http.MethodPatch, "/admin/v2/projects/my-proj/config", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		testutil.WriteJSON(w, http.StatusOK, body)
	})
	return backend
}

func patches(b *testutil.Backend) []testutil.RecordedRequest {
	var out []testutil.RecordedRequest
	for _, r := range b.Requests() {
		if r.Method == http.MethodPatch {
			out = append(out, r)
		}
	}
	return out
}

func TestAuthClean(t *testing.T) {
	backend := newAuthBackend(t)
	gc := testutil.GlobalConfig(backend.URL())

	stdout, _, err := testutil.Execute(t, NewAuthCmd(gc), "clean")
	require.NoError(t, err)
	assert.Contains(t, stdout, "app--old-def.web.app")

	reqs := patches(backend)
	require.Len(t, reqs, 1)
	assert.Equal(t, "updateMask=authorizedDomains", reqs[0].RawQuery)
	assert.JSONEq(t,
		`{"authorizedDomains":["localhost","app--pr-1-abc.web.app","app.firebaseapp.com"]}`,
		string(reqs[0].Body))
}

func TestAuthClean_DryRunJSON(t *testing.T) {
	backend := newAuthBackend(t)
	gc := testutil.GlobalConfig(backend.URL())
	gc.Output = "json"

	stdout, _, err := testutil.Execute(t, NewAuthCmd(gc), "clean", "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, patches(backend))

	var decisions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decisions))
	require.Len(t, decisions, 4)
	assert.Equal(t, map[string]any{"domain": "app--old-def.web.app", "keep": false, "reason": "stale preview channel"}, decisions[2])
	assert.Equal(t, "live channel", decisions[1]["reason"])
	assert.Equal(t, "platform default domain", decisions[3]["reason"])
}

func TestAuthClean_RequiresProject(t *testing.T) {
	gc := testutil.GlobalConfig("http://127.0.0.1:0")
	_, _, err := testutil.Execute(t, NewAuthCmd(&cmdtypes.GlobalConfig{Config: gc.Config, Site: "app"}), "clean")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}
