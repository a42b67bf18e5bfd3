package channel

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/testutil"
)

// authState serves the auth allowlist endpoints of a fake backend.
type authState struct {
	mu      sync.Mutex
	domains []string
}

func (s *authState) register(b *testutil.Backend) {
	b.Handle(http.MethodGet, "/admin/v2/projects/my-proj/config", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"authorizedDomains": s.domains})
	})
	b.Handle(http.MethodPatch, "/admin/v2/projects/my-proj/config", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AuthorizedDomains []string `json:"authorizedDomains"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			testutil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.domains = body.AuthorizedDomains
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"authorizedDomains": s.domains})
	})
}

func (s *authState) get() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.domains...)
}

func TestChannelList(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/v1beta1/projects/my-proj/sites/app/channels", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"channels":      []any{map[string]any{"name": "sites/app/channels/live", "url": "https://app.web.app"}},
				"nextPageToken": "p2",
			})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"channels": []any{map[string]any{"name": "sites/app/channels/pr-1", "url": "https://app--pr-1-x.web.app"}},
		})
	})
	gc := testutil.GlobalConfig(backend.URL())

	t.Run("table", func(t *testing.T) {
		stdout, _, err := testutil.Execute(t, NewChannelCmd(gc), "list")
		require.NoError(t, err)
		assert.Contains(t, stdout, "live")
		assert.Contains(t, stdout, "https://app--pr-1-x.web.app")
	})

	t.Run("json", func(t *testing.T) {
		jsonGC := *gc
		jsonGC.Output = "json"
		stdout, _, err := testutil.Execute(t, NewChannelCmd(&jsonGC), "list")
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "sites/app/channels/pr-1", got[1]["name"])
	})
}

func TestChannelList_UnknownSite(t *testing.T) {
	backend := testutil.NewBackend(t)
	gc := testutil.GlobalConfig(backend.URL())

	_, _, err := testutil.Execute(t, NewChannelCmd(gc), "list")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}

func TestChannelCreate(t *testing.T) {
	backend := testutil.NewBackend(t)
	auth := &authState{domains: []string{"localhost"}}
	auth.register(backend)
	backend.Handle(http.MethodPost, "/v1beta1/projects/my-proj/sites/app/channels", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("channelId")
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"name": "sites/app/channels/" + id,
			"url":  "https://app--" + id + "-abc.web.app",
		})
	})
	gc := testutil.GlobalConfig(backend.URL())

	stdout, _, err := testutil.Execute(t, NewChannelCmd(gc), "create", "feature/x", "--expires", "12h")
	require.NoError(t, err)
	assert.Contains(t, stdout, "feature-x")

	var create testutil.RecordedRequest
	for _, r := range backend.Requests() {
		if r.Method == http.MethodPost {
			create = r
		}
	}
	assert.Equal(t, "channelId=feature-x", create.RawQuery)
	assert.JSONEq(t, `{"ttl":"43200s"}`, string(create.Body))
	assert.Equal(t, []string{"localhost", "app--feature-x-abc.web.app"}, auth.get())
}

func TestChannelCreate_Validation(t *testing.T) {
	gc := testutil.GlobalConfig("http://127.0.0.1:0")

	_, _, err := testutil.Execute(t, NewChannelCmd(gc), "create", "live")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	_, _, err = testutil.Execute(t, NewChannelCmd(gc), "create", "pr-1", "--expires", "45d")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	_, _, err = testutil.Execute(t, NewChannelCmd(&cmdtypes.GlobalConfig{Config: gc.Config}), "create", "pr-1")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestChannelExtend(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodPatch, "/v1beta1/projects/my-proj/sites/app/channels/{id}", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"name": "sites/app/channels/" + chi.URLParam(r, "id")})
	})
	gc := testutil.GlobalConfig(backend.URL())

	_, _, err := testutil.Execute(t, NewChannelCmd(gc), "extend", "pr-1", "--expires", "7d")
	require.NoError(t, err)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v1beta1/projects/my-proj/sites/app/channels/pr-1", reqs[0].Path)
	assert.Equal(t, "updateMask=ttl", reqs[0].RawQuery)
	assert.JSONEq(t, `{"ttl":"604800s"}`, string(reqs[0].Body))
}

func TestChannelDelete(t *testing.T) {
	backend := testutil.NewBackend(t)
	auth := &authState{domains: []string{"localhost", "app--pr-1-abc.web.app"}}
	auth.register(backend)
	backend.Handle(http.MethodGet, "/v1beta1/projects/my-proj/sites/app/channels/pr-1", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"name": "sites/app/channels/pr-1", "url": "https://app--pr-1-abc.web.app"})
	})
	var deleted bool
	var mu sync.Mutex
	backend.Handle(http.MethodDelete, "/v1beta1/projects/my-proj/sites/app/channels/pr-1", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		deleted = true
		mu.Unlock()
		testutil.WriteJSON(w, http.StatusOK, map[string]any{})
	})
	gc := testutil.GlobalConfig(backend.URL())

	t.Run("declined", func(t *testing.T) {
		c := NewChannelCmd(gc)
		c.SetIn(strings.NewReader("n\n"))
		_, _, err := testutil.Execute(t, c, "delete", "pr-1")
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.False(t, deleted)
	})

	t.Run("confirmed", func(t *testing.T) {
		c := NewChannelCmd(gc)
		c.SetIn(strings.NewReader("yes\n"))
		stdout, _, err := testutil.Execute(t, c, "delete", "pr-1")
		require.NoError(t, err)
		assert.Contains(t, stdout, "deleted")
		mu.Lock()
		assert.True(t, deleted)
		mu.Unlock()
		assert.Equal(t, []string{"localhost"}, auth.get())
	})

	t.Run("live is refused", func(t *testing.T) {
		_, _, err := testutil.Execute(t, NewChannelCmd(gc), "delete", "live", "--force")
		assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
	})

	t.Run("missing channel", func(t *testing.T) {
		_, _, err := testutil.Execute(t, NewChannelCmd(gc), "delete", "pr-2", "--force")
		assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
	})
}
