package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/testutil"
)

func TestClient_URL(t *testing.T) {
	c := New(Options{Origin: "https://example.test/", APIVersion: "v1beta1"})

	assert.Equal(t, "https://example.test/v1beta1/projects/-/sites/app", c.URL("/projects/-/sites/app", nil))
	assert.Equal(t, "https://example.test/v1beta1/a?pageSize=10", c.URL("a", url.Values{"pageSize": {"10"}}))

	bare := New(Options{Origin: "https://auth.test"})
	assert.Equal(t, "https://auth.test/admin/v2/projects/p/config", bare.URL("/admin/v2/projects/p/config", nil))
}

func TestClient_DoDecodesAndSendsHeaders(t *testing.T) {
	backend := testutil.NewBackend(t)

	var gotAuth, gotRequestID, gotContentType string
	backend.Handle(http.MethodPost, "/v1/things", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotContentType = r.Header.Get("Content-Type")

		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		testutil.WriteJSON(w, http.StatusOK, map[string]string{"echo": in["name"]})
	})

	c := New(Options{Origin: backend.URL(), APIVersion: "v1", Token: "tok"})

	var out struct {
		Echo string `json:"echo"`
	}
	err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/things", Body: map[string]string{"name": "x"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, "x", out.Echo)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Len(t, gotRequestID, 36)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	backend := testutil.NewBackend(t)

	gotAuth := "unset"
	backend.Handle(http.MethodGet, "/ping", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	c := New(Options{Origin: backend.URL()})
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/ping"}, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
		notFound bool
		perm     bool
	}{
		{"not found", http.StatusNotFound, oerrors.ErrNotFound, true, false},
		{"unauthorized", http.StatusUnauthorized, oerrors.ErrPermission, false, true},
		{"forbidden", http.StatusForbidden, oerrors.ErrPermission, false, true},
		{"server error", http.StatusInternalServerError, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewBackend(t)
			backend.Handle(http.MethodGet, "/v1/x", func(w http.ResponseWriter, r *http.Request) {
				testutil.WriteError(w, tt.status, "backend says no")
			})

			c := New(Options{Origin: backend.URL(), APIVersion: "v1"})
			err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "backend says no", apiErr.Message)
			assert.Contains(t, err.Error(), "backend says no")
			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.Equal(t, tt.perm, IsPermission(err))
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
		})
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/x", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down\n"))
	})

	err := New(Options{Origin: backend.URL()}).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestClient_ConnectivityError(t *testing.T) {
	backend := testutil.NewBackend(t)
	origin := backend.URL()
	backend.Server.Close()

	err := New(Options{Origin: origin}).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrConnectivity))
	assert.False(t, IsNotFound(err))
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/x", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := New(Options{Origin: backend.URL(), RequestsPerSecond: 0.001, Burst: 1})
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/x"}, nil)
	assert.Error(t, err)
	assert.Len(t, backend.Requests(), 1)
}
