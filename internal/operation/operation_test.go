package operation

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/hostctl/internal/apiclient"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/testutil"
)

const opPath = "/v1beta1/projects/-/sites/app/operations/op-1"

func newPoller(backend *testutil.Backend) *Poller {
	client := apiclient.New(apiclient.Options{Origin: backend.URL(), APIVersion: "v1beta1", RequestsPerSecond: 1000})
	return NewPoller(client, 5*time.Millisecond)
}

func TestPoll_CompletesAndDecodes(t *testing.T) {
	backend := testutil.NewBackend(t)

	var calls atomic.Int32
	backend.Handle(http.MethodGet, opPath, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			testutil.WriteJSON(w, http.StatusOK, map[string]any{"name": "projects/-/sites/app/operations/op-1"})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"name":     "projects/-/sites/app/operations/op-1",
			"done":     true,
			"response": map[string]any{"name": "sites/app/versions/v2"},
		})
	})

	var out struct {
		Name string `json:"name"`
	}
	err := newPoller(backend).Poll(context.Background(), Options{Name: "projects/-/sites/app/operations/op-1"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "sites/app/versions/v2", out.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPoll_OperationFailure(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, opPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"done":  true,
			"error": map[string]any{"code": 9, "message": "source version not finalized"},
		})
	})

	err := newPoller(backend).Poll(context.Background(), Options{Name: "projects/-/sites/app/operations/op-1"}, nil)

	var failed *FailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 9, failed.Code)
	assert.Contains(t, err.Error(), "source version not finalized")
}

func TestPoll_Timeout(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, opPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"done": false})
	})

	err := newPoller(backend).Poll(context.Background(), Options{
		Name:    "projects/-/sites/app/operations/op-1",
		Timeout: 50 * time.Millisecond,
	}, nil)

	var timeout *TimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.True(t, errors.Is(err, oerrors.ErrTimeout))
	assert.Equal(t, 50*time.Millisecond, timeout.Timeout)
}

func TestPoll_TransportErrorSurfaced(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, opPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusForbidden, "caller lacks permission")
	})

	err := newPoller(backend).Poll(context.Background(), Options{Name: "projects/-/sites/app/operations/op-1"}, nil)
	require.Error(t, err)
	assert.True(t, apiclient.IsPermission(err))
	assert.Len(t, backend.Requests(), 1, "failures are not retried")
}

func TestPoll_OriginOverride(t *testing.T) {
	other := testutil.NewBackend(t)
	other.Handle(http.MethodGet, "/v2/operations/x", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"done": true})
	})
	primary := testutil.NewBackend(t)

	err := newPoller(primary).Poll(context.Background(), Options{
		Name:       "operations/x",
		Origin:     other.URL(),
		APIVersion: "v2",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, primary.Requests())
}
