package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// RecordedRequest is a request seen by a Backend.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
}

// Backend is a fake REST backend routed with chi. Routes are registered
// with Handle before the code under test sends requests.
type Backend struct {
	Server *httptest.Server
	Router chi.Router

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewBackend starts a Backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{Router: chi.NewRouter()}
	b.Router.Use(b.record)
	b.Router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	b.Server = httptest.NewServer(b.Router)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend origin.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Handle registers h for method and chi pattern.
func (b *Backend) Handle(method, pattern string, h http.HandlerFunc) {
	b.Router.Method(method, pattern, h)
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Body:     body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error envelope in the backend's format.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
		},
	})
}
