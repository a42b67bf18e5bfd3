// Package apiclient is the JSON-over-HTTP transport shared by the hosting
// and auth REST clients.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/opmodel/hostctl/internal/output"
	"github.com/opmodel/hostctl/internal/version"
)

const (
	defaultRequestsPerSecond = 10
	defaultBurst             = 5
	defaultTimeout           = 60 * time.Second
)

// Options configures a Client.
type Options struct {
	// Origin is the scheme and host, e.g. https://firebasehosting.googleapis.com.
	Origin string

	// APIVersion is prefixed to every request path when set.
	APIVersion string

	// Token is a bearer access token. Requests are unauthenticated when
	// both Token and TokenSource are empty.
	Token string

	// TokenSource overrides Token.
	TokenSource oauth2.TokenSource

	// RequestsPerSecond paces requests. Zero uses the default.
	RequestsPerSecond float64

	// Burst is the limiter burst size. Zero uses the default.
	Burst int

	// HTTPClient is the base client. Nil uses a client with a 60s timeout.
	HTTPClient *http.Client
}

// Request describes one REST call.
type Request struct {
	Method string
	// Path is appended to origin and API version.
	Path  string
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
}

// Client performs paced, authenticated JSON requests.
type Client struct {
	origin     string
	apiVersion string
	http       *http.Client
	limiter    *rate.Limiter
}

// New creates a Client.
func New(opts Options) *Client {
	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: defaultTimeout}
	}

	ts := opts.TokenSource
	if ts == nil && opts.Token != "" {
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
	}

	httpClient := base
	if ts != nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = base.Timeout
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		origin:     strings.TrimRight(opts.Origin, "/"),
		apiVersion: strings.Trim(opts.APIVersion, "/"),
		http:       httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Origin returns the configured origin.
func (c *Client) Origin() string {
	return c.origin
}

// APIVersion returns the configured API version.
func (c *Client) APIVersion() string {
	return c.apiVersion
}

// WithBase returns a Client for another origin and API version that shares
// this client's HTTP transport and rate limiter. Empty arguments keep the
// current values.
func (c *Client) WithBase(origin, apiVersion string) *Client {
	out := *c
	if origin != "" {
		out.origin = strings.TrimRight(origin, "/")
	}
	if apiVersion != "" {
		out.apiVersion = strings.Trim(apiVersion, "/")
	}
	return &out
}

// URL returns the absolute URL for path and query.
func (c *Client) URL(path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(c.origin)
	if c.apiVersion != "" {
		b.WriteString("/")
		b.WriteString(c.apiVersion)
	}
	if !strings.HasPrefix(path, "/") {
		b.WriteString("/")
	}
	b.WriteString(path)
	if len(query) > 0 {
		b.WriteString("?")
		b.WriteString(query.Encode())
	}
	return b.String()
}

// Do sends req and decodes a successful JSON response into out, which may be
// nil. Non-2xx responses are returned as *Error carrying the backend message.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	target := c.URL(req.Path, req.Query)

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", req.Method, target, err)
		}
		body = bytes.NewReader(data)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Method: req.Method, URL: target, Message: "waiting for rate limiter", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-Id", requestID)
	httpReq.Header.Set("User-Agent", version.UserAgent())
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	output.Debug("api request", "method", req.Method, "url", target, "request_id", requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &Error{Method: req.Method, URL: target, Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Method: req.Method, URL: target, Status: resp.StatusCode, Message: "reading response body", Cause: err}
	}

	output.Debug("api response", "method", req.Method, "url", target, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Method:  req.Method,
			URL:     target,
			Status:  resp.StatusCode,
			Message: backendMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.Method, target, err)
	}
	return nil
}

// backendMessage extracts error.message from a backend error body, falling
// back to the raw body.
func backendMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	return strings.TrimSpace(string(data))
}
