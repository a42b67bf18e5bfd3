// Package operation polls long-running backend operations to completion.
package operation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/opmodel/hostctl/internal/apiclient"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/output"
)

const (
	// DefaultTimeout bounds a whole poll.
	DefaultTimeout = 10 * time.Minute

	// DefaultInterval is the delay between polls.
	DefaultInterval = 2 * time.Second
)

// Status is the error payload of a failed operation.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Operation is a long-running operation resource.
type Operation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *Status         `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

// FailedError is returned when an operation finishes with an error.
type FailedError struct {
	Name    string
	Code    int
	Message string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("operation %s failed (code %d): %s", e.Name, e.Code, e.Message)
}

// TimeoutError is returned when an operation is not done within its timeout.
type TimeoutError struct {
	Name    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s did not complete within %s", e.Name, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return oerrors.ErrTimeout
}

// Options identifies an operation and bounds the poll.
type Options struct {
	// Name is the operation resource name.
	Name string
	// Origin and APIVersion override the poller's client when set.
	Origin     string
	APIVersion string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
}

// Poller polls operations through an API client.
type Poller struct {
	client   *apiclient.Client
	interval time.Duration
}

// NewPoller creates a Poller. A non-positive interval uses DefaultInterval.
func NewPoller(client *apiclient.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{client: client, interval: interval}
}

// Poll waits for the operation to finish and decodes its response into out,
// which may be nil. Timeouts and failures are returned as-is; nothing is
// retried.
func (p *Poller) Poll(ctx context.Context, opts Options, out any) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := p.client.WithBase(opts.Origin, opts.APIVersion)

	start := time.Now()
	var final Operation
	err := wait.PollUntilContextTimeout(ctx, p.interval, timeout, true, func(ctx context.Context) (bool, error) {
		var op Operation
		if err := client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/" + opts.Name}, &op); err != nil {
			return false, err
		}
		output.Debug("polled operation", "name", opts.Name, "done", op.Done)
		if !op.Done {
			return false, nil
		}
		final = op
		return true, nil
	})
	if err != nil {
		if ctx.Err() == nil && (wait.Interrupted(err) || time.Since(start) >= timeout) {
			return &TimeoutError{Name: opts.Name, Timeout: timeout}
		}
		return err
	}

	if final.Error != nil {
		return &FailedError{Name: opts.Name, Code: final.Error.Code, Message: final.Error.Message}
	}

	if out == nil || len(final.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(final.Response, out); err != nil {
		return fmt.Errorf("decoding operation %s response: %w", opts.Name, err)
	}
	return nil
}
