// Package authdomain keeps the authentication service's authorized-domain
// allowlist in sync with live preview channels.
package authdomain

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/opmodel/hostctl/internal/apiclient"
)

// Store reads and replaces a project's authorized domains.
type Store interface {
	AuthorizedDomains(ctx context.Context, project string) ([]string, error)
	UpdateAuthorizedDomains(ctx context.Context, project string, domains []string) ([]string, error)
}

// Requester sends REST requests.
type Requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
}

// IdentityToolkit is a Store backed by the identity admin REST API.
type IdentityToolkit struct {
	req Requester
}

// NewIdentityToolkit creates a Store. req must be rooted at the auth origin.
func NewIdentityToolkit(req Requester) *IdentityToolkit {
	return &IdentityToolkit{req: req}
}

type projectConfig struct {
	AuthorizedDomains []string `json:"authorizedDomains"`
}

func configPath(project string) string {
	return fmt.Sprintf("/admin/v2/projects/%s/config", project)
}

// AuthorizedDomains returns the current allowlist.
func (s *IdentityToolkit) AuthorizedDomains(ctx context.Context, project string) ([]string, error) {
	var cfg projectConfig
	if err := s.req.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: configPath(project)}, &cfg); err != nil {
		return nil, err
	}
	return cfg.AuthorizedDomains, nil
}

// UpdateAuthorizedDomains replaces the allowlist and returns the stored list.
func (s *IdentityToolkit) UpdateAuthorizedDomains(ctx context.Context, project string, domains []string) ([]string, error) {
	if domains == nil {
		domains = []string{}
	}
	var cfg projectConfig
	err := s.req.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   configPath(project),
		Query:  url.Values{"updateMask": {"authorizedDomains"}},
		Body:   projectConfig{AuthorizedDomains: domains},
	}, &cfg)
	if err != nil {
		return nil, err
	}
	return cfg.AuthorizedDomains, nil
}
