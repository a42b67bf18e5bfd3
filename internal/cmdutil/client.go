package cmdutil

import (
	"fmt"

	"github.com/opmodel/hostctl/internal/apiclient"
	"github.com/opmodel/hostctl/internal/authdomain"
	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/operation"
	"github.com/opmodel/hostctl/internal/output"
)

// Clients bundles the backend clients a command needs.
type Clients struct {
	Hosting *hosting.Client
	Auth    *authdomain.Reconciler
}

// NewClients builds the hosting and auth clients from the resolved config.
func NewClients(gc *cmdtypes.GlobalConfig) (*Clients, error) {
	cfg := gc.Config
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	interval, err := cfg.PollIntervalDuration()
	if err != nil {
		return nil, err
	}

	if cfg.Token == "" {
		output.Debug("no access token configured, requests are unauthenticated")
	}

	api := apiclient.New(apiclient.Options{
		Origin:            cfg.HostingOrigin,
		APIVersion:        cfg.HostingAPIVersion,
		Token:             cfg.Token,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	authAPI := apiclient.New(apiclient.Options{
		Origin:            cfg.AuthOrigin,
		Token:             cfg.Token,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	hostingClient := hosting.NewClient(api, operation.NewPoller(api, interval))
	return &Clients{
		Hosting: hostingClient,
		Auth:    authdomain.NewReconciler(authdomain.NewIdentityToolkit(authAPI), hostingClient, cfg.AuthDomainSuffix),
	}, nil
}
