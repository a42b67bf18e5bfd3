// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// Defaults applied by WithDefaults.
const (
	DefaultHostingOrigin     = "https://firebasehosting.googleapis.com"
	DefaultHostingAPIVersion = "v1beta1"
	DefaultAuthOrigin        = "https://identitytoolkit.googleapis.com"
	DefaultRequestsPerSecond = 10
	DefaultPollInterval      = "2s"
	DefaultAuthDomainSuffix  = "firebaseapp.com"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty" json:"timestamps,omitempty"`
}

// Config represents the hostctl configuration.
// Loaded from ~/.hostctl/config.yaml and HOSTCTL_* environment variables.
type Config struct {
	// Project is the default project ID.
	// Env: HOSTCTL_PROJECT
	Project string `mapstructure:"project" yaml:"project,omitempty" json:"project,omitempty"`

	// Site is the default hosting site.
	// Env: HOSTCTL_SITE
	Site string `mapstructure:"site" yaml:"site,omitempty" json:"site,omitempty"`

	// Token is the OAuth2 access token used for backend requests.
	// Env: HOSTCTL_TOKEN. Never written by `config init`.
	Token string `mapstructure:"token" yaml:"-" json:"-"`

	// HostingOrigin is the hosting REST API origin.
	HostingOrigin string `mapstructure:"hostingOrigin" yaml:"hostingOrigin,omitempty" json:"hostingOrigin,omitempty"`

	// HostingAPIVersion is the hosting REST API version path segment.
	HostingAPIVersion string `mapstructure:"hostingAPIVersion" yaml:"hostingAPIVersion,omitempty" json:"hostingAPIVersion,omitempty"`

	// AuthOrigin is the authentication admin API origin.
	AuthOrigin string `mapstructure:"authOrigin" yaml:"authOrigin,omitempty" json:"authOrigin,omitempty"`

	// RequestsPerSecond paces outgoing backend requests.
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond" yaml:"requestsPerSecond,omitempty" json:"requestsPerSecond,omitempty"`

	// PollInterval is the delay between long-running operation polls, e.g. "2s".
	PollInterval string `mapstructure:"pollInterval" yaml:"pollInterval,omitempty" json:"pollInterval,omitempty"`

	// AuthDomainSuffix is the platform default hosting domain suffix.
	// Authorized domains ending in it are never pruned unless they name a stale preview channel.
	AuthDomainSuffix string `mapstructure:"authDomainSuffix" yaml:"authDomainSuffix,omitempty" json:"authDomainSuffix,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty" json:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `hostctl config init` to generate the initial config file.
func DefaultConfig() *Config {
	return (&Config{}).WithDefaults()
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.HostingOrigin == "" {
		out.HostingOrigin = DefaultHostingOrigin
	}
	if out.HostingAPIVersion == "" {
		out.HostingAPIVersion = DefaultHostingAPIVersion
	}
	if out.AuthOrigin == "" {
		out.AuthOrigin = DefaultAuthOrigin
	}
	if out.RequestsPerSecond == 0 {
		out.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if out.PollInterval == "" {
		out.PollInterval = DefaultPollInterval
	}
	if out.AuthDomainSuffix == "" {
		out.AuthDomainSuffix = DefaultAuthDomainSuffix
	}
	return &out
}

// PollIntervalDuration parses PollInterval.
func (c *Config) PollIntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing pollInterval %q: %w", c.PollInterval, err)
	}
	return d, nil
}
