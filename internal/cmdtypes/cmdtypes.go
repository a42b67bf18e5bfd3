// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/config, internal/cmd/serving, ...).
package cmdtypes

import (
	"github.com/opmodel/hostctl/internal/config"
	oerrors "github.com/opmodel/hostctl/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the loaded configuration with defaults applied. Never nil
	// after PersistentPreRunE.
	Config *config.Config

	ConfigPath string // resolved --config path
	Project    string // resolved --project
	Site       string // resolved --site
	Output     string // raw --output flag value; empty means command default
	Verbose    bool

	// Resolved records where config path, project and site came from.
	Resolved []config.ResolvedValue
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess           = oerrors.ExitSuccess
	ExitGeneralError      = oerrors.ExitGeneralError
	ExitValidationError   = oerrors.ExitValidationError
	ExitConnectivityError = oerrors.ExitConnectivityError
	ExitPermissionDenied  = oerrors.ExitPermissionDenied
	ExitNotFound          = oerrors.ExitNotFound
	ExitTimeout           = oerrors.ExitTimeout
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError

// RequireProject returns a validation error when no project was resolved.
func (g *GlobalConfig) RequireProject() error {
	if g.Project == "" {
		return oerrors.NewValidationError("no project selected", "", "project",
			"Pass --project, set HOSTCTL_PROJECT or add project to the config file.")
	}
	return nil
}

// RequireSite returns a validation error when no site was resolved.
func (g *GlobalConfig) RequireSite() error {
	if g.Site == "" {
		return oerrors.NewValidationError("no site selected", "", "site",
			"Pass --site, set HOSTCTL_SITE or add site to the config file.")
	}
	return nil
}
