package hosting

import (
	"time"

	"github.com/opmodel/hostctl/internal/operation"
	"github.com/opmodel/hostctl/internal/serving"
)

// VersionStatus is the lifecycle state of a Version.
type VersionStatus string

const (
	VersionStatusUnspecified VersionStatus = "VERSION_STATUS_UNSPECIFIED"
	VersionStatusCreated     VersionStatus = "CREATED"
	VersionStatusFinalized   VersionStatus = "FINALIZED"
	VersionStatusDeleted     VersionStatus = "DELETED"
	VersionStatusAbandoned   VersionStatus = "ABANDONED"
	VersionStatusExpired     VersionStatus = "EXPIRED"
	VersionStatusCloning     VersionStatus = "CLONING"
)

// versionTransitions lists the states each state may move to.
var versionTransitions = map[VersionStatus][]VersionStatus{
	VersionStatusCloning:   {VersionStatusCreated},
	VersionStatusCreated:   {VersionStatusFinalized, VersionStatusAbandoned, VersionStatusDeleted},
	VersionStatusFinalized: {VersionStatusDeleted, VersionStatusExpired},
}

// IsTerminal reports whether no further transition is possible.
func (s VersionStatus) IsTerminal() bool {
	switch s {
	case VersionStatusDeleted, VersionStatusAbandoned, VersionStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s VersionStatus) CanTransitionTo(next VersionStatus) bool {
	for _, allowed := range versionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReleaseType says why a release was created.
type ReleaseType string

const (
	ReleaseTypeUnspecified ReleaseType = "TYPE_UNSPECIFIED"
	ReleaseTypeDeploy      ReleaseType = "DEPLOY"
	ReleaseTypeRollback    ReleaseType = "ROLLBACK"
	ReleaseTypeSiteDisable ReleaseType = "SITE_DISABLE"
)

// ActingUser identifies who performed an action.
type ActingUser struct {
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Version is a snapshot of an immutable content bundle.
type Version struct {
	// Name is sites/{site}/versions/{id}.
	Name   string                 `json:"name"`
	Status VersionStatus          `json:"status,omitempty"`
	Config *serving.ServingConfig `json:"config,omitempty"`
	Labels map[string]string      `json:"labels,omitempty"`

	CreateTime   time.Time   `json:"createTime,omitzero"`
	CreateUser   *ActingUser `json:"createUser,omitempty"`
	FinalizeTime time.Time   `json:"finalizeTime,omitzero"`
	FinalizeUser *ActingUser `json:"finalizeUser,omitempty"`
	DeleteTime   time.Time   `json:"deleteTime,omitzero"`
	DeleteUser   *ActingUser `json:"deleteUser,omitempty"`

	FileCount    int64 `json:"fileCount,omitempty,string"`
	VersionBytes int64 `json:"versionBytes,omitempty,string"`
}

// ID returns the version id, the last segment of Name.
func (v Version) ID() string {
	_, id, err := ParseVersionName(v.Name)
	if err != nil {
		return ""
	}
	return id
}

// Channel is a snapshot of a named release slot.
type Channel struct {
	// Name is sites/{site}/channels/{id}.
	Name                 string            `json:"name"`
	URL                  string            `json:"url,omitempty"`
	Release              *Release          `json:"release,omitempty"`
	CreateTime           time.Time         `json:"createTime,omitzero"`
	UpdateTime           time.Time         `json:"updateTime,omitzero"`
	ExpireTime           time.Time         `json:"expireTime,omitzero"`
	RetainedReleaseCount int               `json:"retainedReleaseCount,omitempty"`
	Labels               map[string]string `json:"labels,omitempty"`
}

// ID returns the channel id, the last segment of Name.
func (c Channel) ID() string {
	_, id, err := ParseChannelName(c.Name)
	if err != nil {
		return ""
	}
	return id
}

// RetainedReleases is the number of releases the backend keeps for the
// channel, clamped to the backend's bounds. Zero means the default.
func (c Channel) RetainedReleases() int {
	switch {
	case c.RetainedReleaseCount == 0:
		return DefaultRetainedReleases
	case c.RetainedReleaseCount < MinRetainedReleases:
		return MinRetainedReleases
	case c.RetainedReleaseCount > MaxRetainedReleases:
		return MaxRetainedReleases
	}
	return c.RetainedReleaseCount
}

// Release is an append-only record binding a channel to a version.
type Release struct {
	Name        string      `json:"name"`
	Version     *Version    `json:"version,omitempty"`
	Type        ReleaseType `json:"type,omitempty"`
	ReleaseTime time.Time   `json:"releaseTime,omitzero"`
	ReleaseUser *ActingUser `json:"releaseUser,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// Operation is a long-running backend operation.
type Operation = operation.Operation
