package hosting

import (
	"fmt"
	"strings"
)

// Channel retention bounds.
const (
	MinRetainedReleases     = 1
	MaxRetainedReleases     = 100
	DefaultRetainedReleases = 10
)

// ParseVersionName splits sites/{site}/versions/{id}.
func ParseVersionName(name string) (site, id string, err error) {
	return parseName(name, "versions")
}

// ParseChannelName splits sites/{site}/channels/{id}.
func ParseChannelName(name string) (site, id string, err error) {
	return parseName(name, "channels")
}

func parseName(name, collection string) (string, string, error) {
	// Names may carry a projects/{project}/ prefix.
	parts := strings.Split(name, "/")
	if len(parts) >= 2 && parts[0] == "projects" {
		parts = parts[2:]
	}
	if len(parts) != 4 || parts[0] != "sites" || parts[2] != collection || parts[1] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("invalid %s name %q: want sites/{site}/%s/{id}", strings.TrimSuffix(collection, "s"), name, collection)
	}
	return parts[1], parts[3], nil
}

var nameReplacer = strings.NewReplacer("/", "-", ":", "-", "_", "-", "#", "-")

// NormalizeName turns a branch or ref name into a valid channel id by
// replacing / : _ and # with -.
func NormalizeName(s string) string {
	return nameReplacer.Replace(s)
}
