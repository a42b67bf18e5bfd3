package authdomain

import (
	"context"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opmodel/hostctl/internal/hosting"
)

// DefaultSuffix is the platform's default hosting domain suffix.
const DefaultSuffix = "firebaseapp.com"

// ChannelLister lists a site's live channels.
type ChannelLister interface {
	ListChannels(ctx context.Context, project, site string) ([]hosting.Channel, error)
}

// Reason explains a Decision.
type Reason string

const (
	ReasonLiveChannel   Reason = "live channel"
	ReasonStalePreview  Reason = "stale preview channel"
	ReasonPlatformAlias Reason = "platform default domain"
	ReasonUnrelated     Reason = "unrelated domain"
)

// Decision records whether an authorized domain survives a clean.
type Decision struct {
	Domain string `json:"domain"`
	Keep   bool   `json:"keep"`
	Reason Reason `json:"reason"`
}

// Reconciler applies allowlist changes through a Store.
type Reconciler struct {
	store    Store
	channels ChannelLister
	suffix   string
}

// NewReconciler creates a Reconciler. An empty suffix uses DefaultSuffix.
func NewReconciler(store Store, channels ChannelLister, suffix string) *Reconciler {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Reconciler{store: store, channels: channels, suffix: suffix}
}

// Domain strips the scheme and any trailing slash from a channel URL.
func Domain(rawURL string) string {
	d := strings.TrimPrefix(rawURL, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimSuffix(d, "/")
}

// AddAuthDomain authorizes the domain of url. When it is already present
// the current list is returned and nothing is written.
func (r *Reconciler) AddAuthDomain(ctx context.Context, project, url string) ([]string, error) {
	domains, err := r.store.AuthorizedDomains(ctx, project)
	if err != nil {
		return nil, err
	}
	domain := Domain(url)
	if sets.New(domains...).Has(domain) {
		return domains, nil
	}
	updated := append(append([]string{}, domains...), domain)
	return r.store.UpdateAuthorizedDomains(ctx, project, updated)
}

// RemoveAuthDomain drops the domain of url. An empty allowlist is left
// untouched.
func (r *Reconciler) RemoveAuthDomain(ctx context.Context, project, url string) ([]string, error) {
	domains, err := r.store.AuthorizedDomains(ctx, project)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return domains, nil
	}
	target := Domain(url)
	kept := make([]string, 0, len(domains))
	for _, d := range domains {
		if d != target {
			kept = append(kept, d)
		}
	}
	return r.store.UpdateAuthorizedDomains(ctx, project, kept)
}

// Classify decides, for every authorized domain, whether it stays. A
// domain with the site's preview prefix and no live channel is dropped;
// everything else stays, in the original order.
func (r *Reconciler) Classify(ctx context.Context, project, site string) ([]Decision, error) {
	channels, err := r.channels.ListChannels(ctx, project, site)
	if err != nil {
		return nil, err
	}
	live := sets.New[string]()
	for _, ch := range channels {
		if ch.URL != "" {
			live.Insert(Domain(ch.URL))
		}
	}

	domains, err := r.store.AuthorizedDomains(ctx, project)
	if err != nil {
		return nil, err
	}

	preview := regexp.MustCompile("(?i)^" + regexp.QuoteMeta(site) + "--")
	decisions := make([]Decision, 0, len(domains))
	for _, d := range domains {
		var dec Decision
		switch {
		case live.Has(d):
			dec = Decision{Domain: d, Keep: true, Reason: ReasonLiveChannel}
		case preview.MatchString(d):
			dec = Decision{Domain: d, Keep: false, Reason: ReasonStalePreview}
		case strings.HasSuffix(d, r.suffix):
			dec = Decision{Domain: d, Keep: true, Reason: ReasonPlatformAlias}
		default:
			dec = Decision{Domain: d, Keep: true, Reason: ReasonUnrelated}
		}
		decisions = append(decisions, dec)
	}
	return decisions, nil
}

// GetCleanDomains returns the authorized domains that should remain.
func (r *Reconciler) GetCleanDomains(ctx context.Context, project, site string) ([]string, error) {
	decisions, err := r.Classify(ctx, project, site)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(decisions))
	for _, d := range decisions {
		if d.Keep {
			kept = append(kept, d.Domain)
		}
	}
	return kept, nil
}

// CleanAuthState replaces the allowlist with GetCleanDomains.
func (r *Reconciler) CleanAuthState(ctx context.Context, project, site string) ([]string, error) {
	kept, err := r.GetCleanDomains(ctx, project, site)
	if err != nil {
		return nil, err
	}
	return r.store.UpdateAuthorizedDomains(ctx, project, kept)
}
