package serving

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

// HostingSpec is the user-authored hosting configuration.
// Unknown keys are ignored.
type HostingSpec struct {
	Redirects      []RuleSpec              `json:"redirects,omitempty"`
	Rewrites       []RuleSpec              `json:"rewrites,omitempty"`
	Headers        []RuleSpec              `json:"headers,omitempty"`
	CleanURLs      *bool                   `json:"cleanUrls,omitempty"`
	TrailingSlash  *bool                   `json:"trailingSlash,omitempty"`
	AppAssociation *AppAssociationBehavior `json:"appAssociation,omitempty"`
	I18n           *I18nConfig             `json:"i18n,omitempty"`
}

// RuleSpec is one loosely-typed rule record shared by all rule kinds.
type RuleSpec struct {
	Source       string       `json:"source,omitempty"`
	Glob         string       `json:"glob,omitempty"`
	Regex        string       `json:"regex,omitempty"`
	Destination  string       `json:"destination,omitempty"`
	Function     string       `json:"function,omitempty"`
	DynamicLinks bool         `json:"dynamicLinks,omitempty"`
	Run          *RunSpec     `json:"run,omitempty"`
	Type         int          `json:"type,omitempty"`
	Headers      []HeaderPair `json:"headers,omitempty"`

	// raw is the entry as written, unknown keys included.
	raw json.RawMessage
}

// UnmarshalJSON decodes the known fields and keeps the raw entry for error
// messages.
func (r *RuleSpec) UnmarshalJSON(data []byte) error {
	type plain RuleSpec
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RuleSpec(p)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Raw returns the entry as it was written. Rules built in code have no raw
// form and are re-encoded from their known fields.
func (r RuleSpec) Raw() string {
	if len(r.raw) > 0 {
		return string(r.raw)
	}
	data, _ := json.Marshal(r)
	return string(data)
}

// RunSpec names a Cloud Run service. Region may be empty.
type RunSpec struct {
	ServiceID string `json:"serviceId"`
	Region    string `json:"region,omitempty"`
}

// HeaderPair is one key/value header entry.
type HeaderPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseHostingSpec decodes a hosting configuration written as JSON or YAML.
// Empty or null input yields a nil spec.
func ParseHostingSpec(data []byte) (*HostingSpec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var spec *HostingSpec
	if err := yaml.Unmarshal(trimmed, &spec); err != nil {
		return nil, fmt.Errorf("parsing hosting config: %w", err)
	}
	return spec, nil
}
