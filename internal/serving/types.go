// Package serving compiles user-authored hosting configuration into the
// normalized serving config accepted by the hosting backend.
package serving

import (
	"encoding/json"
	"fmt"
)

// PatternKind tags which matcher a MatchPattern carries.
type PatternKind int

const (
	// PatternGlob matches request paths with a glob.
	PatternGlob PatternKind = iota + 1
	// PatternRegex matches request paths with an RE2 expression.
	PatternRegex
)

// MatchPattern holds exactly one of a glob or a regex.
type MatchPattern struct {
	Kind  PatternKind
	Value string
}

// GlobPattern returns a glob MatchPattern.
func GlobPattern(glob string) MatchPattern {
	return MatchPattern{Kind: PatternGlob, Value: glob}
}

// RegexPattern returns a regex MatchPattern.
func RegexPattern(regex string) MatchPattern {
	return MatchPattern{Kind: PatternRegex, Value: regex}
}

func (p MatchPattern) String() string {
	if p.Kind == PatternRegex {
		return "regex:" + p.Value
	}
	return "glob:" + p.Value
}

// wire returns the glob and regex wire fields for p.
func (p MatchPattern) wire() (glob, regex string) {
	if p.Kind == PatternRegex {
		return "", p.Value
	}
	return p.Value, ""
}

func patternFromWire(kind RuleKind, glob, regex string) (MatchPattern, error) {
	return ExtractPattern(kind, RuleSpec{Glob: glob, Regex: regex})
}

// Header attaches response headers to matching requests.
type Header struct {
	Pattern MatchPattern
	Headers map[string]string
}

type headerWire struct {
	Glob    string            `json:"glob,omitempty"`
	Regex   string            `json:"regex,omitempty"`
	Headers map[string]string `json:"headers"`
}

// MarshalJSON encodes h in the backend wire shape.
func (h Header) MarshalJSON() ([]byte, error) {
	glob, regex := h.Pattern.wire()
	headers := h.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return json.Marshal(headerWire{Glob: glob, Regex: regex, Headers: headers})
}

// UnmarshalJSON decodes h from the backend wire shape.
func (h *Header) UnmarshalJSON(data []byte) error {
	var w headerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p, err := patternFromWire(RuleHeader, w.Glob, w.Regex)
	if err != nil {
		return err
	}
	h.Pattern = p
	h.Headers = w.Headers
	return nil
}

// Redirect sends matching requests to Location.
type Redirect struct {
	Pattern  MatchPattern
	Location string
	// StatusCode is zero when the backend default applies.
	StatusCode int
}

type redirectWire struct {
	Glob       string `json:"glob,omitempty"`
	Regex      string `json:"regex,omitempty"`
	Location   string `json:"location"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// MarshalJSON encodes r in the backend wire shape.
func (r Redirect) MarshalJSON() ([]byte, error) {
	glob, regex := r.Pattern.wire()
	return json.Marshal(redirectWire{Glob: glob, Regex: regex, Location: r.Location, StatusCode: r.StatusCode})
}

// UnmarshalJSON decodes r from the backend wire shape.
func (r *Redirect) UnmarshalJSON(data []byte) error {
	var w redirectWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p, err := patternFromWire(RuleRedirect, w.Glob, w.Regex)
	if err != nil {
		return err
	}
	*r = Redirect{Pattern: p, Location: w.Location, StatusCode: w.StatusCode}
	return nil
}

// RewriteTarget is the destination of a Rewrite. It is implemented by
// PathTarget, FunctionTarget, DynamicLinksTarget and CloudRunTarget.
type RewriteTarget interface {
	rewriteTarget()
	String() string
}

// PathTarget serves the file at Path.
type PathTarget struct {
	Path string
}

// FunctionTarget invokes the named function.
type FunctionTarget struct {
	Function string
}

// DynamicLinksTarget hands the request to dynamic links.
type DynamicLinksTarget struct{}

// CloudRunTarget proxies to a Cloud Run service.
type CloudRunTarget struct {
	ServiceID string `json:"serviceId"`
	Region    string `json:"region"`
}

func (PathTarget) rewriteTarget()         {}
func (FunctionTarget) rewriteTarget()     {}
func (DynamicLinksTarget) rewriteTarget() {}
func (CloudRunTarget) rewriteTarget()     {}

func (t PathTarget) String() string       { return "path:" + t.Path }
func (t FunctionTarget) String() string   { return "function:" + t.Function }
func (DynamicLinksTarget) String() string { return "dynamicLinks" }
func (t CloudRunTarget) String() string   { return fmt.Sprintf("run:%s@%s", t.ServiceID, t.Region) }

// Rewrite serves matching requests from Target.
type Rewrite struct {
	Pattern MatchPattern
	Target  RewriteTarget
}

type rewriteWire struct {
	Glob         string          `json:"glob,omitempty"`
	Regex        string          `json:"regex,omitempty"`
	Path         string          `json:"path,omitempty"`
	Function     string          `json:"function,omitempty"`
	DynamicLinks bool            `json:"dynamicLinks,omitempty"`
	Run          *CloudRunTarget `json:"run,omitempty"`
}

// MarshalJSON encodes r in the backend wire shape.
func (r Rewrite) MarshalJSON() ([]byte, error) {
	glob, regex := r.Pattern.wire()
	w := rewriteWire{Glob: glob, Regex: regex}
	switch t := r.Target.(type) {
	case PathTarget:
		w.Path = t.Path
	case FunctionTarget:
		w.Function = t.Function
	case DynamicLinksTarget:
		w.DynamicLinks = true
	case CloudRunTarget:
		w.Run = &t
	default:
		return nil, fmt.Errorf("rewrite %s: no target", r.Pattern)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes r from the backend wire shape.
func (r *Rewrite) UnmarshalJSON(data []byte) error {
	var w rewriteWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p, err := patternFromWire(RuleRewrite, w.Glob, w.Regex)
	if err != nil {
		return err
	}
	r.Pattern = p
	switch {
	case w.Path != "":
		r.Target = PathTarget{Path: w.Path}
	case w.Function != "":
		r.Target = FunctionTarget{Function: w.Function}
	case w.DynamicLinks:
		r.Target = DynamicLinksTarget{}
	case w.Run != nil:
		r.Target = *w.Run
	default:
		return &UnknownRewriteError{Index: -1, Raw: string(data)}
	}
	return nil
}

// TrailingSlashBehavior controls trailing slash normalization.
type TrailingSlashBehavior string

const (
	TrailingSlashUnspecified TrailingSlashBehavior = "TRAILING_SLASH_BEHAVIOR_UNSPECIFIED"
	TrailingSlashAdd         TrailingSlashBehavior = "ADD"
	TrailingSlashRemove      TrailingSlashBehavior = "REMOVE"
)

// AppAssociationBehavior controls automatic app association files.
type AppAssociationBehavior string

const (
	AppAssociationAuto AppAssociationBehavior = "AUTO"
	AppAssociationNone AppAssociationBehavior = "NONE"
)

// I18nConfig enables i18n rewrites rooted at Root.
type I18nConfig struct {
	Root string `json:"root"`
}

// ServingConfig is the normalized serving config attached to a version.
// A nil rule list is absent; a non-nil empty list is present and empty.
type ServingConfig struct {
	Headers               []Header
	Redirects             []Redirect
	Rewrites              []Rewrite
	CleanURLs             *bool
	TrailingSlashBehavior TrailingSlashBehavior
	AppAssociation        *AppAssociationBehavior
	I18n                  *I18nConfig
}

type servingConfigWire struct {
	Headers               *[]Header               `json:"headers,omitempty"`
	Redirects             *[]Redirect             `json:"redirects,omitempty"`
	Rewrites              *[]Rewrite              `json:"rewrites,omitempty"`
	CleanURLs             *bool                   `json:"cleanUrls,omitempty"`
	TrailingSlashBehavior TrailingSlashBehavior   `json:"trailingSlashBehavior,omitempty"`
	AppAssociation        *AppAssociationBehavior `json:"appAssociation,omitempty"`
	I18n                  *I18nConfig             `json:"i18n,omitempty"`
}

// IsEmpty reports whether no field of c is set.
func (c ServingConfig) IsEmpty() bool {
	return c.Headers == nil && c.Redirects == nil && c.Rewrites == nil &&
		c.CleanURLs == nil && c.TrailingSlashBehavior == "" &&
		c.AppAssociation == nil && c.I18n == nil
}

// MarshalJSON encodes c, keeping present-but-empty rule lists.
func (c ServingConfig) MarshalJSON() ([]byte, error) {
	w := servingConfigWire{
		CleanURLs:             c.CleanURLs,
		TrailingSlashBehavior: c.TrailingSlashBehavior,
		AppAssociation:        c.AppAssociation,
		I18n:                  c.I18n,
	}
	if c.Headers != nil {
		w.Headers = &c.Headers
	}
	if c.Redirects != nil {
		w.Redirects = &c.Redirects
	}
	if c.Rewrites != nil {
		w.Rewrites = &c.Rewrites
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes c from the backend wire shape.
func (c *ServingConfig) UnmarshalJSON(data []byte) error {
	var w servingConfigWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = ServingConfig{
		CleanURLs:             w.CleanURLs,
		TrailingSlashBehavior: w.TrailingSlashBehavior,
		AppAssociation:        w.AppAssociation,
		I18n:                  w.I18n,
	}
	if w.Headers != nil {
		c.Headers = *w.Headers
	}
	if w.Redirects != nil {
		c.Redirects = *w.Redirects
	}
	if w.Rewrites != nil {
		c.Rewrites = *w.Rewrites
	}
	return nil
}
