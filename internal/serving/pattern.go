package serving

import (
	"fmt"

	oerrors "github.com/opmodel/hostctl/internal/errors"
)

// RuleKind names the kind of rule a pattern belongs to.
type RuleKind string

const (
	RuleRewrite  RuleKind = "rewrite"
	RuleRedirect RuleKind = "redirect"
	RuleHeader   RuleKind = "header"
)

// ConflictingPatternError indicates a rule set both a glob and a regex.
type ConflictingPatternError struct {
	Kind RuleKind
}

func (e *ConflictingPatternError) Error() string {
	return fmt.Sprintf("cannot specify a %s pattern with both a glob and regex", e.Kind)
}

func (e *ConflictingPatternError) Unwrap() error {
	return oerrors.ErrValidation
}

// MissingPatternError indicates a rule set neither a glob nor a regex.
type MissingPatternError struct {
	Kind RuleKind
}

func (e *MissingPatternError) Error() string {
	return fmt.Sprintf("cannot specify a %s with no pattern (either a glob or regex required)", e.Kind)
}

func (e *MissingPatternError) Unwrap() error {
	return oerrors.ErrValidation
}

// UnknownRewriteError indicates a rewrite with no recognized target.
type UnknownRewriteError struct {
	// Index is the position in the rewrites list, or -1 when unknown.
	Index int
	// Raw is the offending entry as written, unknown keys included.
	Raw string
}

func (e *UnknownRewriteError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("unknown rewrite: %s", e.Raw)
	}
	return fmt.Sprintf("unknown rewrite at index %d: %s", e.Index, e.Raw)
}

func (e *UnknownRewriteError) Unwrap() error {
	return oerrors.ErrValidation
}

// ExtractPattern resolves the single match pattern of rule.
// source takes precedence over glob; the raw string is never modified.
func ExtractPattern(kind RuleKind, rule RuleSpec) (MatchPattern, error) {
	glob := rule.Source
	if glob == "" {
		glob = rule.Glob
	}

	switch {
	case glob != "" && rule.Regex != "":
		return MatchPattern{}, &ConflictingPatternError{Kind: kind}
	case glob != "":
		return GlobPattern(glob), nil
	case rule.Regex != "":
		return RegexPattern(rule.Regex), nil
	}
	return MatchPattern{}, &MissingPatternError{Kind: kind}
}
