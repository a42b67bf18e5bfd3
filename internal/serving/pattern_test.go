package serving

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/hostctl/internal/errors"
)

func TestExtractPattern(t *testing.T) {
	tests := []struct {
		name    string
		rule    RuleSpec
		want    MatchPattern
		wantErr any
	}{
		{"source is a glob", RuleSpec{Source: "/a/**"}, GlobPattern("/a/**"), nil},
		{"glob", RuleSpec{Glob: "**/*.js"}, GlobPattern("**/*.js"), nil},
		{"source wins over glob", RuleSpec{Source: "/s", Glob: "/g"}, GlobPattern("/s"), nil},
		{"regex kept raw", RuleSpec{Regex: `^/(\d+)\.html$`}, RegexPattern(`^/(\d+)\.html$`), nil},
		{"glob and regex", RuleSpec{Glob: "/g", Regex: "/r"}, MatchPattern{}, &ConflictingPatternError{}},
		{"source and regex", RuleSpec{Source: "/s", Regex: "/r"}, MatchPattern{}, &ConflictingPatternError{}},
		{"neither", RuleSpec{Destination: "/index.html"}, MatchPattern{}, &MissingPatternError{}},
	}

	for _, kind := range []RuleKind{RuleRewrite, RuleRedirect, RuleHeader} {
		for _, tt := range tests {
			t.Run(string(kind)+"/"+tt.name, func(t *testing.T) {
				got, err := ExtractPattern(kind, tt.rule)
				switch tt.wantErr.(type) {
				case nil:
					require.NoError(t, err)
					assert.Equal(t, tt.want, got)
				case *ConflictingPatternError:
					var target *ConflictingPatternError
					require.True(t, errors.As(err, &target))
					assert.Equal(t, kind, target.Kind)
					assert.Contains(t, err.Error(), string(kind))
				case *MissingPatternError:
					var target *MissingPatternError
					require.True(t, errors.As(err, &target))
					assert.Equal(t, kind, target.Kind)
					assert.Contains(t, err.Error(), string(kind))
				}
				if tt.wantErr != nil {
					assert.True(t, errors.Is(err, oerrors.ErrValidation))
				}
			})
		}
	}
}
