package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/hostctl/internal/errors"
)

func TestValidator_DefaultsAreValid(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(DefaultConfig()))
}

func TestValidator_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"bad site", Config{Site: "My_Site"}, "site"},
		{"bad project", Config{Project: "X"}, "project"},
		{"origin with path", Config{HostingOrigin: "https://example.com/v1"}, "hostingOrigin"},
		{"negative rate", Config{RequestsPerSecond: -1}, "requestsPerSecond"},
		{"bad poll interval", Config{PollInterval: "often"}, "pollInterval"},
		{"zero poll interval", Config{PollInterval: "0s"}, "pollInterval"},
	}

	v, err := NewValidator()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrValidation))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidator_AcceptsLocalEmulatorOrigin(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.HostingOrigin = "http://127.0.0.1:5000"
	cfg.Site = "app-staging"
	cfg.Project = "demo-project"
	assert.NoError(t, v.Validate(cfg))
}
