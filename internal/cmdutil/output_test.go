package cmdutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/hostctl/internal/authdomain"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/output"
)

func TestPrintValidationError_DetailError(t *testing.T) {
	var logBuf bytes.Buffer
	output.SetupLogging(output.LogConfig{})
	output.SetLogWriter(&logBuf)

	// Details writes directly to stderr.
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	PrintValidationError("compile failed", oerrors.NewValidationError("bad redirect", "hosting.yaml", "redirects.0.type", ""))

	w.Close()
	os.Stderr = oldStderr
	var stderrBuf bytes.Buffer
	_, _ = io.Copy(&stderrBuf, r)

	assert.Contains(t, logBuf.String(), "compile failed")
	assert.Contains(t, stderrBuf.String(), "Location: hosting.yaml")
	assert.Contains(t, stderrBuf.String(), "Field: redirects.0.type")
	assert.Contains(t, stderrBuf.String(), "bad redirect")
}

func TestPrintValidationError_GenericError(t *testing.T) {
	var buf bytes.Buffer
	output.SetupLogging(output.LogConfig{})
	output.SetLogWriter(&buf)

	PrintValidationError("compile failed", errors.New("boom"))

	assert.Contains(t, buf.String(), "compile failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestResolveFormat(t *testing.T) {
	f, err := ResolveFormat("", output.FormatTable, output.FormatTable, output.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, output.FormatTable, f)

	f, err = ResolveFormat("JSON", output.FormatTable, output.FormatTable, output.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, f)

	_, err = ResolveFormat("yaml", output.FormatTable, output.FormatTable, output.FormatJSON)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))

	_, err = ResolveFormat("xml", output.FormatYAML, output.FormatYAML)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestChannelTable(t *testing.T) {
	expire := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tbl := ChannelTable([]hosting.Channel{
		{Name: "sites/my-site/channels/live", URL: "https://my-site.web.app"},
		{Name: "sites/my-site/channels/pr-1", URL: "https://my-site--pr-1-abc.web.app", ExpireTime: expire, RetainedReleaseCount: 42},
	})

	assert.Equal(t, 2, tbl.Len())
	s := tbl.String()
	assert.Contains(t, s, "CHANNEL")
	assert.Contains(t, s, "pr-1")
	assert.Contains(t, s, "never")
	assert.Contains(t, s, "https://my-site--pr-1-abc.web.app")
	assert.Contains(t, s, "RETAINED")
	assert.Contains(t, s, "42")
}

func TestReleaseTable(t *testing.T) {
	tbl := ReleaseTable([]hosting.Release{{
		Name:        "sites/my-site/channels/live/releases/r1",
		Version:     &hosting.Version{Name: "sites/my-site/versions/v1"},
		Type:        hosting.ReleaseTypeDeploy,
		ReleaseUser: &hosting.ActingUser{Email: "dev@example.com"},
	}})

	assert.Equal(t, 1, tbl.Len())
	s := tbl.String()
	assert.Contains(t, s, "v1")
	assert.Contains(t, s, "DEPLOY")
	assert.Contains(t, s, "dev@example.com")
}

func TestDecisionLine(t *testing.T) {
	kept := DecisionLine(authdomain.Decision{Domain: "example.com", Keep: true, Reason: authdomain.ReasonUnrelated})
	assert.Contains(t, kept, "example.com")
	assert.Contains(t, kept, output.StatusKept)

	dropped := DecisionLine(authdomain.Decision{Domain: "site--old.web.app", Reason: authdomain.ReasonStalePreview})
	assert.Contains(t, dropped, output.StatusPruned)
	assert.Contains(t, dropped, string(authdomain.ReasonStalePreview))
}
