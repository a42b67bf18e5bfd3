package testutil

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/config"
)

// GlobalConfig returns a resolved CLI config whose hosting and auth origins
// point at origin, for project my-proj and site app.
func GlobalConfig(origin string) *cmdtypes.GlobalConfig {
	cfg := (&config.Config{
		HostingOrigin:     origin,
		AuthOrigin:        origin,
		RequestsPerSecond: 1000,
		PollInterval:      "1ms",
	}).WithDefaults()
	return &cmdtypes.GlobalConfig{Config: cfg, Project: "my-proj", Site: "app"}
}

// Execute runs c with args and returns what it wrote to stdout and stderr.
func Execute(t *testing.T, c *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	c.SetArgs(args)
	err := c.Execute()
	return stdout.String(), stderr.String(), err
}
