package config

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opmodel/hostctl/internal/cmdtypes"
	"github.com/opmodel/hostctl/internal/cmdutil"
	"github.com/opmodel/hostctl/internal/config"
	"github.com/opmodel/hostctl/internal/output"
)

// setting is one row of `config view`.
type setting struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

func newViewCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		Long: `Show the configuration hostctl would use for the next command.

Config path, project and site list the place they were resolved from
(flag, env, config or default). The remaining settings come from the
config file, HOSTCTL_* variables or built-in defaults. The token is never
printed.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runView(c, gc)
		},
	}
}

func runView(c *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	format, err := cmdutil.ResolveFormat(gc.Output, output.FormatTable,
		output.FormatTable, output.FormatYAML, output.FormatJSON)
	if err != nil {
		return err
	}

	settings := effectiveSettings(gc)
	if format != output.FormatTable {
		return output.WriteDocument(c.OutOrStdout(), settings, format)
	}

	tbl := output.NewTable("KEY", "VALUE", "SOURCE").Dim(2)
	for _, s := range settings {
		tbl.Row(s.Key, s.Value, s.Source)
	}
	_, err = tbl.WriteTo(c.OutOrStdout())
	return err
}

func effectiveSettings(gc *cmdtypes.GlobalConfig) []setting {
	var out []setting
	for _, r := range gc.Resolved {
		out = append(out, setting{Key: r.Key, Value: config.Redact(r.Key, r.Value), Source: string(r.Source)})
	}

	cfg := gc.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	for _, kv := range [][2]string{
		{"hostingOrigin", cfg.HostingOrigin},
		{"hostingAPIVersion", cfg.HostingAPIVersion},
		{"authOrigin", cfg.AuthOrigin},
		{"authDomainSuffix", cfg.AuthDomainSuffix},
		{"requestsPerSecond", strconv.FormatFloat(cfg.RequestsPerSecond, 'g', -1, 64)},
		{"pollInterval", cfg.PollInterval},
		{"token", config.Redact("token", cfg.Token)},
	} {
		out = append(out, setting{Key: kv[0], Value: kv[1], Source: string(config.SourceConfig)})
	}
	return out
}
