package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"
)

// OutputFormat is the value of the --output flag.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatYAML  OutputFormat = "yaml"
	FormatJSON  OutputFormat = "json"
)

func (f OutputFormat) String() string {
	return string(f)
}

var formatNames = map[string]OutputFormat{
	"table": FormatTable,
	"yaml":  FormatYAML,
	"yml":   FormatYAML,
	"json":  FormatJSON,
}

// ParseOutputFormat looks up s case-insensitively. "yml" is accepted as yaml.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	f, ok := formatNames[strings.ToLower(s)]
	return f, ok
}

// WriteDocument writes v as indented JSON, or as YAML converted from that
// JSON so MarshalJSON methods and json tags drive both encodings. Table is
// treated as YAML for commands with no tabular view.
func WriteDocument(w io.Writer, v any, format OutputFormat) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if format == FormatJSON {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	if format != FormatYAML && format != FormatTable {
		return fmt.Errorf("unsupported output format %q", format)
	}
	out, err := yaml.JSONToYAML(data)
	if err != nil {
		return fmt.Errorf("converting document to yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}
