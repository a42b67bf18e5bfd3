package serving

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"
)

// Diff renders the differences between a live and a desired serving config.
// It returns an empty string when they are equal.
func Diff(live, desired ServingConfig, useColor bool) (string, error) {
	liveInput, err := toInputFile("live", live)
	if err != nil {
		return "", fmt.Errorf("encoding live config: %w", err)
	}

	desiredInput, err := toInputFile("desired", desired)
	if err != nil {
		return "", fmt.Errorf("encoding desired config: %w", err)
	}

	report, err := dyff.CompareInputFiles(liveInput, desiredInput)
	if err != nil {
		return "", fmt.Errorf("comparing serving configs: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "", nil
	}

	return renderReport(report, useColor)
}

func toInputFile(name string, cfg ServingConfig) (ytbx.InputFile, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	yamlData, err := yaml.JSONToYAML(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	docs, err := ytbx.LoadYAMLDocuments(yamlData)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{
		Location:  name,
		Documents: docs,
	}, nil
}

func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}

	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
