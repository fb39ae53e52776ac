package render

import (
	"encoding/json"
	"io"

	"gocohort/domain/report"

	"gopkg.in/yaml.v3"
)

// JSONRenderer writes the report as indented JSON
type JSONRenderer struct{}

// Format returns "json"
func (JSONRenderer) Format() string { return FormatJSON }

// Render writes rep to w
func (JSONRenderer) Render(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// YAMLRenderer writes the report as YAML
type YAMLRenderer struct{}

// Format returns "yaml"
func (YAMLRenderer) Format() string { return FormatYAML }

// Render writes rep to w
func (YAMLRenderer) Render(w io.Writer, rep *report.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}
