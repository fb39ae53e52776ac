// Package render turns a report into one of the supported output formats.
package render

import (
	"fmt"
	"sort"

	"gocohort/ports"
)

// Supported formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatXLSX     = "xlsx"
)

var constructors = map[string]func() ports.ReportRenderer{
	FormatMarkdown: func() ports.ReportRenderer { return NewMarkdownRenderer() },
	FormatHTML:     func() ports.ReportRenderer { return NewHTMLRenderer() },
	FormatJSON:     func() ports.ReportRenderer { return JSONRenderer{} },
	FormatYAML:     func() ports.ReportRenderer { return YAMLRenderer{} },
	FormatXLSX:     func() ports.ReportRenderer { return XLSXRenderer{} },
}

// New returns the renderer for format
func New(format string) (ports.ReportRenderer, error) {
	if format == "md" {
		format = FormatMarkdown
	}
	ctor, ok := constructors[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return ctor(), nil
}

// Formats lists supported format names, sorted
func Formats() []string {
	out := make([]string, 0, len(constructors))
	for f := range constructors {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
