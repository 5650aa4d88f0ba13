// Package output formats a SchemaProfile for export, mirroring
// cfg.ExportFormat: json, yaml, xml, or a human-readable summary.
package output

import (
	"fmt"
	"strings"

	"profiler/core"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatXML   Format = "xml"
	FormatHuman Format = "human"
)

// Formatter renders a SchemaProfile to its exported string form.
type Formatter interface {
	Format(*core.SchemaProfile) (string, error)
}

// NewFormatter resolves name to a Formatter. An empty name defaults to
// JSON, matching cfg.ExportFormat's documented default.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatJSON:
		return jsonFormatter{}, nil
	case FormatYAML:
		return yamlFormatter{}, nil
	case FormatXML:
		return xmlFormatter{}, nil
	case FormatHuman:
		return humanFormatter{}, nil
	default:
		return nil, fmt.Errorf("output: unsupported format: %s", name)
	}
}
