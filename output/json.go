package output

import (
	"bytes"
	"encoding/json"

	"profiler/core"
)

type jsonFormatter struct{}

// Format serializes profile with the canonical field names and nesting
// from the data model's json tags, two-space indented for readability.
func (jsonFormatter) Format(profile *core.SchemaProfile) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(profile); err != nil {
		return "", err
	}
	return buf.String(), nil
}
