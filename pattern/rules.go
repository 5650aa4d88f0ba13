// Package pattern implements PatternRecognizer (C3): deterministic,
// name-and-sample-driven tagging of columns with semantic pattern names
// such as email_address or npi_identifier.
package pattern

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

//go:embed rules/default.json
var defaultRulesFS embed.FS

// Rule is the parsed shape of one entry in the pattern config JSON: a
// tagged struct with optional fields, replacing the dynamic attribute
// access of a loosely-typed map.
type Rule struct {
	FieldNames  []string `json:"field_names,omitempty"`
	Patterns    []string `json:"patterns,omitempty"`
	Regex       string   `json:"regex,omitempty"`
	ValidValues []string `json:"valid_values,omitempty"`
	DataTypes   []string `json:"data_types,omitempty"`
}

// compiledRule is a Rule with its regex precompiled and valid_values
// lowercased once, so detection never recompiles or re-lowercases on
// every call.
type compiledRule struct {
	name        string
	fieldNames  map[string]bool
	patterns    []string
	regex       *regexp.Regexp
	validValues map[string]bool
	dataTypes   map[string]bool
}

// specificity is the fixed conflict-resolution table: higher wins.
var specificity = map[string]int{
	"npi_identifier":    10,
	"email_address":     9,
	"patient_id":        8,
	"provider_id":       8,
	"phone_number":      7,
	"status_field":      6,
	"person_name":       5,
	"date_of_birth":     5,
	"basic_id_fallback": 1,
}

func loadRuleMap(data []byte) (map[string]Rule, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pattern: parse config: %w", err)
	}

	// Accept both the canonical flat map (pattern name -> rule) and the
	// legacy nested healthcare_patterns.patterns shape.
	if hc, ok := raw["healthcare_patterns"]; ok {
		var nested struct {
			Patterns map[string]Rule `json:"patterns"`
		}
		if err := json.Unmarshal(hc, &nested); err != nil {
			return nil, fmt.Errorf("pattern: parse legacy healthcare_patterns: %w", err)
		}
		out := make(map[string]Rule, len(nested.Patterns))
		for name, r := range nested.Patterns {
			out[name] = r
		}
		return out, nil
	}

	out := make(map[string]Rule, len(raw))
	for name, v := range raw {
		var r Rule
		if err := json.Unmarshal(v, &r); err != nil {
			return nil, fmt.Errorf("pattern: parse rule %q: %w", name, err)
		}
		out[name] = r
	}
	return out, nil
}

func compile(rules map[string]Rule) map[string]*compiledRule {
	out := make(map[string]*compiledRule, len(rules))
	for name, r := range rules {
		cr := &compiledRule{name: name, patterns: r.Patterns}
		if len(r.FieldNames) > 0 {
			cr.fieldNames = make(map[string]bool, len(r.FieldNames))
			for _, n := range r.FieldNames {
				cr.fieldNames[strings.ToLower(n)] = true
			}
		}
		if len(r.ValidValues) > 0 {
			cr.validValues = make(map[string]bool, len(r.ValidValues))
			for _, v := range r.ValidValues {
				cr.validValues[strings.ToLower(v)] = true
			}
		}
		if len(r.DataTypes) > 0 {
			cr.dataTypes = make(map[string]bool, len(r.DataTypes))
			for _, t := range r.DataTypes {
				cr.dataTypes[strings.ToLower(t)] = true
			}
		}
		if r.Regex != "" {
			re, err := regexp.Compile(r.Regex)
			if err == nil {
				cr.regex = re
			}
		}
		out[name] = cr
	}
	return out
}

func defaultRules() (map[string]Rule, error) {
	data, err := defaultRulesFS.ReadFile("rules/default.json")
	if err != nil {
		return nil, fmt.Errorf("pattern: read bundled default rules: %w", err)
	}
	return loadRuleMap(data)
}

func loadRulesFromFile(path string) (map[string]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pattern: read %q: %w", path, err)
	}
	return loadRuleMap(data)
}
