package pattern

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"profiler/core"
)

const (
	defaultFieldNameMatchThreshold = 0.8
	defaultNoFieldNameThreshold    = 0.95
	maxSampleSize                  = 10
	minSampleSize                  = 3
)

// snapshot is the immutable compiled-rule set a detection reads. Reload
// builds a new snapshot off to the side and swaps the pointer atomically;
// in-flight detections keep using whatever snapshot they already loaded.
type snapshot struct {
	rules map[string]*compiledRule
}

// Recognizer is the C3 PatternRecognizer.
type Recognizer struct {
	current atomic.Pointer[snapshot]
	path    string
	logger  *zap.Logger
}

// New constructs a Recognizer. An empty path loads the bundled default
// rule set; a non-empty path is read from disk and falls back to an
// empty rule set (detection then always returns nil, never an error) if
// the file is missing or malformed, wrapping core.ErrPatternConfigInvalid.
func New(path string, logger *zap.Logger) *Recognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recognizer{path: path, logger: logger}
	r.current.Store(&snapshot{rules: map[string]*compiledRule{}})
	if err := r.ReloadPatterns(); err != nil {
		logger.Error("failed to load pattern config, detection disabled", zap.Error(err))
	}
	return r
}

// ReloadPatterns replaces the active rule set atomically. Call at any
// time, including concurrently with DetectPatterns.
func (r *Recognizer) ReloadPatterns() error {
	var rules map[string]Rule
	var err error
	if r.path == "" {
		rules, err = defaultRules()
	} else {
		rules, err = loadRulesFromFile(r.path)
	}
	if err != nil {
		r.current.Store(&snapshot{rules: map[string]*compiledRule{}})
		return fmt.Errorf("%w: %s", core.ErrPatternConfigInvalid, err)
	}
	r.current.Store(&snapshot{rules: compile(rules)})
	return nil
}

// DetectPatterns tags fieldName with zero or more pattern names given
// sampleValues, deterministically: same inputs and loaded config always
// produce the same output.
func (r *Recognizer) DetectPatterns(sampleValues []string, fieldName string) []string {
	snap := r.current.Load()
	if snap == nil || len(snap.rules) == 0 {
		return nil
	}

	values := nonEmptyValues(sampleValues)
	if len(values) < minSampleSize {
		return nil
	}

	names := make([]string, 0, len(snap.rules))
	for name := range snap.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var detected []string
	for _, name := range names {
		if matches(snap.rules[name], values, fieldName) {
			detected = append(detected, name)
		}
	}
	if len(detected) == 0 {
		return nil
	}
	return resolveConflicts(detected)
}

// ValidateValue checks v against pattern's regex or valid_values.
func (r *Recognizer) ValidateValue(v, patternName string) bool {
	snap := r.current.Load()
	if snap == nil {
		return false
	}
	rule, ok := snap.rules[patternName]
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if rule.regex != nil {
		return rule.regex.MatchString(v)
	}
	if rule.validValues != nil {
		return rule.validValues[strings.ToLower(v)]
	}
	return false
}

func nonEmptyValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func matches(rule *compiledRule, values []string, fieldName string) bool {
	fieldMatch := fieldName != "" && matchesFieldName(rule, fieldName)
	if fieldMatch {
		return dataMatch(rule, values, defaultFieldNameMatchThreshold)
	}
	if rule.regex != nil {
		return dataMatch(rule, values, defaultNoFieldNameThreshold)
	}
	return false
}

func matchesFieldName(rule *compiledRule, fieldName string) bool {
	lower := strings.ToLower(fieldName)
	if rule.fieldNames != nil && rule.fieldNames[lower] {
		return true
	}
	for _, p := range rule.patterns {
		if matchesWildcard(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func matchesWildcard(fieldName, pattern string) bool {
	switch {
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 1:
		return strings.Contains(fieldName, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(fieldName, pattern[1:])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(fieldName, pattern[:len(pattern)-1])
	default:
		return fieldName == pattern
	}
}

func dataMatch(rule *compiledRule, values []string, threshold float64) bool {
	sampleSize := len(values)
	if sampleSize > maxSampleSize {
		sampleSize = maxSampleSize
	}
	if sampleSize == 0 {
		return false
	}

	matches := 0
	switch {
	case rule.regex != nil:
		for _, v := range values[:sampleSize] {
			if rule.regex.MatchString(v) {
				matches++
			}
		}
	case rule.validValues != nil:
		for _, v := range values[:sampleSize] {
			if rule.validValues[strings.ToLower(v)] {
				matches++
			}
		}
	default:
		return false
	}

	return float64(matches)/float64(sampleSize) >= threshold
}

// resolveConflicts ranks detected by specificity, highest first; ties are
// broken by name (detected arrives name-sorted from DetectPatterns, and
// SliceStable preserves that order among equal specificities) so the
// result is the same on every call regardless of map iteration order.
func resolveConflicts(detected []string) []string {
	if len(detected) <= 1 {
		return detected
	}
	sort.SliceStable(detected, func(i, j int) bool {
		return specificity[detected[i]] > specificity[detected[j]]
	})

	if detected[0] == "npi_identifier" || detected[0] == "email_address" {
		return detected[:1]
	}

	result := []string{detected[0]}
	if specificity[detected[1]] >= specificity[detected[0]]-2 {
		result = append(result, detected[1])
	}
	return result
}
