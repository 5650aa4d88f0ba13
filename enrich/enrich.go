// Package enrich implements Enricher (C8): a deterministic, stateless
// pass over a minimal column summary that produces key phrases, an
// entity-type guess, and semantic tags suitable for embedding. It never
// queries the database.
package enrich

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"profiler/core"
)

//go:embed rules/healthcare.json rules/general.json rules/entity_types.json
var rulesFS embed.FS

const (
	fieldIndicatorWeight   = 0.6
	keyTypeWeight          = 0.4
	typeHintWeight         = 0.2
	entityConfidenceCutoff = 0.4
	defaultMaxPhrases      = 5
)

// KeyPhraseRule is one field_name_patterns/data_type_patterns/key_phrases
// entry; a rule fires when every pattern group it specifies matches.
type KeyPhraseRule struct {
	FieldNamePatterns []string `json:"field_name_patterns,omitempty"`
	DataTypePatterns  []string `json:"data_type_patterns,omitempty"`
	KeyPhrases        []string `json:"key_phrases"`
}

// DataCharacteristics describes the structural hints an EntityType rule
// uses to score a column beyond its field name.
type DataCharacteristics struct {
	TypicallyPrimaryKey bool `json:"typically_primary_key,omitempty"`
	OftenForeignKey     bool `json:"often_foreign_key,omitempty"`
	TextFormat          bool `json:"text_format,omitempty"`
	UsuallyNumeric      bool `json:"usually_numeric,omitempty"`
	TemporalData        bool `json:"temporal_data,omitempty"`
}

// EntityType is one candidate classification an Enricher scores a
// column against.
type EntityType struct {
	Type                string              `json:"type"`
	SemanticTags        []string            `json:"semantic_tags"`
	FieldIndicators     []string            `json:"field_indicators"`
	DataCharacteristics DataCharacteristics `json:"data_characteristics"`
}

// ColumnSummary is the minimal column description Enricher consumes.
type ColumnSummary struct {
	Name     string
	Type     string
	Nullable bool
	KeyType  string // "PK", "FK", or ""
}

// Result is what Enrich produces for one column.
type Result struct {
	KeyPhrases       []string
	EntityType       string
	EntityConfidence float64
	SemanticTags     []string
}

// Enricher holds the parsed, immutable rule sets. It carries no other
// state and is safe for concurrent use.
type Enricher struct {
	healthcareRules map[string]KeyPhraseRule
	generalRules    map[string]KeyPhraseRule
	entityTypes     []EntityType
	maxPhrases      int
}

// New loads the bundled default rule sets.
func New() (*Enricher, error) {
	healthcare, err := loadKeyPhraseRules("rules/healthcare.json")
	if err != nil {
		return nil, err
	}
	general, err := loadKeyPhraseRules("rules/general.json")
	if err != nil {
		return nil, err
	}
	entities, err := loadEntityTypes("rules/entity_types.json")
	if err != nil {
		return nil, err
	}
	return &Enricher{
		healthcareRules: healthcare,
		generalRules:    general,
		entityTypes:     entities,
		maxPhrases:      defaultMaxPhrases,
	}, nil
}

func loadKeyPhraseRules(path string) (map[string]KeyPhraseRule, error) {
	data, err := rulesFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("enrich: read %q: %w", path, err)
	}
	var rules map[string]KeyPhraseRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("enrich: parse %q: %w", path, err)
	}
	return rules, nil
}

func loadEntityTypes(path string) ([]EntityType, error) {
	data, err := rulesFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("enrich: read %q: %w", path, err)
	}
	var categories map[string]map[string]EntityType
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("enrich: parse %q: %w", path, err)
	}

	// Flatten into a deterministically ordered slice so scoring ties
	// always resolve the same way regardless of map iteration order.
	var keys []string
	for category, entities := range categories {
		for name := range entities {
			keys = append(keys, category+"."+name)
		}
	}
	sort.Strings(keys)

	out := make([]EntityType, 0, len(keys))
	for _, key := range keys {
		parts := strings.SplitN(key, ".", 2)
		out = append(out, categories[parts[0]][parts[1]])
	}
	return out, nil
}

// EnrichSchema annotates every column of every table in profile with key
// phrases, an entity-type guess, and semantic tags. It never queries the
// database and runs after cross-table analysis so key-type (PK/FK)
// hints are already final.
func (e *Enricher) EnrichSchema(profile *core.SchemaProfile) {
	for _, table := range profile.Tables {
		for _, col := range table.Columns {
			result := e.Enrich(columnSummaryFrom(col))
			col.KeyPhrases = result.KeyPhrases
			col.EntityType = result.EntityType
			col.EntityConfidence = result.EntityConfidence
			col.SemanticTags = result.SemanticTags
		}
	}
}

func columnSummaryFrom(col *core.ColumnProfile) ColumnSummary {
	keyType := ""
	switch {
	case col.IsPrimaryKey:
		keyType = "PK"
	case col.IsForeignKey:
		keyType = "FK"
	}
	return ColumnSummary{
		Name:     col.Name,
		Type:     col.DataType,
		Nullable: col.IsNullable,
		KeyType:  keyType,
	}
}

// Enrich produces key phrases, an entity-type guess, and semantic tags
// for col.
func (e *Enricher) Enrich(col ColumnSummary) Result {
	phrases := e.keyPhrases(col)
	entityType, tags, confidence := e.classifyEntity(col)
	return Result{
		KeyPhrases:       phrases,
		EntityType:       entityType,
		EntityConfidence: confidence,
		SemanticTags:     tags,
	}
}

// keyPhrases applies the healthcare rule set, then the general rule
// set, collecting phrases from every rule whose pattern groups all
// match. Phrases are deduplicated in first-seen order and truncated to
// maxPhrases.
func (e *Enricher) keyPhrases(col ColumnSummary) []string {
	var collected []string
	collected = append(collected, applyRules(e.healthcareRules, col)...)
	collected = append(collected, applyRules(e.generalRules, col)...)
	return dedupeTruncate(collected, e.maxPhrases)
}

func applyRules(rules map[string]KeyPhraseRule, col ColumnSummary) []string {
	var names []string
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		rule := rules[name]
		if ruleFires(rule, col) {
			out = append(out, rule.KeyPhrases...)
		}
	}
	return out
}

// ruleFires requires every pattern group the rule declares to match;
// a group that is empty is ignored, not treated as a match.
func ruleFires(rule KeyPhraseRule, col ColumnSummary) bool {
	if len(rule.FieldNamePatterns) > 0 && !anySubstring(strings.ToLower(col.Name), rule.FieldNamePatterns) {
		return false
	}
	if len(rule.DataTypePatterns) > 0 && !anySubstring(strings.ToLower(col.Type), rule.DataTypePatterns) {
		return false
	}
	return len(rule.FieldNamePatterns) > 0 || len(rule.DataTypePatterns) > 0
}

func anySubstring(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func dedupeTruncate(phrases []string, max int) []string {
	seen := make(map[string]bool, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if len(out) >= max {
			break
		}
	}
	return out
}

// classifyEntity scores col against every known entity type and
// returns the highest scorer, provided its confidence clears
// entityConfidenceCutoff. No entity clearing the cutoff yields a zero
// Result.
func (e *Enricher) classifyEntity(col ColumnSummary) (entityType string, tags []string, confidence float64) {
	var best EntityType
	var bestScore float64

	for _, et := range e.entityTypes {
		score := scoreEntity(et, col)
		if score > bestScore {
			bestScore = score
			best = et
		}
	}

	if bestScore < entityConfidenceCutoff {
		return "", nil, 0
	}
	return best.Type, best.SemanticTags, bestScore
}

func scoreEntity(et EntityType, col ColumnSummary) float64 {
	var score float64

	if anySubstring(strings.ToLower(col.Name), et.FieldIndicators) {
		score += fieldIndicatorWeight
	}

	dc := et.DataCharacteristics
	if (dc.TypicallyPrimaryKey && col.KeyType == "PK") || (dc.OftenForeignKey && col.KeyType == "FK") {
		score += keyTypeWeight
	}

	lowerType := strings.ToLower(col.Type)
	switch {
	case dc.TextFormat && isTextType(lowerType):
		score += typeHintWeight
	case dc.UsuallyNumeric && isNumericType(lowerType):
		score += typeHintWeight
	case dc.TemporalData && isTemporalType(lowerType):
		score += typeHintWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func isTextType(t string) bool {
	for _, s := range []string{"char", "text", "varchar"} {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func isNumericType(t string) bool {
	for _, s := range []string{"int", "decimal", "numeric", "float", "double", "real"} {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func isTemporalType(t string) bool {
	for _, s := range []string{"date", "time", "timestamp"} {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}
