package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichPatientIdentifier(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	result := e.Enrich(ColumnSummary{Name: "patient_id", Type: "varchar(32)", KeyType: "PK"})

	assert.Contains(t, result.KeyPhrases, "patient identifier")
	assert.Equal(t, "PATIENT_ID", result.EntityType)
	assert.GreaterOrEqual(t, result.EntityConfidence, entityConfidenceCutoff)
	assert.Contains(t, result.SemanticTags, "patient")
}

func TestEnrichProviderIdentifierAsForeignKey(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	result := e.Enrich(ColumnSummary{Name: "provider_id", Type: "varchar(20)", KeyType: "FK"})

	assert.Equal(t, "PROVIDER_ID", result.EntityType)
	// field indicator (0.6) + foreign key match (0.4) + text format (0.2), clamped to 1.0
	assert.InDelta(t, 1.0, result.EntityConfidence, 0.0001)
}

func TestEnrichNoMatchReturnsEmptyEntity(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	result := e.Enrich(ColumnSummary{Name: "zzz_unrelated_col", Type: "blob"})

	assert.Equal(t, "", result.EntityType)
	assert.Equal(t, 0.0, result.EntityConfidence)
	assert.Nil(t, result.SemanticTags)
}

func TestEnrichKeyPhrasesDedupedAndTruncated(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	e.maxPhrases = 1

	result := e.Enrich(ColumnSummary{Name: "patient_id", Type: "varchar"})

	assert.Len(t, result.KeyPhrases, 1)
}

func TestRuleDoesNotFireOnDataTypeAlone(t *testing.T) {
	rule := KeyPhraseRule{
		FieldNamePatterns: []string{"diagnosis"},
		DataTypePatterns:  []string{"varchar"},
		KeyPhrases:        []string{"diagnosis code"},
	}
	assert.False(t, ruleFires(rule, ColumnSummary{Name: "unrelated", Type: "varchar"}))
	assert.True(t, ruleFires(rule, ColumnSummary{Name: "diagnosis_code", Type: "varchar"}))
}

func TestEnrichTimestampColumn(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	result := e.Enrich(ColumnSummary{Name: "created_at", Type: "timestamp"})

	assert.Contains(t, result.KeyPhrases, "audit timestamp")
	assert.Equal(t, "TIMESTAMP", result.EntityType)
}
