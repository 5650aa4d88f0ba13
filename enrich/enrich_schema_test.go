package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profiler/core"
)

func TestEnrichSchemaAnnotatesColumns(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	profile := &core.SchemaProfile{
		Tables: []*core.TableProfile{
			{
				Name: "patients",
				Columns: []*core.ColumnProfile{
					{Name: "patient_id", DataType: "varchar(32)", IsPrimaryKey: true},
					{Name: "notes", DataType: "text"},
				},
			},
		},
	}

	e.EnrichSchema(profile)

	patientCol := profile.Tables[0].Columns[0]
	assert.Equal(t, "PATIENT_ID", patientCol.EntityType)
	assert.NotEmpty(t, patientCol.KeyPhrases)

	notesCol := profile.Tables[0].Columns[1]
	assert.Equal(t, "", notesCol.EntityType)
}
