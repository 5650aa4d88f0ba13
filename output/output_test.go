package output

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profiler/core"
)

func sampleProfile() *core.SchemaProfile {
	p := &core.SchemaProfile{
		DatabaseName: "appdb",
		DatabaseType: core.DatabaseMySQL,
		Tables: []*core.TableProfile{
			{
				Name:              "users",
				EstimatedRowCount: 10,
				Columns: []*core.ColumnProfile{
					{Name: "id", DataType: "int", IsPrimaryKey: true},
					{Name: "email", DataType: "varchar", DetectedPatterns: []string{"email_address"}},
				},
			},
		},
		PatternSummary: map[string]int{"email_address": 1},
	}
	p.Recompute()
	return p
}

func TestNewFormatterDefaultsToJSON(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)
	assert.IsType(t, jsonFormatter{}, f)
}

func TestNewFormatterUnsupported(t *testing.T) {
	_, err := NewFormatter("xml-legacy")
	assert.Error(t, err)
}

func TestJSONFormatterProducesValidJSON(t *testing.T) {
	f, _ := NewFormatter("json")
	out, err := f.Format(sampleProfile())
	require.NoError(t, err)
	assert.Contains(t, out, `"database_name": "appdb"`)
	assert.Contains(t, out, `"total_columns": 2`)
}

func TestYAMLFormatterUsesSnakeCaseKeys(t *testing.T) {
	f, _ := NewFormatter("yaml")
	out, err := f.Format(sampleProfile())
	require.NoError(t, err)
	assert.Contains(t, out, "database_name: appdb")
}

func TestHumanFormatterSummary(t *testing.T) {
	f, _ := NewFormatter("human")
	out, err := f.Format(sampleProfile())
	require.NoError(t, err)
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "[PK]")
}

func TestXMLFormatterProducesValidXML(t *testing.T) {
	f, err := NewFormatter("xml")
	require.NoError(t, err)
	assert.IsType(t, xmlFormatter{}, f)

	out, err := f.Format(sampleProfile())
	require.NoError(t, err)
	assert.Contains(t, out, "<schema_profile>")
	assert.Contains(t, out, "<database_name>appdb</database_name>")
	assert.Contains(t, out, "<name>users</name>")
	assert.Contains(t, out, `<pattern key="email_address" value="1"></pattern>`)

	var doc xmlSchemaProfile
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "appdb", doc.DatabaseName)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "users", doc.Tables[0].Name)
	require.Len(t, doc.Tables[0].Columns, 2)
	assert.True(t, doc.Tables[0].Columns[0].IsPrimaryKey)
}

func TestXMLFormatterConvertsMapFieldsToSortedElements(t *testing.T) {
	p := sampleProfile()
	p.PatternSummary["ssn"] = 3
	p.Tables[0].SampleData = []map[string]any{{"id": 1, "email": "a@b.com"}}

	f, _ := NewFormatter("xml")
	out, err := f.Format(p)
	require.NoError(t, err)

	// pattern_summary keys must appear in sorted order regardless of map
	// iteration order.
	ssnIdx := indexOf(out, "ssn")
	emailIdx := indexOf(out, "email_address")
	require.NotEqual(t, -1, ssnIdx)
	require.NotEqual(t, -1, emailIdx)
	assert.Less(t, emailIdx, ssnIdx)

	assert.Contains(t, out, `<row>`)
	assert.Contains(t, out, `key="email"`)
}

func indexOf(s, substr string) int {
	return strings.Index(s, substr)
}
