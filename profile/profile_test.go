package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profiler/core"
	"profiler/dialect"
	"profiler/extractor"
)

type fakeConnector struct{ results map[string][]map[string]any }

func (f *fakeConnector) ExecuteQuery(ctx context.Context, sql string, params ...any) ([]map[string]any, error) {
	return f.results[sql], nil
}

func (f *fakeConnector) HealthCheck(ctx context.Context) bool { return true }

func TestProfileTableClearsSampleDataWhenDisabled(t *testing.T) {
	// The extractor fetches sample rows; ProfileTable with
	// includeSampleData=false drops them from the returned profile.
	d := dialect.NewMySQL()
	colsSQL, _ := d.ColumnsQuery("appdb", "users")
	sampleSQL, _ := d.SampleQuery("appdb", "users", nil, 5)
	conn := &fakeConnector{results: map[string][]map[string]any{
		colsSQL:   {{"column_name": "email", "data_type": "varchar", "ordinal_position": int64(1)}},
		sampleSQL: {{"email": "a@example.com"}},
	}}
	ex := extractor.New(conn, core.DatabaseMySQL, "appdb", extractor.Options{IncludeSampleData: true, SampleDataLimit: 5}, zap.NewNop())
	tp := New(ex, nil, false, false, zap.NewNop()).ProfileTable(context.Background(), dialect.TableRow{TableName: "users"}, nil)

	require.Len(t, tp.Columns, 1)
	assert.Nil(t, tp.SampleData)
	assert.Nil(t, tp.Columns[0].SampleValues)
}

func TestAnalyzeSchemaCrossTableRelationships(t *testing.T) {
	profileData := &core.SchemaProfile{
		Tables: []*core.TableProfile{
			{
				Name:        "orders",
				PrimaryKeys: []string{"id"},
				Columns: []*core.ColumnProfile{
					{Name: "id"},
					{Name: "customer_id"},
				},
				ForeignKeys: []*core.ForeignKey{
					{ColumnName: "customer_id", ReferencedTable: "customers", ReferencedColumn: "id", ConstraintName: "fk_customer"},
				},
			},
			{
				Name:        "customers",
				PrimaryKeys: []string{"id"},
				Columns: []*core.ColumnProfile{
					{Name: "id"},
				},
			},
		},
	}

	AnalyzeSchema(profileData)

	require.Len(t, profileData.CrossTableRelations, 1)
	rel := profileData.CrossTableRelations[0]
	assert.Equal(t, "foreign_key", rel.Type)
	assert.Equal(t, "orders", rel.FromTable)
	assert.Equal(t, "customers", rel.ToTable)
}

func TestAnalyzeSchemaPotentialRelationships(t *testing.T) {
	profileData := &core.SchemaProfile{
		Tables: []*core.TableProfile{
			{
				Name:        "invoices",
				PrimaryKeys: []string{"id"},
				Columns: []*core.ColumnProfile{
					{Name: "id"},
					{Name: "customer_id"},
				},
			},
			{
				Name:        "customer",
				PrimaryKeys: []string{"id"},
				Columns: []*core.ColumnProfile{
					{Name: "id"},
				},
			},
		},
	}

	AnalyzeSchema(profileData)

	require.Len(t, profileData.PotentialRelations, 1)
	rel := profileData.PotentialRelations[0]
	assert.Equal(t, "potential_foreign_key", rel.Type)
	assert.Equal(t, "invoices", rel.FromTable)
	assert.Equal(t, "customer_id", rel.FromColumn)
	assert.Equal(t, "customer", rel.ToTable)
	assert.Equal(t, core.ConfidenceMedium, rel.Confidence)
}

func TestAnalyzeSchemaPatternSummary(t *testing.T) {
	profileData := &core.SchemaProfile{
		Tables: []*core.TableProfile{
			{
				Name: "t1",
				Columns: []*core.ColumnProfile{
					{Name: "a", DetectedPatterns: []string{"email_address"}},
					{Name: "b", DetectedPatterns: []string{"email_address", "status_field"}},
				},
			},
		},
	}

	AnalyzeSchema(profileData)

	assert.Equal(t, 2, profileData.PatternSummary["email_address"])
	assert.Equal(t, 1, profileData.PatternSummary["status_field"])
}

func TestDetectColumnPatternsRecoversFromPanic(t *testing.T) {
	p := &Profiler{recognizer: panicRecognizer{}, logger: zap.NewNop()}
	col := &core.ColumnProfile{Name: "x", SampleValues: []string{"a", "b", "c"}}
	assert.NotPanics(t, func() {
		patterns := p.detectColumnPatterns(col)
		assert.Nil(t, patterns)
	})
}

type panicRecognizer struct{}

func (panicRecognizer) DetectPatterns(sampleValues []string, fieldName string) []string {
	panic("boom")
}
