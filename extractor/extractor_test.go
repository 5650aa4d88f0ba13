package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"profiler/core"
	"profiler/dialect"
)

// fakeConnector answers each query from a fixed table of results keyed by
// the exact SQL text, so tests can exercise GetCompleteTableMetadata
// without a real database.
type fakeConnector struct {
	results map[string][]map[string]any
	errs    map[string]error
}

func (f *fakeConnector) ExecuteQuery(ctx context.Context, sql string, params ...any) ([]map[string]any, error) {
	if err, ok := f.errs[sql]; ok {
		return nil, err
	}
	return f.results[sql], nil
}

func (f *fakeConnector) HealthCheck(ctx context.Context) bool { return true }

func TestGetColumnProfiles(t *testing.T) {
	ex := New(&fakeConnector{}, core.DatabaseMySQL, "appdb", Options{}, zaptest.NewLogger(t))
	columnsSQL, _ := ex.dialect.ColumnsQuery("appdb", "users")
	ex.connector.(*fakeConnector).results = map[string][]map[string]any{
		columnsSQL: {
			{
				"column_name":               "id",
				"data_type":                 "int",
				"is_nullable":               "NO",
				"ordinal_position":          int64(1),
				"column_key":                "PRI",
				"character_maximum_length":  nil,
				"numeric_precision":         nil,
				"numeric_scale":             nil,
				"column_default":            nil,
				"column_comment":            "",
			},
			{
				"column_name":               "email",
				"data_type":                 "varchar",
				"is_nullable":               "YES",
				"ordinal_position":          int64(2),
				"column_key":                "UNI",
				"character_maximum_length":  int64(255),
			},
		},
	}

	cols := ex.GetColumnProfiles(context.Background(), "users")
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)
	assert.False(t, cols[0].IsNullable)
	assert.Equal(t, "email", cols[1].Name)
	assert.True(t, cols[1].IsNullable)
	assert.True(t, cols[1].IsUnique)
	require.NotNil(t, cols[1].MaxLength)
	assert.Equal(t, 255, *cols[1].MaxLength)
}

func TestGetCompleteTableMetadataPrimaryKeyIsAlwaysUnique(t *testing.T) {
	conn := &fakeConnector{}
	ex := New(conn, core.DatabaseMySQL, "appdb", Options{}, zaptest.NewLogger(t))

	columnsSQL, _ := ex.dialect.ColumnsQuery("appdb", "users")
	pkSQL, _ := ex.dialect.PrimaryKeysQuery("appdb", "users")
	fkSQL, _ := ex.dialect.ForeignKeysQuery("appdb", "users")
	indexSQL, _ := ex.dialect.IndexesQuery("appdb", "users")
	countSQL, _ := ex.dialect.CountQuery("appdb", "users")

	conn.results = map[string][]map[string]any{
		columnsSQL: {
			{
				"column_name":              "id",
				"data_type":                "int",
				"is_nullable":              "NO",
				"ordinal_position":         int64(1),
				"column_key":               "PRI",
				"character_maximum_length": nil,
			},
		},
		pkSQL:    {{"column_name": "id"}},
		fkSQL:    {},
		indexSQL: {}, // IndexesQuery excludes the primary-key index entirely
		countSQL: {{"row_count": int64(0)}},
	}

	tp := ex.GetCompleteTableMetadata(context.Background(), dialect.TableRow{TableName: "users"}, nil)
	require.Len(t, tp.Columns, 1)
	assert.True(t, tp.Columns[0].IsPrimaryKey)
	assert.True(t, tp.Columns[0].IsUnique)
	assert.False(t, tp.Columns[0].IsNullable)
}

func TestPotentialFKCandidates(t *testing.T) {
	cols := []*core.ColumnProfile{
		{Name: "id", IsPrimaryKey: true},
		{Name: "author_id", DataType: "int"},
		{Name: "status_code", DataType: "varchar"},
		{Name: "title", DataType: "varchar"},
	}
	declared := []*core.ForeignKey{{ColumnName: "author_id"}}

	cands := PotentialFKCandidates(cols, declared)
	require.Len(t, cands, 1)
	assert.Equal(t, "status_code", cands[0].ColumnName)
}

func TestGetRowCountReturnsZeroOnError(t *testing.T) {
	ex := New(&fakeConnector{errs: map[string]error{}}, core.DatabaseMySQL, "appdb", Options{}, zaptest.NewLogger(t))
	sql, _ := ex.dialect.CountQuery("appdb", "users")
	ex.connector.(*fakeConnector).errs[sql] = assert.AnError

	count := ex.GetRowCount(context.Background(), "users")
	assert.Equal(t, int64(0), count)
}

func TestAttachSampleValues(t *testing.T) {
	cols := []*core.ColumnProfile{{Name: "email"}}
	rows := []map[string]any{
		{"email": "a@example.com"},
		{"email": "b@example.com"},
	}
	AttachSampleValues(cols, rows, 5)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cols[0].SampleValues)
}
