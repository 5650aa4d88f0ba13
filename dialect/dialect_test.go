package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profiler/core"
	"profiler/parser"
)

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`users`", NewMySQL().QuoteIdentifier("users"))
	assert.Equal(t, `"users"`, NewPostgres().QuoteIdentifier("users"))
	assert.Equal(t, "[users]", NewMSSQL().QuoteIdentifier("users"))
}

func TestGetUnknownDialectDefaultsToPostgres(t *testing.T) {
	d := Get(core.DatabaseUnknown)
	assert.Equal(t, core.DatabasePostgreSQL, d.Name())
}

func TestGetKnownDialects(t *testing.T) {
	assert.Equal(t, core.DatabaseMySQL, Get(core.DatabaseMySQL).Name())
	assert.Equal(t, core.DatabasePostgreSQL, Get(core.DatabasePostgreSQL).Name())
	assert.Equal(t, core.DatabaseMSSQL, Get(core.DatabaseMSSQL).Name())
}

func TestMySQLSampleQueryUsesTrailingLimit(t *testing.T) {
	sql, _ := NewMySQL().SampleQuery("db", "users", nil, 5)
	assert.Contains(t, sql, "LIMIT 5")
}

func TestMSSQLSampleQueryUsesTop(t *testing.T) {
	sql, _ := NewMSSQL().SampleQuery("dbo", "users", nil, 5)
	assert.Contains(t, sql, "TOP 5")
}

func TestMySQLRenderedQueriesAreValidSQL(t *testing.T) {
	v := parser.NewValidator()
	d := NewMySQL()

	sampleSQL, _ := d.SampleQuery("appdb", "users", []string{"id", "email"}, 5)
	require.NoError(t, v.Validate(sampleSQL))

	countSQL, _ := d.CountQuery("appdb", "users")
	require.NoError(t, v.Validate(countSQL))
}

func TestValidatorRejectsMalformedSQL(t *testing.T) {
	v := parser.NewValidator()
	err := v.Validate("SELECT FROM WHERE")
	assert.Error(t, err)
}
