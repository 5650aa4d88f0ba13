package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedSQL(t *testing.T) {
	v := NewValidator()
	err := v.Validate("SELECT id, email FROM users WHERE id = 1")
	assert.NoError(t, err)
}

func TestValidateRejectsMalformedSQL(t *testing.T) {
	v := NewValidator()
	err := v.Validate("SELECT * FRO users")
	assert.Error(t, err)
}

func TestSplitStatementsReturnsEachStatement(t *testing.T) {
	v := NewValidator()
	stmts, err := v.SplitStatements("SELECT 1; SELECT 2;")
	require.NoError(t, err)
	assert.Len(t, stmts, 2)
}

func TestSplitStatementsPropagatesParseError(t *testing.T) {
	v := NewValidator()
	_, err := v.SplitStatements("CREATE TABLE (")
	assert.Error(t, err)
}
