// Package parser validates and splits raw SQL text using TiDB's SQL
// parser, reused here as a syntax-checking tool rather than its usual
// AST-conversion role: every dialect-rendered query can be checked for
// well-formedness before being handed to a live connection.
package parser

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// Validator parses SQL text without executing it.
type Validator struct {
	p *parser.Parser
}

// NewValidator returns a ready Validator. Validate and SplitStatements
// both reuse the one parser.Parser it holds, which is not safe for
// concurrent use, so a Validator must not be shared across goroutines.
func NewValidator() *Validator {
	return &Validator{p: parser.New()}
}

// Validate reports whether sql parses as one or more well-formed MySQL
// dialect statements.
func (v *Validator) Validate(sql string) error {
	_, _, err := v.p.Parse(sql, "", "")
	if err != nil {
		return fmt.Errorf("parser: invalid SQL: %w", err)
	}
	return nil
}

// SplitStatements parses sql and returns the original text of each
// top-level statement it contains, in source order. Useful for
// validating a schema dump or a batch of sample queries one statement
// at a time.
func (v *Validator) SplitStatements(sql string) ([]string, error) {
	stmtNodes, _, err := v.p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("parser: invalid SQL: %w", err)
	}

	out := make([]string, 0, len(stmtNodes))
	for _, stmt := range stmtNodes {
		out = append(out, stmt.Text())
	}
	return out, nil
}
