// Package changedetect implements the schema-hash and row-count-delta
// half of C6: deciding which tables changed since the last incremental
// run.
package changedetect

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"profiler/core"
)

type canonicalColumn struct {
	Name            string  `json:"name"`
	DataType        string  `json:"data_type"`
	IsNullable      bool    `json:"is_nullable"`
	MaxLength       *int    `json:"max_length"`
	DefaultValue    *string `json:"default_value"`
	OrdinalPosition int     `json:"ordinal_position"`
}

type canonicalDoc struct {
	Columns     []canonicalColumn `json:"columns"`
	PrimaryKeys []string          `json:"primary_keys"`
	ForeignKeys []string          `json:"foreign_keys"`
	Indexes     []string          `json:"indexes"`
}

// SchemaHash builds a canonical column/key/index document, serializes it
// with stable key order, and returns the hex-encoded MD5 of the UTF-8
// bytes. MD5 is used because it is the named hashing algorithm for this
// fingerprint, not a place to substitute something stronger.
func SchemaHash(table *core.TableProfile) string {
	doc := canonicalDoc{
		Columns:     make([]canonicalColumn, 0, len(table.Columns)),
		PrimaryKeys: append([]string(nil), table.PrimaryKeys...),
		ForeignKeys: make([]string, 0, len(table.ForeignKeys)),
		Indexes:     make([]string, 0, len(table.Indexes)),
	}

	cols := append([]*core.ColumnProfile(nil), table.Columns...)
	sort.Slice(cols, func(i, j int) bool { return cols[i].OrdinalPosition < cols[j].OrdinalPosition })
	for _, c := range cols {
		doc.Columns = append(doc.Columns, canonicalColumn{
			Name:            c.Name,
			DataType:        c.DataType,
			IsNullable:      c.IsNullable,
			MaxLength:       c.MaxLength,
			DefaultValue:    c.DefaultValue,
			OrdinalPosition: c.OrdinalPosition,
		})
	}
	sort.Strings(doc.PrimaryKeys)

	for _, fk := range table.ForeignKeys {
		doc.ForeignKeys = append(doc.ForeignKeys, fmt.Sprintf("%s->%s.%s", fk.ColumnName, fk.ReferencedTable, fk.ReferencedColumn))
	}
	sort.Strings(doc.ForeignKeys)

	for _, idx := range table.Indexes {
		doc.Indexes = append(doc.Indexes, fmt.Sprintf("%s:%s:%t", idx.IndexName, idx.ColumnName, idx.IsUnique))
	}
	sort.Strings(doc.Indexes)

	data, err := json.Marshal(doc)
	if err != nil {
		// json.Marshal cannot fail on this concrete, cycle-free struct.
		panic(fmt.Sprintf("changedetect: marshal canonical document: %v", err))
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
