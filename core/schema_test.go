package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaProfileRecompute(t *testing.T) {
	t.Run("empty profile", func(t *testing.T) {
		s := &SchemaProfile{}
		s.Recompute()
		assert.Equal(t, 0, s.TotalTables)
		assert.Equal(t, 0, s.TotalColumns)
	})

	t.Run("sums columns across tables", func(t *testing.T) {
		s := &SchemaProfile{
			Tables: []*TableProfile{
				{Name: "users", Columns: []*ColumnProfile{{Name: "id"}, {Name: "email"}}},
				{Name: "orders", Columns: []*ColumnProfile{{Name: "id"}}},
			},
		}
		s.Recompute()
		assert.Equal(t, 2, s.TotalTables)
		assert.Equal(t, 3, s.TotalColumns)
	})
}

func TestNewIncrementalState(t *testing.T) {
	st := NewIncrementalState("mydb", nil)
	assert.Equal(t, "mydb", st.DatabaseName)
	assert.Equal(t, ProfileVersion, st.ProfileVersion)
	assert.NotNil(t, st.TableStates)
	assert.Empty(t, st.TableStates)
}
