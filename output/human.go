package output

import (
	"fmt"
	"strings"

	"profiler/core"
)

type humanFormatter struct{}

// Format renders a terse, readable summary — table names, column
// counts, relationship counts — for operators eyeballing a run rather
// than feeding it to another program.
func (humanFormatter) Format(profile *core.SchemaProfile) (string, error) {
	if profile == nil {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Database: %s (%s)\n", profile.DatabaseName, profile.DatabaseType)
	fmt.Fprintf(&b, "Tables: %d, Columns: %d\n", profile.TotalTables, profile.TotalColumns)
	fmt.Fprintf(&b, "Cross-table relationships: %d, Potential relationships: %d\n\n",
		len(profile.CrossTableRelations), len(profile.PotentialRelations))

	for _, t := range profile.Tables {
		fmt.Fprintf(&b, "  %s (%d columns, %d rows)\n", t.Name, len(t.Columns), t.EstimatedRowCount)
		for _, c := range t.Columns {
			marks := columnMarks(c)
			fmt.Fprintf(&b, "    - %s: %s%s\n", c.Name, c.DataType, marks)
		}
	}

	if len(profile.PatternSummary) > 0 {
		b.WriteString("\nPattern summary:\n")
		for name, count := range profile.PatternSummary {
			fmt.Fprintf(&b, "  %s: %d\n", name, count)
		}
	}

	return b.String(), nil
}

func columnMarks(c *core.ColumnProfile) string {
	var marks []string
	if c.IsPrimaryKey {
		marks = append(marks, "PK")
	}
	if c.IsForeignKey {
		marks = append(marks, "FK")
	}
	if c.IsUnique {
		marks = append(marks, "UNIQUE")
	}
	if len(marks) == 0 {
		return ""
	}
	return " [" + strings.Join(marks, ",") + "]"
}
