package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ColumnSet is the set of column names declared for one table.
type ColumnSet map[string]struct{}

// Contains reports whether the column is declared.
func (c ColumnSet) Contains(name string) bool {
	_, ok := c[name]
	return ok
}

// TablesAndColumns maps a table name to its declared columns. It is
// built once from the schema file and never mutated afterwards;
// per-query scope extensions work on a Clone.
type TablesAndColumns map[string]ColumnSet

// Contains reports whether the table is declared.
func (t TablesAndColumns) Contains(table string) bool {
	_, ok := t[table]
	return ok
}

// Clone returns an independent copy that callers may extend with
// derived relations without touching the shared schema.
func (t TablesAndColumns) Clone() TablesAndColumns {
	out := make(TablesAndColumns, len(t))
	for table, columns := range t {
		set := make(ColumnSet, len(columns))
		for column := range columns {
			set[column] = struct{}{}
		}
		out[table] = set
	}
	return out
}

// Load parses raw schema bytes of the given kind. Only "sql" is
// understood today.
func Load(raw []byte, kind string) (TablesAndColumns, error) {
	switch kind {
	case "sql":
		return loadSQL(raw)
	default:
		return nil, fmt.Errorf("schema kind not supported: %s", kind)
	}
}

// LoadFile reads a schema file and dispatches on its extension.
func LoadFile(path string) (TablesAndColumns, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open schema file %s: %w", path, err)
	}
	kind := strings.TrimPrefix(filepath.Ext(path), ".")
	return Load(raw, kind)
}
