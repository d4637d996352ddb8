package schema

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// loadSQL builds the table map from plain SQL DDL. Only top-level
// CREATE TABLE statements are consulted; everything else (indexes,
// inserts, comments) is ignored. The table key is the relation name
// with any catalog/schema qualification dropped — the parser splits the
// dotted name, so Relname is the last identifier. A table defined twice
// keeps the later definition; deduplicating the DDL is the caller's
// responsibility.
func loadSQL(raw []byte) (TablesAndColumns, error) {
	result, err := pg_query.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("could not parse schema: %w", err)
	}

	tables := make(TablesAndColumns)
	for _, stmt := range result.Stmts {
		create := stmt.GetStmt().GetCreateStmt()
		if create == nil {
			continue
		}
		relation := create.GetRelation()
		if relation == nil {
			continue
		}

		columns := make(ColumnSet)
		for _, elt := range create.TableElts {
			if def := elt.GetColumnDef(); def != nil {
				columns[def.Colname] = struct{}{}
			}
		}
		tables[relation.Relname] = columns
	}
	return tables, nil
}
