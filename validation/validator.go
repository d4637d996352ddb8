// Package validation checks parsed SQL statements against a loaded
// schema. It resolves derived relations (WITH clauses), joins, and
// aliases, and reports every table or column reference that is not
// declared. Only SELECT statements are inspected; other statement kinds
// produce no findings.
package validation

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/termfx/sqlward/models"
	"github.com/termfx/sqlward/schema"
)

// QueryError is one finding tied to the line of the query literal it
// came from.
type QueryError struct {
	Line        int
	Description string
}

// ValidateQueries runs every extracted query against the schema,
// tagging each finding with the query's line.
func ValidateQueries(queries []models.QueryInCode, tables schema.TablesAndColumns) []QueryError {
	var errs []QueryError
	for _, query := range queries {
		for _, description := range ValidateStatements(query.Statements, tables) {
			errs = append(errs, QueryError{Line: query.Line, Description: description})
		}
	}
	return errs
}

// ValidateStatements checks each top-level SELECT statement against the
// schema and returns the findings in a stable order. It never fails;
// statement kinds it does not understand contribute nothing.
func ValidateStatements(stmts []*pg_query.RawStmt, tables schema.TablesAndColumns) []string {
	var errs []string
	for _, stmt := range stmts {
		if sel := stmt.GetStmt().GetSelectStmt(); sel != nil {
			errs = append(errs, validateSelect(sel, tables)...)
		}
	}
	return errs
}

// validateSelect validates one query: first its WITH clause, which
// extends a copy of the schema with the derived relations, then the
// body. Findings come out WITH-clause first, then table existence, then
// column existence.
func validateSelect(sel *pg_query.SelectStmt, tables schema.TablesAndColumns) []string {
	scoped := tables.Clone()

	errs := validateDerivedTables(sel.GetWithClause(), tables, scoped)

	// Set operations (UNION, INTERSECT, EXCEPT) are not examined.
	if sel.Op == pg_query.SetOperation_SETOP_NONE {
		errs = append(errs, validateBody(sel, scoped)...)
	}
	return errs
}

// validateDerivedTables checks each common table expression and inserts
// its alias and exposed columns into the scoped map. Each CTE body is
// validated against the base schema: sibling CTEs are not visible to
// each other.
func validateDerivedTables(with *pg_query.WithClause, tables schema.TablesAndColumns, scoped schema.TablesAndColumns) []string {
	if with == nil {
		return nil
	}

	var errs []string
	for _, node := range with.GetCtes() {
		cte := node.GetCommonTableExpr()
		if cte == nil {
			continue
		}

		columns := make(schema.ColumnSet)
		if inner := cte.GetCtequery().GetSelectStmt(); inner != nil {
			errs = append(errs, validateSelect(inner, tables)...)
			columns = derivedColumns(inner)
		}
		scoped[cte.Ctename] = columns
	}
	return errs
}

// derivedColumns extracts the column names a derived relation exposes
// from its top-level projection. Bare identifiers expose their own
// name, compound identifiers their last component, aliased expressions
// the alias. Anything else (wildcards, bare expressions) exposes
// nothing.
func derivedColumns(sel *pg_query.SelectStmt) schema.ColumnSet {
	columns := make(schema.ColumnSet)
	for _, target := range sel.TargetList {
		res := target.GetResTarget()
		if res == nil {
			continue
		}
		if res.Name != "" {
			columns[res.Name] = struct{}{}
			continue
		}
		if parts := columnRefParts(res.GetVal()); len(parts) > 0 {
			columns[parts[len(parts)-1]] = struct{}{}
		}
	}
	return columns
}

// columnRefParts returns the identifier path of a plain column
// reference, or nil when the value is not a column reference or
// contains non-identifier parts such as a star.
func columnRefParts(val *pg_query.Node) []string {
	ref := val.GetColumnRef()
	if ref == nil {
		return nil
	}
	parts := make([]string, 0, len(ref.Fields))
	for _, field := range ref.Fields {
		s := field.GetString_()
		if s == nil {
			return nil
		}
		parts = append(parts, s.Sval)
	}
	return parts
}

func tableNotFound(name string) string {
	return fmt.Sprintf("Table `%s` not found in schema nor subqueries", name)
}
