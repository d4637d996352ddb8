package validation

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/termfx/sqlward/schema"
)

// validateBody runs the two body passes over a plain SELECT: table
// existence for every relation in FROM and its joins, then column
// existence for every plain projection item. Relation order is the
// syntactic order: each FROM item followed by its joins, left to right.
func validateBody(sel *pg_query.SelectStmt, scoped schema.TablesAndColumns) []string {
	var relations []*pg_query.RangeVar
	for _, item := range sel.FromClause {
		relations = append(relations, flattenRelations(item)...)
	}

	var errs []string
	for _, relation := range relations {
		if !scoped.Contains(relation.Relname) {
			errs = append(errs, tableNotFound(qualifiedName(relation)))
		}
	}

	for _, target := range sel.TargetList {
		itemName, notFoundIn := missingColumn(target.GetResTarget(), relations, scoped)
		if len(notFoundIn) == 0 {
			continue
		}
		if len(notFoundIn) == 1 {
			errs = append(errs, fmt.Sprintf("Column `%s` not found in table `%s`", itemName, notFoundIn[0]))
		} else {
			errs = append(errs, fmt.Sprintf("Column `%s` not found in none of the tables: %s", itemName, strings.Join(notFoundIn, ",")))
		}
	}
	return errs
}

// flattenRelations collects the plain table references under one FROM
// item. Join trees are walked left to right; subselects, functions and
// other table factors are not inspected.
func flattenRelations(node *pg_query.Node) []*pg_query.RangeVar {
	if rv := node.GetRangeVar(); rv != nil {
		return []*pg_query.RangeVar{rv}
	}
	if join := node.GetJoinExpr(); join != nil {
		relations := flattenRelations(join.GetLarg())
		return append(relations, flattenRelations(join.GetRarg())...)
	}
	return nil
}

// qualifiedName reconstructs the dotted identifier path the query used
// for a relation, for error messages.
func qualifiedName(rv *pg_query.RangeVar) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{rv.Catalogname, rv.Schemaname, rv.Relname} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

// missingColumn decides whether one projection item references a column
// that none of the searched relations declare. Only bare identifiers
// and two-part qualified identifiers are considered; wildcards, aliased
// expressions and computed items are skipped.
//
// The matching is deliberately conservative: an unqualified column is
// only checked against unaliased tables, and a qualified column only
// against the table whose alias equals the qualifier. A qualifier that
// matches no alias yields nothing.
func missingColumn(res *pg_query.ResTarget, relations []*pg_query.RangeVar, scoped schema.TablesAndColumns) (string, []string) {
	if res == nil || res.Name != "" {
		return "", nil
	}

	parts := columnRefParts(res.GetVal())
	var columnName, qualifier string
	switch len(parts) {
	case 1:
		columnName = parts[0]
	case 2:
		qualifier, columnName = parts[0], parts[1]
	default:
		return "", nil
	}

	var itemName string
	var notFoundIn []string
	for _, relation := range relations {
		columns, inScope := scoped[relation.Relname]
		if !inScope {
			continue
		}

		alias := relation.GetAlias().GetAliasname()
		searched := false
		switch {
		case qualifier == "" && alias == "":
			searched = true
		case qualifier != "" && alias == qualifier:
			searched = true
		}
		if !searched || columns.Contains(columnName) {
			continue
		}

		if itemName == "" {
			itemName = columnName
		}
		notFoundIn = append(notFoundIn, relation.Relname)
	}
	return itemName, notFoundIn
}
