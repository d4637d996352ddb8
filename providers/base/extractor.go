// Package base implements the generic query extraction engine shared by
// every language provider. A provider contributes the grammar and the
// literal-extraction policy; the engine walks the syntax tree, rebuilds
// each candidate's runtime value, and keeps the ones that parse as SQL.
package base

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/sqlward/models"
)

// LanguageConfig defines language-specific behavior that must be implemented
type LanguageConfig interface {
	// Metadata
	Language() string
	Extensions() []string
	GetLanguage() *sitter.Language

	// ExtractCandidate reports whether the node is a string literal
	// that could carry SQL and returns its reconstructed runtime value.
	ExtractCandidate(node *sitter.Node, source []byte) (string, bool)
}

// placeholderPattern matches {...} template placeholders, non-greedy,
// so "WHERE id = {id}" becomes "WHERE id = 1" and stays parseable.
var placeholderPattern = regexp.MustCompile(`\{.*?\}`)

// ReplacePlaceholders substitutes every {...} placeholder with 1.
// Providers whose grammar does not surface interpolation nodes rely on
// this pass to clean .format-style templates.
func ReplacePlaceholders(s string) string {
	return placeholderPattern.ReplaceAllString(s, "1")
}

// optOutMarker drops a candidate outright. Authors who build queries
// dynamically with this identifier opt out of analysis; removing the
// filter needs a migration path for them.
const optOutMarker = "REPLACE"

// Extractor finds SQL query literals in source code of one language.
type Extractor struct {
	config  LanguageConfig
	parser  *sitter.Parser
	verbose io.Writer
}

// New creates an extractor with language-specific config
func New(config LanguageConfig) *Extractor {
	parser := sitter.NewParser()
	lang := config.GetLanguage()
	if lang == nil {
		panic(fmt.Sprintf("Failed to load %s language for tree-sitter", config.Language()))
	}
	parser.SetLanguage(lang)

	return &Extractor{
		config: config,
		parser: parser,
	}
}

// Language returns language identifier
func (e *Extractor) Language() string {
	return e.config.Language()
}

// Extensions returns supported file extensions
func (e *Extractor) Extensions() []string {
	return e.config.Extensions()
}

// SetVerbose directs skip notices (unparseable candidates) to w.
func (e *Extractor) SetVerbose(w io.Writer) {
	e.verbose = w
}

// FindQueries parses the source and returns every string literal that
// parses as SQL. Order is the pre-order position of the literal in the
// tree, children in syntactic order, so results are stable.
func (e *Extractor) FindQueries(ctx context.Context, source []byte) ([]models.QueryInCode, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s source: %w", e.config.Language(), err)
	}
	if tree == nil {
		return nil, errors.New("could not parse " + e.config.Language() + " source")
	}
	defer tree.Close()

	var queries []models.QueryInCode
	e.walk(tree.RootNode(), source, &queries)
	return queries, nil
}

// walk applies the candidate predicate at every node, then recurses.
func (e *Extractor) walk(node *sitter.Node, source []byte, queries *[]models.QueryInCode) {
	if candidate, ok := e.config.ExtractCandidate(node, source); ok {
		e.collect(node, candidate, queries)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), source, queries)
	}
}

// collect filters and parses one candidate. Unparseable candidates are
// dropped; the literal's 1-based start line tags the survivors.
func (e *Extractor) collect(node *sitter.Node, candidate string, queries *[]models.QueryInCode) {
	if strings.Contains(candidate, optOutMarker) {
		return
	}

	result, err := pg_query.Parse(candidate)
	if err != nil {
		if e.verbose != nil {
			fmt.Fprintf(e.verbose, "sqlward: dropping candidate at line %d: %v\n", int(node.StartPoint().Row)+1, err)
		}
		return
	}
	if len(result.Stmts) == 0 {
		return
	}

	*queries = append(*queries, models.QueryInCode{
		Line:       int(node.StartPoint().Row) + 1,
		Statements: result.Stmts,
	})
}
