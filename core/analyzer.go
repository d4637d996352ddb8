// Package core drives the scan: it discovers source files, picks the
// extractor for each by extension, and turns the validator's findings
// into located diagnostics.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/termfx/sqlward/models"
	"github.com/termfx/sqlward/providers"
	"github.com/termfx/sqlward/schema"
	"github.com/termfx/sqlward/validation"
)

// Analyzer holds the schema loaded at construction, which stays
// read-only for the whole run, plus walk options.
type Analyzer struct {
	tables      schema.TablesAndColumns
	walker      *FileWalker
	exclude     []string
	maxFileSize int64
	verbose     io.Writer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithVerbose directs skip notices (unreadable files, unparseable
// candidates) to w.
func WithVerbose(w io.Writer) Option {
	return func(a *Analyzer) { a.verbose = w }
}

// WithExclude adds doublestar patterns for paths to skip.
func WithExclude(patterns ...string) Option {
	return func(a *Analyzer) { a.exclude = append(a.exclude, patterns...) }
}

// WithMaxFileSize skips files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(a *Analyzer) { a.maxFileSize = n }
}

// NewAnalyzer loads the schema file. Schema problems — unreadable file,
// unknown kind, DDL that does not parse — are fatal and returned here.
func NewAnalyzer(schemaPath string, opts ...Option) (*Analyzer, error) {
	tables, err := schema.LoadFile(schemaPath)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		tables: tables,
		walker: NewFileWalker(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run scans root (a directory, or a single source file) and returns the
// diagnostics in walk order: files in lexical directory order, queries
// within a file in tree order, findings within a query in validator
// order. Two runs over the same tree produce identical lists.
func (a *Analyzer) Run(ctx context.Context, root string) ([]models.Diagnostic, error) {
	scope := FileScope{
		Path:        root,
		Extensions:  providers.Extensions(),
		Exclude:     a.exclude,
		MaxFileSize: a.maxFileSize,
	}
	paths, err := a.walker.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}

	var diagnostics []models.Diagnostic
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return diagnostics, err
		}
		diagnostics = append(diagnostics, a.analyzeFile(ctx, path)...)
	}
	return diagnostics, nil
}

// analyzeFile extracts and validates one file. Anything wrong with the
// file itself is a skip, never a failure of the run.
func (a *Analyzer) analyzeFile(ctx context.Context, path string) []models.Diagnostic {
	source, err := os.ReadFile(path)
	if err != nil {
		a.logf("skipping %s: %v", path, err)
		return nil
	}

	extractor, ok := providers.ForExtension(filepath.Ext(path))
	if !ok {
		return nil
	}
	if a.verbose != nil {
		extractor.SetVerbose(a.verbose)
	}

	queries, err := extractor.FindQueries(ctx, source)
	if err != nil {
		a.logf("skipping %s: %v", path, err)
		return nil
	}

	var diagnostics []models.Diagnostic
	for _, queryErr := range validation.ValidateQueries(queries, a.tables) {
		diagnostics = append(diagnostics, models.NewDiagnostic(path, queryErr.Line, queryErr.Description))
	}
	return diagnostics
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.verbose != nil {
		fmt.Fprintf(a.verbose, "sqlward: "+format+"\n", args...)
	}
}

// ValidateFiles scans root against the schema at schemaPath with
// default options.
func ValidateFiles(root, schemaPath string) ([]models.Diagnostic, error) {
	analyzer, err := NewAnalyzer(schemaPath)
	if err != nil {
		return nil, err
	}
	return analyzer.Run(context.Background(), root)
}

// ValidateQuery checks one SQL text against schema DDL text, bypassing
// extraction. The result is the validator's bare descriptions.
func ValidateQuery(query, schemaText string) ([]string, error) {
	result, err := pg_query.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("could not parse query: %w", err)
	}
	tables, err := schema.Load([]byte(schemaText), "sql")
	if err != nil {
		return nil, err
	}
	return validation.ValidateStatements(result.Stmts, tables), nil
}
