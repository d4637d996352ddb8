package models

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// QueryInCode is one SQL literal lifted out of a host-language source
// file, already parsed. Line is 1-based and points at the first byte of
// the literal in the original file.
type QueryInCode struct {
	Line       int
	Statements []*pg_query.RawStmt
}

// Diagnostic is a single finding reported to the user. Location is
// "<path>:<line>". Equality is structural, which the acceptance tests
// rely on.
type Diagnostic struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

// NewDiagnostic builds a diagnostic for a finding at the given file and
// 1-based line.
func NewDiagnostic(path string, line int, description string) Diagnostic {
	return Diagnostic{
		Location:    fmt.Sprintf("%s:%d", path, line),
		Description: description,
	}
}

// String renders the human-readable form without any styling. The CLI
// layers color on top of the same text.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: error: %s", d.Location, d.Description)
}
