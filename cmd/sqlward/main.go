// Command sqlward scans a code tree for embedded SQL query literals and
// validates every table and column reference against a schema file.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/termfx/sqlward/core"
	"github.com/termfx/sqlward/models"
)

func main() {
	var diagnostics []models.Diagnostic

	cmd := newRootCmd(&diagnostics)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(diagnostics) > 0 {
		os.Exit(1)
	}
}

// newRootCmd builds the single sqlward command. Findings are written to
// stdout one per line; the caller inspects *found to pick the exit
// code, since any finding means a nonzero exit.
func newRootCmd(found *[]models.Diagnostic) *cobra.Command {
	var (
		directory  string
		schemaPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "sqlward",
		Short: "Validate SQL queries embedded in source code against a schema",
		Long: `sqlward finds SQL query string literals in Python, Rust and JavaScript
source files and checks every table and column reference against the
schema file. Each finding is printed as "<path>:<line>: error: <description>".

Literals containing the substring REPLACE are skipped entirely; authors
of runtime-dynamic templates use it to opt out of analysis.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []core.Option
			if verbose {
				opts = append(opts, core.WithVerbose(cmd.ErrOrStderr()))
			}

			analyzer, err := core.NewAnalyzer(schemaPath, opts...)
			if err != nil {
				return err
			}

			diagnostics, err := analyzer.Run(cmd.Context(), directory)
			if err != nil {
				return err
			}

			for _, d := range diagnostics {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", d.Location, color.RedString("error:"), d.Description)
			}
			*found = diagnostics
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "root directory (or single file) to scan")
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "schema.sql", "path to the schema file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log skipped files and dropped candidates to stderr")
	return cmd
}
