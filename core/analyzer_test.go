package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/sqlward/models"
)

const schemaPath = "testdata/schema.sql"

func TestAcceptancePython(t *testing.T) {
	path := filepath.Join("testdata", "languages", "main.py")
	diagnostics, err := ValidateFiles(path, schemaPath)
	require.NoError(t, err)

	expected := []models.Diagnostic{
		{Location: path + ":7", Description: "Column `email` not found in table `users`"},
		{Location: path + ":13", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":22", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":30", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":45", Description: "Column `name` not found in table `receipt`"},
		{Location: path + ":45", Description: "Column `content` not found in table `users`"},
		{Location: path + ":60", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":66", Description: "Column `id` not found in table `sub`"},
		{Location: path + ":66", Description: "Column `content` not found in table `users`"},
	}
	assert.Equal(t, expected, diagnostics)
}

func TestAcceptanceRust(t *testing.T) {
	path := filepath.Join("testdata", "languages", "main.rs")
	diagnostics, err := ValidateFiles(path, schemaPath)
	require.NoError(t, err)

	expected := []models.Diagnostic{
		{Location: path + ":9", Description: "Column `email` not found in table `users`"},
		{Location: path + ":15", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":26", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":36", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":50", Description: "Column `name` not found in table `receipt`"},
		{Location: path + ":50", Description: "Column `content` not found in table `users`"},
		{Location: path + ":63", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":70", Description: "Column `id` not found in table `sub`"},
		{Location: path + ":70", Description: "Column `content` not found in table `users`"},
	}
	assert.Equal(t, expected, diagnostics)
}

func TestAcceptanceJavaScript(t *testing.T) {
	path := filepath.Join("testdata", "languages", "main.js")
	diagnostics, err := ValidateFiles(path, schemaPath)
	require.NoError(t, err)

	expected := []models.Diagnostic{
		{Location: path + ":7", Description: "Column `email` not found in table `users`"},
		{Location: path + ":13", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":20", Description: "Table `admin` not found in schema nor subqueries"},
		{Location: path + ":28", Description: "Column `name` not found in table `receipt`"},
		{Location: path + ":28", Description: "Column `content` not found in table `users`"},
		{Location: path + ":36", Description: "Column `id` not found in table `sub`"},
		{Location: path + ":36", Description: "Column `content` not found in table `users`"},
	}
	assert.Equal(t, expected, diagnostics)
}

func TestRunOverDirectoryIsIdempotent(t *testing.T) {
	root := filepath.Join("testdata", "languages")

	first, err := ValidateFiles(root, schemaPath)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := ValidateFiles(root, schemaPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDirectoryOrderIsLexical(t *testing.T) {
	root := filepath.Join("testdata", "languages")
	diagnostics, err := ValidateFiles(root, schemaPath)
	require.NoError(t, err)

	// main.js sorts before main.py before main.rs; every location is
	// prefixed by its file, so the file blocks must appear in that order.
	var files []string
	for _, d := range diagnostics {
		file := strings.SplitN(d.Location, ":", 2)[0]
		if len(files) == 0 || files[len(files)-1] != file {
			files = append(files, file)
		}
	}
	require.Len(t, files, 3)
	assert.True(t, files[0] < files[1] && files[1] < files[2])
}

func TestSchemaErrorsAreFatal(t *testing.T) {
	_, err := ValidateFiles("testdata/languages", "testdata/missing.sql")
	assert.Error(t, err)

	dir := t.TempDir()
	badSchema := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(badSchema, []byte("CREATE TABL broken ("), 0o644))
	_, err = ValidateFiles("testdata/languages", badSchema)
	assert.Error(t, err)

	unknownKind := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(unknownKind, []byte("tables: {}"), 0o644))
	_, err = ValidateFiles("testdata/languages", unknownKind)
	assert.Error(t, err)
}

func TestUnsupportedFilesSkippedAndBrokenFilesTolerated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("SELECT email FROM users"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.py"), []byte("def broken(:\n    q = \"SELECT email FROM users\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.py"), []byte("q = \"SELECT email FROM users\"\n"), 0o644))

	var log bytes.Buffer
	analyzer, err := NewAnalyzer(schemaPath, WithVerbose(&log))
	require.NoError(t, err)

	diagnostics, err := analyzer.Run(context.Background(), dir)
	require.NoError(t, err)

	// notes.txt is not a supported extension; broken.py still has a
	// parse tree (tree-sitter is error tolerant), so its literal is
	// found; the run never aborts.
	require.NotEmpty(t, diagnostics)
	for _, d := range diagnostics {
		assert.Equal(t, "Column `email` not found in table `users`", d.Description)
	}
}

func TestValidateQuery(t *testing.T) {
	const ddl = "CREATE TABLE users (id int, name text);"

	errs, err := ValidateQuery("SELECT name FROM users WHERE id = 1", ddl)
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = ValidateQuery("SELECT email FROM users", ddl)
	require.NoError(t, err)
	assert.Equal(t, []string{"Column `email` not found in table `users`"}, errs)

	_, err = ValidateQuery("SELEC nope", ddl)
	assert.Error(t, err)
}

func TestWithExclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "gen"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen", "a.py"), []byte("q = \"SELECT email FROM users\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("q = \"SELECT email FROM users\"\n"), 0o644))

	analyzer, err := NewAnalyzer(schemaPath, WithExclude("**/gen/**"))
	require.NoError(t, err)

	diagnostics, err := analyzer.Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Location, "b.py")
}
