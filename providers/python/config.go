package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/termfx/sqlward/providers/base"
)

// New creates a Python extractor using base functionality with
// Python-specific literal handling
func New() *base.Extractor {
	return base.New(&Config{})
}

// Config implements LanguageConfig for Python
type Config struct{}

// Language identifier
func (c *Config) Language() string {
	return "python"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".py"}
}

// GetLanguage returns tree-sitter language for Python
func (c *Config) GetLanguage() *sitter.Language {
	return python.GetLanguage()
}

// ExtractCandidate rebuilds the runtime value of a string literal.
// f-string interpolations become 1, which keeps the SQL parseable when
// they stand in for values. Strings meant for .format carry {...}
// placeholders the grammar does not surface as interpolation nodes, so
// a regex pass cleans those too.
func (c *Config) ExtractCandidate(node *sitter.Node, source []byte) (string, bool) {
	if node.Type() != "string" {
		return "", false
	}

	var content strings.Builder
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "string_content":
			content.WriteString(child.Content(source))
		case "interpolation":
			content.WriteString("1")
		}
	}
	return base.ReplacePlaceholders(content.String()), true
}
