package javascript

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/termfx/sqlward/providers/base"
)

// New creates a JavaScript extractor using base functionality with
// JavaScript-specific literal handling
func New() *base.Extractor {
	return base.New(&Config{})
}

// Config implements LanguageConfig for JavaScript
type Config struct{}

// Language identifier
func (c *Config) Language() string {
	return "javascript"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".js"}
}

// GetLanguage returns tree-sitter language for JavaScript
func (c *Config) GetLanguage() *sitter.Language {
	return javascript.GetLanguage()
}

// ExtractCandidate handles both plain strings and template literals.
// Template substitutions (${...}) become 1, same treatment as Python
// f-string interpolations.
func (c *Config) ExtractCandidate(node *sitter.Node, source []byte) (string, bool) {
	if node.Type() != "string" && node.Type() != "template_string" {
		return "", false
	}

	var content strings.Builder
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "string_fragment":
			content.WriteString(child.Content(source))
		case "template_substitution":
			content.WriteString("1")
		}
	}
	return content.String(), true
}
