package rust

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/termfx/sqlward/providers/base"
)

// New creates a Rust extractor using base functionality with
// Rust-specific literal handling
func New() *base.Extractor {
	return base.New(&Config{})
}

// Config implements LanguageConfig for Rust
type Config struct{}

// Language identifier
func (c *Config) Language() string {
	return "rust"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".rs"}
}

// GetLanguage returns tree-sitter language for Rust
func (c *Config) GetLanguage() *sitter.Language {
	return rust.GetLanguage()
}

// ExtractCandidate takes the literal's raw text, strips the quote
// characters, and cleans {...} placeholders. The Rust grammar does not
// surface format! interpolations as nodes the way the Python grammar
// does, so the regex pass is the only sanitization.
func (c *Config) ExtractCandidate(node *sitter.Node, source []byte) (string, bool) {
	if node.Type() != "string_literal" {
		return "", false
	}

	content := strings.ReplaceAll(node.Content(source), "\"", "")
	return base.ReplacePlaceholders(content), true
}
