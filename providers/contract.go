// Package providers maps source file extensions to query extractors.
// The language set is closed and small, so dispatch is a switch rather
// than a registry.
package providers

import (
	"github.com/termfx/sqlward/providers/base"
	"github.com/termfx/sqlward/providers/javascript"
	"github.com/termfx/sqlward/providers/python"
	"github.com/termfx/sqlward/providers/rust"
)

// ForExtension returns a fresh extractor for a file extension (with
// leading dot, case-sensitive), or false when the language is not
// supported.
func ForExtension(ext string) (*base.Extractor, bool) {
	switch ext {
	case ".py":
		return python.New(), true
	case ".rs":
		return rust.New(), true
	case ".js":
		return javascript.New(), true
	}
	return nil, false
}

// Extensions returns the supported file extensions in dispatch order.
func Extensions() []string {
	return []string{".py", ".rs", ".js"}
}
