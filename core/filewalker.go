package core

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// FileScope bounds a walk.
type FileScope struct {
	Path        string   // root directory, or a single file
	Extensions  []string // select files by final extension (with dot, case-sensitive)
	Exclude     []string // doublestar patterns matched against the slash-separated path
	MaxFileSize int64    // skip files larger than this; 0 means no limit
}

// skipDirs are never descended into.
var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"target":       {},
	"__pycache__":  {},
}

// FileWalker discovers source files. The walk is sequential and visits
// directory entries in lexical order, so the result order is stable for
// a given tree; diagnostic order depends on it.
type FileWalker struct{}

// NewFileWalker creates a file walker
func NewFileWalker() *FileWalker {
	return &FileWalker{}
}

// Walk returns the matching file paths under scope.Path. A root that is
// itself a regular file yields at most that one path. Unreadable
// directories are skipped.
func (fw *FileWalker) Walk(ctx context.Context, scope FileScope) ([]string, error) {
	info, err := os.Stat(scope.Path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if fw.matches(scope.Path, info.Size(), scope) {
			return []string{scope.Path}, nil
		}
		return nil, nil
	}

	var paths []string
	fw.scanDirectory(ctx, scope.Path, scope, &paths)
	return paths, ctx.Err()
}

// scanDirectory recursively collects files matching the scope.
func (fw *FileWalker) scanDirectory(ctx context.Context, dirPath string, scope FileScope, paths *[]string) {
	if ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return // Skip directories we can't read
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		if fw.isExcluded(fullPath, scope.Exclude) {
			continue
		}

		if entry.IsDir() {
			if _, skip := skipDirs[entry.Name()]; skip {
				continue
			}
			fw.scanDirectory(ctx, fullPath, scope, paths)
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if fw.matches(fullPath, info.Size(), scope) {
			*paths = append(*paths, fullPath)
		}
	}
}

func (fw *FileWalker) matches(path string, size int64, scope FileScope) bool {
	if scope.MaxFileSize > 0 && size > scope.MaxFileSize {
		return false
	}
	return slices.Contains(scope.Extensions, filepath.Ext(path))
}

func (fw *FileWalker) isExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, filepath.ToSlash(path)); err == nil && matched {
			return true
		}
	}
	return false
}
