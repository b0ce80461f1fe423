package batch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxDepth bounds scan recursion against pathologically deep trees
const DefaultMaxDepth = 50

// Scanner enumerates NFO files under a directory tree. Ordering is stable
// across repeated scans of an unmodified tree (directory entries are read
// sorted), so preview and apply see the same sequence.
type Scanner struct {
	maxDepth int
}

// NewScanner creates a scanner with the given recursion limit; zero or
// negative means DefaultMaxDepth.
func NewScanner(maxDepth int) *Scanner {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Scanner{maxDepth: maxDepth}
}

// Scan returns all NFO file paths under root, recursing into
// subdirectories. Entries whose name begins with a dot are skipped. A
// directory that cannot be listed due to permissions is skipped rather
// than failing the scan; exceeding the depth limit fails it.
func (s *Scanner) Scan(root string) ([]string, error) {
	return s.scan(root, 0)
}

func (s *Scanner) scan(dir string, depth int) ([]string, error) {
	// Checked at entry so an adversarial hierarchy fails before any
	// further descent.
	if depth > s.maxDepth {
		return nil, &DepthError{Max: s.maxDepth}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if entry.IsDir() {
			sub, err := s.scan(path, depth+1)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		} else if strings.EqualFold(filepath.Ext(name), ".nfo") {
			files = append(files, path)
		}
	}
	return files, nil
}
