// Package lockable evaluates the advisory pattern hints that mark files as
// "expected to be locked". A pattern file at the work-repository root lists
// gitignore-style patterns, one per line; files matching any pattern are
// surfaced by the list command even when unlocked.
//
// The hints are informational only: acquire and release never consult them,
// and a file needs no matching pattern to be locked.
package lockable

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/kafumanto/simplelock/internal/errors"
)

// DefaultPatternFile is the pattern file name at the work-repository root.
const DefaultPatternFile = ".gitlocks"

// Matcher answers whether paths match the lockable pattern set.
// The zero-pattern Matcher matches nothing.
type Matcher struct {
	patterns *ignore.GitIgnore
}

// FromPatterns compiles a matcher from gitignore-style pattern lines.
// Blank lines and #-comments are ignored, matching standard ignore-file
// semantics.
func FromPatterns(lines []string) *Matcher {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	if len(cleaned) == 0 {
		return &Matcher{}
	}
	return &Matcher{patterns: ignore.CompileIgnoreLines(cleaned...)}
}

// LoadFile compiles a matcher from the pattern file at path. A missing file
// yields an empty matcher: the pattern set is optional per work repository.
func LoadFile(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Matcher{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read pattern file %s", path)
	}
	return FromPatterns(strings.Split(string(data), "\n")), nil
}

// Match reports whether the given work-repository-relative path is lockable.
func (m *Matcher) Match(path string) bool {
	if m.patterns == nil {
		return false
	}
	return m.patterns.MatchesPath(path)
}

// Empty reports whether the matcher holds no patterns.
func (m *Matcher) Empty() bool {
	return m.patterns == nil
}

// Scan walks the work repository and returns the sorted, repo-relative paths
// of regular files matching the pattern set. The .git directory is skipped.
func (m *Matcher) Scan(workDir string) ([]string, error) {
	if m.patterns == nil {
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(workDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if m.Match(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan work repository %s", workDir)
	}

	sort.Strings(paths)
	return paths, nil
}
