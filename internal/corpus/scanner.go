package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/semcouple/internal/debug"
	scerrors "github.com/standardbeagle/semcouple/internal/errors"
)

// ScanOptions selects which files under Root become documents
type ScanOptions struct {
	Root           string
	Include        []string // doublestar globs on slash paths relative to Root; empty = everything
	Exclude        []string
	MaxFileSize    int64 // bytes; 0 = unlimited
	FollowSymlinks bool
}

// Scanner discovers and reads corpus files
type Scanner struct {
	opts           ScanOptions
	binaryDetector *BinaryDetector
}

// NewScanner creates a scanner
func NewScanner(opts ScanOptions) *Scanner {
	return &Scanner{opts: opts, binaryDetector: NewBinaryDetector()}
}

// Root returns the absolute scan root
func (s *Scanner) Root() string {
	if abs, err := filepath.Abs(s.opts.Root); err == nil {
		return abs
	}
	return s.opts.Root
}

// Matches reports whether a relative slash path passes the include/exclude globs
func (s *Scanner) Matches(rel string) bool {
	for _, pattern := range s.opts.Exclude {
		// Bad patterns are skipped rather than failing the scan
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return false
		}
	}

	if len(s.opts.Include) == 0 {
		return true
	}
	for _, pattern := range s.opts.Include {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// Scan walks Root and returns the relative slash paths of candidate files, sorted.
// Hidden directories are skipped. With FollowSymlinks, linked files are read
// through the link and linked directories are walked under the link's name;
// a directory already walked (a cycle) is skipped. Walk errors are returned as FileErrors.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	root := s.Root()
	visited := make(map[string]bool)
	if real, err := filepath.EvalSymlinks(root); err == nil {
		visited[real] = true
	}

	var paths []string
	if err := s.walk(ctx, root, "", visited, &paths); err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// walk scans the physical directory dir, naming entries under the logical prefix
func (s *Scanner) walk(ctx context.Context, dir, prefix string, visited map[string]bool, paths *[]string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return scerrors.NewFileError("walk", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if prefix != "" {
			rel = prefix + "/" + rel
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !s.opts.FollowSymlinks {
				return nil
			}
			return s.followLink(ctx, path, rel, visited, paths)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		return s.addFile(path, rel, paths)
	})
}

// followLink resolves a symlink: directories are walked once, regular files
// are added, anything else (dangling links, devices) is skipped.
func (s *Scanner) followLink(ctx context.Context, path, rel string, visited map[string]bool, paths *[]string) error {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		debug.LogIngest("skipping unresolvable symlink %s: %v\n", rel, err)
		return nil
	}
	info, err := os.Stat(real)
	if err != nil {
		return scerrors.NewFileError("stat", rel, err)
	}

	switch {
	case info.IsDir():
		if visited[real] || strings.HasPrefix(filepath.Base(rel), ".") {
			return nil
		}
		visited[real] = true
		return s.walk(ctx, real, rel, visited, paths)
	case info.Mode().IsRegular():
		return s.addFile(real, rel, paths)
	}
	return nil
}

// addFile applies the glob, extension and size filters to one regular file
func (s *Scanner) addFile(path, rel string, paths *[]string) error {
	if !s.Matches(rel) || s.binaryDetector.IsBinaryByExtension(rel) {
		return nil
	}

	if s.opts.MaxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return scerrors.NewFileError("stat", rel, err)
		}
		if info.Size() > s.opts.MaxFileSize {
			debug.LogIngest("skipping %s: %d bytes exceeds limit\n", rel, info.Size())
			return nil
		}
	}

	*paths = append(*paths, rel)
	return nil
}

// Read loads the named files relative to Root. Binary content is skipped.
// Any read failure is returned as a FileError; nothing is silently dropped.
func (s *Scanner) Read(ctx context.Context, rels []string) ([]Source, error) {
	root := s.Root()
	sources := make([]Source, 0, len(rels))

	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, scerrors.NewFileError("read", rel, err)
		}
		if s.binaryDetector.IsBinaryContent(data) {
			debug.LogIngest("skipping binary content %s\n", rel)
			continue
		}
		sources = append(sources, Source{Name: rel, Content: string(data)})
	}
	return sources, nil
}

// Load scans and reads in one step
func (s *Scanner) Load(ctx context.Context) ([]Source, error) {
	rels, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	debug.LogIngest("scan found %d files under %s\n", len(rels), s.Root())
	return s.Read(ctx, rels)
}
