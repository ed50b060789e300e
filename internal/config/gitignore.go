package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// GitignoreParser reads a root .gitignore and converts its entries into
// doublestar exclusion globs for the corpus scanner
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool // trailing "/"
	Absolute  bool // leading "/" or an inner "/"; anchored to the root
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gp.Parse(file)
}

// Parse reads gitignore lines from r
func (gp *GitignoreParser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		gp.AddPattern(scanner.Text())
	}
	return scanner.Err()
}

// AddPattern parses a single line; blanks and comments are ignored
func (gp *GitignoreParser) AddPattern(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	var p GitignorePattern
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = strings.TrimPrefix(line, "/")
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		p.Absolute = true
	}
	if line == "" {
		return
	}
	p.Pattern = line
	gp.patterns = append(gp.patterns, p)
}

// Patterns returns the parsed entries in file order
func (gp *GitignoreParser) Patterns() []GitignorePattern {
	return gp.patterns
}

// GetExclusionPatterns converts entries to exclusion globs. Negations are
// skipped since exclusion lists cannot re-include.
func (gp *GitignoreParser) GetExclusionPatterns() []string {
	var exclusions []string
	for _, p := range gp.patterns {
		if p.Negate {
			continue
		}
		exclusions = append(exclusions, toGlobs(p)...)
	}
	return exclusions
}

func toGlobs(p GitignorePattern) []string {
	base := p.Pattern
	if !p.Absolute && !strings.HasPrefix(base, "**/") {
		base = "**/" + base
	}
	if p.Directory {
		return []string{base + "/**"}
	}
	// A bare name may be a file or a directory
	return []string{base, base + "/**"}
}
