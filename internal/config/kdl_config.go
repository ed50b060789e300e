package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/semcouple/internal/debug"
)

// LoadKDL loads <projectRoot>/.semcouple.kdl. A missing file yields (nil, nil).
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadKDLFile(kdlPath, projectRoot)
}

// LoadKDLFile loads an explicit config file. A relative project root inside
// the file is resolved against baseDir.
func LoadKDLFile(kdlPath, baseDir string) (*Config, error) {
	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kdlPath, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kdlPath, err)
	}

	if cfg.Project.Root != "" {
		root := cfg.Project.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, root)
		}
		cfg.Project.Root = absOr(filepath.Clean(root))
	} else {
		cfg.Project.Root = absOr(baseDir)
	}
	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(cfg.Project.Root)
	}

	return cfg, nil
}

// parseKDL reads a config document over the built-in defaults.
//
//	project { root "."; name "demo" }
//	corpus { max_file_size "5MB"; follow_symlinks false; respect_gitignore true }
//	analysis { case_fold false; keep_numeric false; stemming true; stem_exclusions "api" "io" }
//	performance { parallel_file_workers 4 }
//	output { top_k 10; dump_dir "out" }
//	watch { debounce_ms 300 }
//	include "**/*.c" "**/*.h"
//	exclude { "**/vendor/**" }
func parseKDL(content string) (*Config, error) {
	cfg := Default("")

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "corpus":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Corpus.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Corpus.MaxFileSize = sz
						}
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Corpus.FollowSymlinks = b
					}
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Corpus.RespectGitignore = b
					}
				}
			}
		case "analysis":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "case_fold":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Analysis.CaseFold = b
					}
				case "keep_numeric":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Analysis.KeepNumeric = b
					}
				case "stemming":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Analysis.Stemming = b
					}
				case "stem_min_length":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.StemMinLength = v
					}
				case "stem_exclusions":
					cfg.Analysis.StemExclusions = collectStringArgs(cn)
				case "splitter_cache_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.SplitterCacheSize = v
					}
				case "tokenizer":
					if s, ok := firstStringArg(cn); ok {
						cfg.Analysis.Tokenizer = s
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				if nodeName(cn) == "parallel_file_workers" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.ParallelFileWorkers = v
					}
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "top_k":
					if v, ok := firstIntArg(cn); ok {
						cfg.Output.TopK = v
					}
				case "dump_dir":
					if s, ok := firstStringArg(cn); ok {
						cfg.Output.DumpDir = s
					}
				}
			}
		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) == "debounce_ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			// An exclude block replaces the defaults
			cfg.Exclude = collectStringArgs(n)
		default:
			debug.Log("CONFIG", "ignoring unknown config node %q\n", nodeName(n))
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs accepts both inline (`exclude "a" "b"`) and block
// (`exclude { "a"; "b" }`) forms
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// In block form each string is a child node whose name is the value
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}

func getDefaultExclusions() []string {
	return []string{
		// Hidden directories
		"**/.*/**",

		// Dependencies
		"**/node_modules/**",
		"**/vendor/**",
		"**/bower_components/**",
		"**/venv/**",
		"**/.venv/**",
		"**/site-packages/**",
		"**/__pycache__/**",

		// Build output
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/bin/**",
		"**/obj/**",
		"**/CMakeFiles/**",
		"**/*.min.js",
		"**/*.min.css",
		"**/*.bundle.js",
		"**/*.map",

		// Lock files carry no identifiers worth weighting
		"**/package-lock.json",
		"**/yarn.lock",
		"**/pnpm-lock.yaml",
		"**/Cargo.lock",
		"**/go.sum",

		// Editor and OS leftovers
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/Thumbs.db",
		"**/.DS_Store",

		// Logs
		"**/*.log",
	}
}
