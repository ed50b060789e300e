package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is looked up in the project root and the user's home directory
const ConfigFileName = ".semcouple.kdl"

// Defaults shared by Load and parseKDL
const (
	DefaultMaxFileSize       = 10 * 1024 * 1024
	DefaultSplitterCacheSize = 1000
	DefaultStemMinLength     = 3
	DefaultTopK              = 10
	DefaultDumpDir           = "semcouple-out"
	DefaultDebounceMs        = 300
)

type Config struct {
	Version     int
	Project     Project
	Corpus      Corpus
	Analysis    Analysis
	Performance Performance
	Output      Output
	Watch       Watch
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

type Corpus struct {
	MaxFileSize      int64 // bytes; files above this are skipped
	FollowSymlinks   bool
	RespectGitignore bool // Translate root .gitignore entries into exclusions
}

// Analysis controls how terms are extracted from a document
type Analysis struct {
	CaseFold          bool // Lowercase terms after splitting ("Camel" == "camel")
	KeepNumeric       bool // Keep all-digit sub-tokens ("1" from "top1Results")
	Stemming          bool // Lemmatize all-lowercase words with porter2
	StemMinLength     int
	StemExclusions    []string
	SplitterCacheSize int
	Tokenizer         string // HuggingFace tokenizer.json; empty = built-in lexer
}

type Performance struct {
	ParallelFileWorkers int // 0 = auto-detect (NumCPU-1)
}

type Output struct {
	TopK    int
	DumpDir string
}

type Watch struct {
	DebounceMs int
}

func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot loads ~/.semcouple.kdl and <root>/.semcouple.kdl, merging the
// project file over the global one. With neither present, defaults are used.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}
	if path != "" {
		searchDir = filepath.Dir(path)
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil && filepath.Clean(homeDir) != filepath.Clean(searchDir) {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	var projectConfig *Config
	var err error
	if path != "" {
		projectConfig, err = LoadKDLFile(path, searchDir)
	} else {
		projectConfig, err = LoadKDL(searchDir)
	}
	if err != nil {
		return nil, err
	}

	var cfg *Config
	switch {
	case baseConfig != nil && projectConfig != nil:
		cfg = mergeConfigs(baseConfig, projectConfig)
	case projectConfig != nil:
		cfg = projectConfig
	case baseConfig != nil:
		cfg = baseConfig
		cfg.Project.Root = absOr(searchDir)
	default:
		cfg = Default(absOr(searchDir))
	}

	if rootDir != "" {
		cfg.Project.Root = absOr(rootDir)
	}

	cfg.EnrichExclusions()
	return cfg, nil
}

// Default returns the built-in configuration for root
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{
			Root: root,
			Name: filepath.Base(root),
		},
		Corpus: Corpus{
			MaxFileSize:      DefaultMaxFileSize,
			FollowSymlinks:   false,
			RespectGitignore: true,
		},
		Analysis: Analysis{
			CaseFold:          false,
			KeepNumeric:       false,
			Stemming:          true,
			StemMinLength:     DefaultStemMinLength,
			SplitterCacheSize: DefaultSplitterCacheSize,
		},
		Performance: Performance{
			ParallelFileWorkers: 0,
		},
		Output: Output{
			TopK:    DefaultTopK,
			DumpDir: DefaultDumpDir,
		},
		Watch: Watch{
			DebounceMs: DefaultDebounceMs,
		},
		Include: []string{},
		Exclude: getDefaultExclusions(),
	}
}

func absOr(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence, but base exclusions are preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		merged.Exclude = DeduplicatePatterns(append(append([]string{}, base.Exclude...), project.Exclude...))
	}

	// Inclusions: project overrides base completely if specified
	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	if len(project.Analysis.StemExclusions) == 0 && len(base.Analysis.StemExclusions) > 0 {
		merged.Analysis.StemExclusions = base.Analysis.StemExclusions
	}

	return &merged
}

// EnrichExclusions adds build output directories detected from language
// configs and, when enabled, the root .gitignore entries.
func (c *Config) EnrichExclusions() {
	if c.Project.Root == "" {
		return
	}

	patterns := NewBuildArtifactDetector(c.Project.Root).DetectOutputDirectories()

	if c.Corpus.RespectGitignore {
		gp := NewGitignoreParser()
		if err := gp.LoadGitignore(c.Project.Root); err == nil {
			patterns = append(patterns, gp.GetExclusionPatterns()...)
		}
	}

	if len(patterns) > 0 {
		c.Exclude = DeduplicatePatterns(append(c.Exclude, patterns...))
	}
}

// Workers resolves ParallelFileWorkers, mapping 0 to NumCPU-1 (at least 1)
func (c *Config) Workers() int {
	if c.Performance.ParallelFileWorkers > 0 {
		return c.Performance.ParallelFileWorkers
	}
	return max(1, runtime.NumCPU()-1)
}
