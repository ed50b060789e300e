// Build output detection from language-specific project files, so generated
// sources do not skew term weights
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector finds language-specific build output directories
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories returns exclusion globs such as "**/dist/**"
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string
	patterns = append(patterns, bad.detectTypeScriptOutputs()...)
	patterns = append(patterns, bad.detectRustOutputs()...)
	patterns = append(patterns, bad.detectPythonOutputs()...)
	return DeduplicatePatterns(patterns)
}

func dirGlob(dir string) string {
	dir = strings.Trim(filepath.ToSlash(strings.TrimSpace(dir)), "/")
	dir = strings.TrimPrefix(dir, "./")
	if dir == "" || dir == "." {
		return ""
	}
	return "**/" + dir + "/**"
}

func (bad *BuildArtifactDetector) appendDir(patterns []string, dir string) []string {
	if g := dirGlob(dir); g != "" {
		return append(patterns, g)
	}
	return patterns
}

// detectTypeScriptOutputs reads compilerOptions.outDir from tsconfig.json
func (bad *BuildArtifactDetector) detectTypeScriptOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(bad.projectRoot, "tsconfig.json"))
	if err != nil {
		return nil
	}
	var tsconfig struct {
		CompilerOptions struct {
			OutDir string `json:"outDir"`
		} `json:"compilerOptions"`
	}
	if json.Unmarshal(data, &tsconfig) == nil {
		patterns = bad.appendDir(patterns, tsconfig.CompilerOptions.OutDir)
	}
	return patterns
}

// detectRustOutputs reads build.target-dir from Cargo.toml
func (bad *BuildArtifactDetector) detectRustOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(bad.projectRoot, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var cargo struct {
		Build struct {
			TargetDir string `toml:"target-dir"`
		} `toml:"build"`
		Profile map[string]struct {
			TargetDir string `toml:"target-dir"`
		} `toml:"profile"`
	}
	if toml.Unmarshal(data, &cargo) == nil {
		patterns = bad.appendDir(patterns, cargo.Build.TargetDir)
		for _, profile := range cargo.Profile {
			patterns = bad.appendDir(patterns, profile.TargetDir)
		}
	}
	return patterns
}

// detectPythonOutputs reads build directories from pyproject.toml
func (bad *BuildArtifactDetector) detectPythonOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(bad.projectRoot, "pyproject.toml"))
	if err != nil {
		return nil
	}
	var pyproject struct {
		Tool struct {
			Poetry struct {
				Build struct {
					TargetDir string `toml:"target-dir"`
				} `toml:"build"`
			} `toml:"poetry"`
			Setuptools struct {
				BuildDir string `toml:"build-dir"`
			} `toml:"setuptools"`
			Hatch struct {
				Build struct {
					Directory string `toml:"directory"`
				} `toml:"build"`
			} `toml:"hatch"`
		} `toml:"tool"`
	}
	if toml.Unmarshal(data, &pyproject) == nil {
		patterns = bad.appendDir(patterns, pyproject.Tool.Poetry.Build.TargetDir)
		patterns = bad.appendDir(patterns, pyproject.Tool.Setuptools.BuildDir)
		patterns = bad.appendDir(patterns, pyproject.Tool.Hatch.Build.Directory)
	}
	return patterns
}

// DeduplicatePatterns removes duplicate patterns, keeping first occurrence order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}
	return result
}
