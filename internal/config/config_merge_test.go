package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConfigs_ExclusionsMerge(t *testing.T) {
	base := &Config{Exclude: []string{"**/node_modules/**", "**/vendor/**"}}
	project := &Config{Exclude: []string{"**/dist/**", "**/node_modules/**"}}

	merged := mergeConfigs(base, project)
	assert.Equal(t, []string{"**/node_modules/**", "**/vendor/**", "**/dist/**"}, merged.Exclude)
}

func TestMergeConfigs_IncludeFallsBackToBase(t *testing.T) {
	base := &Config{Include: []string{"**/*.go"}}
	project := &Config{}
	assert.Equal(t, []string{"**/*.go"}, mergeConfigs(base, project).Include)

	project.Include = []string{"**/*.c"}
	assert.Equal(t, []string{"**/*.c"}, mergeConfigs(base, project).Include)
}

func TestMergeConfigs_ProjectSettingsWin(t *testing.T) {
	base := &Config{Analysis: Analysis{CaseFold: true, StemExclusions: []string{"api"}}, Output: Output{TopK: 3}}
	project := &Config{Output: Output{TopK: 7}}

	merged := mergeConfigs(base, project)
	assert.False(t, merged.Analysis.CaseFold)
	assert.Equal(t, []string{"api"}, merged.Analysis.StemExclusions)
	assert.Equal(t, 7, merged.Output.TopK)
}

func TestLoadWithRoot_MergesGlobalAndProjectConfigs(t *testing.T) {
	tmpHome := t.TempDir()
	tmpProject := t.TempDir()
	t.Setenv("HOME", tmpHome)

	globalConfig := `
exclude {
    "**/real_projects/**"
}
corpus {
    max_file_size "5MB"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpHome, ConfigFileName), []byte(globalConfig), 0o644))

	projectConfig := `
project {
    name "test-project"
}
exclude {
    "**/dist/**"
}
corpus {
    max_file_size "10MB"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpProject, ConfigFileName), []byte(projectConfig), 0o644))

	cfg, err := LoadWithRoot("", tmpProject)
	require.NoError(t, err)

	assert.Contains(t, cfg.Exclude, "**/real_projects/**")
	assert.Contains(t, cfg.Exclude, "**/dist/**")
	assert.Equal(t, int64(10*1024*1024), cfg.Corpus.MaxFileSize)
	assert.Equal(t, "test-project", cfg.Project.Name)
	assert.Equal(t, absOr(tmpProject), cfg.Project.Root)
}

func TestLoadWithRoot_NoConfigUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpProject := t.TempDir()

	cfg, err := LoadWithRoot("", tmpProject)
	require.NoError(t, err)
	assert.Equal(t, absOr(tmpProject), cfg.Project.Root)
	assert.Equal(t, filepath.Base(tmpProject), cfg.Project.Name)
	assert.Equal(t, DefaultTopK, cfg.Output.TopK)
}

func TestLoadWithRoot_GlobalConfigOnly(t *testing.T) {
	tmpHome := t.TempDir()
	tmpProject := t.TempDir()
	t.Setenv("HOME", tmpHome)

	require.NoError(t, os.WriteFile(filepath.Join(tmpHome, ConfigFileName), []byte("output {\n    top_k 3\n}\n"), 0o644))

	cfg, err := LoadWithRoot("", tmpProject)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Output.TopK)
	assert.Equal(t, absOr(tmpProject), cfg.Project.Root)
}

func TestLoadWithRoot_ExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.kdl")
	require.NoError(t, os.WriteFile(path, []byte("project {\n    root \"src\"\n}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(absOr(dir), "src"), cfg.Project.Root)
}

func TestLoadWithRoot_InvalidProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpProject := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpProject, ConfigFileName), []byte("output {"), 0o644))

	_, err := LoadWithRoot("", tmpProject)
	assert.Error(t, err)
}

func TestEnrichExclusions_Gitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated/\n*.tmp\n"), 0o644))

	cfg := Default(root)
	cfg.EnrichExclusions()
	assert.Contains(t, cfg.Exclude, "**/generated/**")
	assert.Contains(t, cfg.Exclude, "**/*.tmp")

	cfg = Default(root)
	cfg.Corpus.RespectGitignore = false
	cfg.EnrichExclusions()
	assert.NotContains(t, cfg.Exclude, "**/generated/**")
}

func TestWorkers(t *testing.T) {
	cfg := Default(".")
	cfg.Performance.ParallelFileWorkers = 6
	assert.Equal(t, 6, cfg.Workers())

	cfg.Performance.ParallelFileWorkers = 0
	assert.GreaterOrEqual(t, cfg.Workers(), 1)
}
