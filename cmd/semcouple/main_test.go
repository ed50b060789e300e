package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/semcouple/internal/config"
	"github.com/standardbeagle/semcouple/internal/coupling"
	"github.com/standardbeagle/semcouple/internal/dump"
	scerrors "github.com/standardbeagle/semcouple/internal/errors"
	"github.com/standardbeagle/semcouple/internal/ranking"
)

func writeProject(t *testing.T) string {
	t.Helper()
	// Keep a developer's ~/.semcouple.kdl out of the tests
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	files := map[string]string{
		"a.c": "void printUserName() { printf(name); }",
		"b.c": "void printUserAge() { printf(age); }",
		"c.c": "int computeTax(int income) { return income * rate; }",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// run executes the CLI in-process and returns its stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp(&out)
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"semcouple"}, args...))
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRankText(t *testing.T) {
	dir := writeProject(t)

	out, err := run(t, "--root", dir, "rank", "a.c")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 3)
	assert.Equal(t, "The top 2 file(s) ranked by semantic coupling:", got[0])
	assert.True(t, strings.HasPrefix(got[1], "b.c\t"), got[1])
	assert.Equal(t, "c.c\t0.00", got[2])
}

func TestRankJSON(t *testing.T) {
	dir := writeProject(t)

	out, err := run(t, "--root", dir, "rank", "--format", "json", "-k", "1", "a.c")
	require.NoError(t, err)

	var results []ranking.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "b.c", results[0].Name)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestRankYAML(t *testing.T) {
	dir := writeProject(t)

	out, err := run(t, "--root", dir, "rank", "-f", "yaml", "a.c")
	require.NoError(t, err)

	var results []ranking.Result
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "b.c", results[0].Name)
	assert.Equal(t, "c.c", results[1].Name)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestRankErrors(t *testing.T) {
	dir := writeProject(t)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, err error)
	}{
		{
			name: "missing argument",
			args: []string{"--root", dir, "rank"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errMissingTarget)
			},
		},
		{
			name: "unknown target",
			args: []string{"--root", dir, "rank", "a.h"},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, scerrors.ErrTargetNotFound)
				var notFound *scerrors.TargetNotFoundError
				require.True(t, errors.As(err, &notFound))
				assert.Contains(t, notFound.Suggestions, "a.c")
			},
		},
		{
			name: "bad format",
			args: []string{"--root", dir, "rank", "--format", "xml", "a.c"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "unknown output format")
			},
		},
		{
			name: "negative k",
			args: []string{"--root", dir, "rank", "--top=-1", "a.c"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "non-negative")
			},
		},
		{
			name: "explicit config missing",
			args: []string{"--root", dir, "--config", filepath.Join(dir, "nope.kdl"), "rank", "a.c"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "nope.kdl")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestIncludeOverride(t *testing.T) {
	dir := writeProject(t)

	out, err := run(t, "--root", dir, "--include", "a.c", "--include", "c.c", "rank", "a.c")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.Equal(t, "c.c\t0.00", got[1])
}

func TestProjectConfigFile(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName),
		[]byte("output { top_k 1 }\n"), 0644))

	out, err := run(t, "--root", dir, "rank", "a.c")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.Equal(t, "The top 1 file(s) ranked by semantic coupling:", got[0])
	assert.True(t, strings.HasPrefix(got[1], "b.c\t"))
}

func TestDump(t *testing.T) {
	dir := writeProject(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := run(t, "--root", dir, "dump", "--out", outDir, "a.c")
	require.NoError(t, err)
	assert.Contains(t, out, "a.c")

	for _, name := range []string{dump.IDFFile, dump.InvertedIndexFile, dump.TFFile, dump.TFIDFFile} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestTerms(t *testing.T) {
	dir := writeProject(t)

	out, err := run(t, "--root", dir, "terms", "-n", "2", "c.c")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	for _, line := range got {
		assert.Len(t, strings.Split(line, "\t"), 3, line)
	}

	out, err = run(t, "--root", dir, "terms", "--format", "json", "-n", "0", "c.c")
	require.NoError(t, err)
	var terms []coupling.TermWeight
	require.NoError(t, json.Unmarshal([]byte(out), &terms))
	assert.Greater(t, len(terms), 2)
	for i := 1; i < len(terms); i++ {
		assert.GreaterOrEqual(t, terms[i-1].Weight, terms[i].Weight)
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchRankingReprints(t *testing.T) {
	dir := writeProject(t)

	cfg := config.Default(dir)
	cfg.Watch.DebounceMs = 50
	require.NoError(t, config.ValidateConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out, errOut syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- watchRanking(ctx, &out, &errOut, cfg, "a.c", 10, formatText)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "Watching")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "d.c"),
		[]byte("void printUserName() { printf(name); }"), 0644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "d.c\t1.00")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
