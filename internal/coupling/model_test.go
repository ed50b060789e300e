package coupling

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/semcouple/internal/annotate"
	"github.com/standardbeagle/semcouple/internal/config"
	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/dump"
	scerrors "github.com/standardbeagle/semcouple/internal/errors"
	"github.com/standardbeagle/semcouple/internal/semantic"
)

var testSources = []corpus.Source{
	{Name: "a.c", Content: "void printUserName() { printf(name); }"},
	{Name: "b.c", Content: "void printUserAge() { printf(age); }"},
	{Name: "c.c", Content: "int computeTax(int income) { return income * rate; }"},
}

func buildModel(t *testing.T, sources []corpus.Source, opts Options) *Model {
	t.Helper()
	p := NewPipelineWithAnnotator(annotate.NewLexAnnotator(nil), opts)
	defer p.Close()

	m, err := p.Build(context.Background(), sources)
	require.NoError(t, err)
	return m
}

func TestBuildVectorsMatchVocabulary(t *testing.T) {
	m := buildModel(t, testSources, Options{Workers: 2})

	require.Equal(t, 3, m.Corpus().Len())
	for _, d := range m.Corpus().Documents() {
		assert.Len(t, d.Vector, m.Dictionary().Len(), d.Name)
		for _, x := range d.Vector {
			assert.False(t, math.IsNaN(x))
		}
		// Every TF key is in the vocabulary
		for _, term := range d.TF.Terms() {
			_, ok := m.Dictionary().Position(term)
			assert.True(t, ok, term)
		}
	}
}

func TestRankSimilar(t *testing.T) {
	m := buildModel(t, testSources, Options{})

	ranked, err := m.RankSimilar("a.c", 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "b.c", ranked[0].Name)
	assert.Greater(t, ranked[0].Score, 0.0)
	assert.Equal(t, "c.c", ranked[1].Name)
	assert.Equal(t, 0.0, ranked[1].Score)
}

func TestRankSimilarClampsK(t *testing.T) {
	m := buildModel(t, testSources, Options{})

	top, err := m.RankSimilar("a.c", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "b.c", top[0].Name)

	none, err := m.RankSimilar("a.c", -1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRankSimilarIdenticalContent(t *testing.T) {
	sources := append([]corpus.Source{}, testSources...)
	sources = append(sources, corpus.Source{Name: "d.c", Content: testSources[0].Content})

	m := buildModel(t, sources, Options{})
	ranked, err := m.RankSimilar("a.c", 1)
	require.NoError(t, err)
	assert.Equal(t, "d.c", ranked[0].Name)
	assert.Equal(t, 1.0, ranked[0].Score)
}

func TestRankSimilarSymmetric(t *testing.T) {
	m := buildModel(t, testSources, Options{})

	ab, err := m.RankSimilar("a.c", 2)
	require.NoError(t, err)
	ba, err := m.RankSimilar("b.c", 2)
	require.NoError(t, err)

	var abScore, baScore float64
	for _, r := range ab {
		if r.Name == "b.c" {
			abScore = r.Score
		}
	}
	for _, r := range ba {
		if r.Name == "a.c" {
			baScore = r.Score
		}
	}
	assert.Equal(t, abScore, baScore)
}

func TestTargetNotFound(t *testing.T) {
	m := buildModel(t, testSources, Options{})

	_, err := m.RankSimilar("a.cc", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, scerrors.ErrTargetNotFound)

	var tnf *scerrors.TargetNotFoundError
	require.ErrorAs(t, err, &tnf)
	assert.Equal(t, "a.cc", tnf.Target)
	require.NotEmpty(t, tnf.Suggestions)
	assert.Equal(t, "a.c", tnf.Suggestions[0])

	_, err = m.TopTerms("zzz", 3)
	assert.ErrorIs(t, err, scerrors.ErrTargetNotFound)
}

func TestTargetNotFoundIgnoresExtension(t *testing.T) {
	m := buildModel(t, []corpus.Source{
		{Name: "a.java", Content: "class A { int alpha; }"},
		{Name: "b.java", Content: "class B { int beta; }"},
		{Name: "c.java", Content: "class C { int gamma; }"},
	}, Options{})

	_, err := m.Document("zzz.java")
	var tnf *scerrors.TargetNotFoundError
	require.ErrorAs(t, err, &tnf)
	assert.Empty(t, tnf.Suggestions)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestSingleDocumentCorpus(t *testing.T) {
	m := buildModel(t, testSources[:1], Options{})

	ranked, err := m.RankSimilar("a.c", 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	// N == df for every term, so every weight is zero
	for _, x := range m.Corpus().Documents()[0].Vector {
		assert.Equal(t, 0.0, x)
	}
}

func TestEmptyCorpus(t *testing.T) {
	m := buildModel(t, nil, Options{})
	assert.Equal(t, 0, m.Dictionary().Len())

	_, err := m.RankSimilar("a.c", 1)
	assert.ErrorIs(t, err, scerrors.ErrTargetNotFound)
}

func TestTopTerms(t *testing.T) {
	m := buildModel(t, testSources, Options{})

	terms, err := m.TopTerms("a.c", 2)
	require.NoError(t, err)
	require.Len(t, terms, 2)

	// "Name" and "name" occur only in a.c: idf = ln 3
	assert.Equal(t, "Name", terms[0].Term)
	assert.Equal(t, "name", terms[1].Term)
	assert.InDelta(t, math.Log(3), terms[0].Weight, 1e-12)
	assert.Equal(t, 1.0, terms[0].Count)

	all, err := m.TopTerms("a.c", 0)
	require.NoError(t, err)
	assert.Len(t, all, m.Corpus().Documents()[0].TF.Len())
}

func TestCaseFoldMergesTerms(t *testing.T) {
	m := buildModel(t, testSources, Options{Filter: semantic.FilterOptions{CaseFold: true}})

	_, hasUpper := m.Dictionary().Position("Name")
	assert.False(t, hasUpper)
	assert.Equal(t, 2.0, m.Corpus().Documents()[0].TF.Count("name"))
}

func TestParallelBuildMatchesSequential(t *testing.T) {
	sources := make([]corpus.Source, 40)
	for i := range sources {
		sources[i] = corpus.Source{
			Name:    fmt.Sprintf("f%02d.go", i),
			Content: fmt.Sprintf("func handleRequest%d(ctx Context) { logValue(%d); parseHeader(ctx) }", i%7, i),
		}
	}

	seq := buildModel(t, sources, Options{Workers: 1})
	par := buildModel(t, sources, Options{Workers: 8})

	assert.Equal(t, seq.Dictionary().Vocabulary(), par.Dictionary().Vocabulary())
	for i, d := range seq.Corpus().Documents() {
		assert.Equal(t, d.Vector, par.Corpus().Documents()[i].Vector)
	}

	a, err := seq.RankSimilar("f03.go", 5)
	require.NoError(t, err)
	b, err := par.RankSimilar("f03.go", 5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildCanceled(t *testing.T) {
	p := NewPipelineWithAnnotator(annotate.NewLexAnnotator(nil), Options{Workers: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Build(ctx, testSources)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModelDump(t *testing.T) {
	m := buildModel(t, testSources, Options{})
	dir := t.TempDir()

	require.NoError(t, m.Dump(dir, "b.c"))
	for _, name := range []string{dump.IDFFile, dump.InvertedIndexFile, dump.TFFile, dump.TFIDFFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	err := m.Dump(dir, "missing.c")
	assert.ErrorIs(t, err, scerrors.ErrTargetNotFound)
}

func TestLoadFromConfig(t *testing.T) {
	root := t.TempDir()
	for _, src := range testSources {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", src.Name), []byte(src.Content), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "gen.c"), []byte("void printUserName();"), 0o644))

	cfg := config.Default(root)
	cfg.Include = []string{"**/*.c"}
	cfg.Performance.ParallelFileWorkers = 2

	m, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.c", "src/b.c", "src/c.c"}, m.Corpus().Names())

	ranked, err := m.RankSimilar("src/a.c", 1)
	require.NoError(t, err)
	assert.Equal(t, "src/b.c", ranked[0].Name)
}

func TestNewPipelineBadTokenizer(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Analysis.Tokenizer = "missing-tokenizer.json"

	_, err := NewPipeline(cfg)
	assert.Error(t, err)
}
