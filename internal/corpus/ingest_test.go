package corpus

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/semcouple/internal/annotate"
	scerrors "github.com/standardbeagle/semcouple/internal/errors"
	"github.com/standardbeagle/semcouple/internal/semantic"
)

type failingAnnotator struct {
	failOn string
}

func (f *failingAnnotator) Annotate(ctx context.Context, text string) ([]annotate.Sentence, error) {
	if text == f.failOn {
		return nil, errors.New("annotation service unavailable")
	}
	return annotate.NewLexAnnotator(nil).Annotate(ctx, text)
}

func (f *failingAnnotator) Close() error { return nil }

func newTestExtractor(opts semantic.FilterOptions) *Extractor {
	return NewExtractor(annotate.NewLexAnnotator(nil), semantic.NewNameSplitter(), opts)
}

func TestExtractorExtract(t *testing.T) {
	e := newTestExtractor(semantic.FilterOptions{})

	terms, err := e.Extract(context.Background(), `for (i = 0; i < 3; i++) { printf("hello"); }`)
	require.NoError(t, err)
	assert.Equal(t, []string{"for", "i", "i", "i", "printf", "hello"}, terms)

	tf := BuildTermFrequencies(terms)
	assert.Equal(t, map[string]float64{"for": 1, "i": 3, "printf": 1, "hello": 1}, tf.Map())
}

func TestExtractorSplitsIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		opts semantic.FilterOptions
		text string
		want []string
	}{
		{"camel", semantic.FilterOptions{}, "getUserName()", []string{"get", "User", "Name"}},
		{"digits dropped", semantic.FilterOptions{}, "top1Results", []string{"top", "Results"}},
		{"digits kept", semantic.FilterOptions{KeepNumeric: true}, "top1Results", []string{"top", "1", "Results"}},
		{"case folded", semantic.FilterOptions{CaseFold: true}, "Camel camel", []string{"camel", "camel"}},
		{"case preserved", semantic.FilterOptions{}, "Camel camel", []string{"Camel", "camel"}},
		{"acronym", semantic.FilterOptions{}, "MAXNumber", []string{"MAX", "Number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := newTestExtractor(tt.opts).Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, terms)
		})
	}
}

func TestIngest(t *testing.T) {
	sources := []Source{
		{Name: "a.c", Content: "int alphaCount;"},
		{Name: "b.c", Content: "int betaCount;"},
		{Name: "c.c", Content: "int alphaCount;"},
	}

	c, err := Ingest(context.Background(), sources, newTestExtractor(semantic.FilterOptions{}), 2)
	require.NoError(t, err)

	require.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"a.c", "b.c", "c.c"}, c.Names())
	for i, d := range c.Documents() {
		assert.Equal(t, i, d.ID)
		assert.Nil(t, d.Vector)
	}

	a, _ := c.Find("a.c")
	assert.Equal(t, []string{"int", "alpha", "Count"}, a.Terms)
	assert.Equal(t, 1.0, a.TF.Count("alpha"))

	cc, _ := c.Find("c.c")
	assert.Equal(t, a.Hash, cc.Hash)
	assert.Len(t, c.Duplicates(), 1)
}

func TestIngestUnlimitedWorkers(t *testing.T) {
	sources := make([]Source, 50)
	for i := range sources {
		sources[i] = Source{Name: fmt.Sprintf("f%02d.go", i), Content: fmt.Sprintf("var value%d int", i)}
	}

	c, err := Ingest(context.Background(), sources, newTestExtractor(semantic.FilterOptions{}), 0)
	require.NoError(t, err)
	assert.Equal(t, 50, c.Len())
	assert.Equal(t, "f00.go", c.Documents()[0].Name)
	assert.Equal(t, "f49.go", c.Documents()[49].Name)
}

func TestIngestAnnotationFailure(t *testing.T) {
	e := NewExtractor(&failingAnnotator{failOn: "boom"}, nil, semantic.FilterOptions{})
	sources := []Source{
		{Name: "ok.c", Content: "fine"},
		{Name: "bad.c", Content: "boom"},
	}

	_, err := Ingest(context.Background(), sources, e, 1)
	require.Error(t, err)

	var annErr *scerrors.AnnotationError
	require.ErrorAs(t, err, &annErr)
	assert.Equal(t, "bad.c", annErr.Document)
}

func TestIngestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Ingest(ctx, []Source{{Name: "a.c", Content: "x"}}, newTestExtractor(semantic.FilterOptions{}), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestDuplicateNames(t *testing.T) {
	sources := []Source{{Name: "a.c", Content: "x"}, {Name: "a.c", Content: "y"}}
	_, err := Ingest(context.Background(), sources, newTestExtractor(semantic.FilterOptions{}), 1)
	assert.Error(t, err)
}
