package corpus

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/semcouple/internal/annotate"
	"github.com/standardbeagle/semcouple/internal/debug"
	scerrors "github.com/standardbeagle/semcouple/internal/errors"
	"github.com/standardbeagle/semcouple/internal/semantic"
)

// Extractor turns raw text into filtered terms:
// annotator lemmas -> identifier splitter -> identifier filter.
type Extractor struct {
	annotator annotate.Annotator
	splitter  *semantic.NameSplitter
	filter    semantic.FilterOptions
}

// NewExtractor creates a term extractor. The annotator is borrowed, not owned.
func NewExtractor(annotator annotate.Annotator, splitter *semantic.NameSplitter, filter semantic.FilterOptions) *Extractor {
	if splitter == nil {
		splitter = semantic.NewNameSplitter()
	}
	return &Extractor{annotator: annotator, splitter: splitter, filter: filter}
}

// Extract returns the ordered term sequence for text
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	sentences, err := e.annotator.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}
	subTokens := e.splitter.SplitAll(annotate.Lemmas(sentences))
	return semantic.FilterIdentifiers(subTokens, e.filter), nil
}

// NewDocument extracts terms for one source and builds its TF mapping
func (e *Extractor) NewDocument(ctx context.Context, src Source) (*Document, error) {
	terms, err := e.Extract(ctx, src.Content)
	if err != nil {
		return nil, scerrors.NewAnnotationError(src.Name, err)
	}
	return &Document{
		Name:    src.Name,
		Content: src.Content,
		Hash:    xxhash.Sum64String(src.Content),
		Terms:   terms,
		TF:      BuildTermFrequencies(terms),
	}, nil
}

// Ingest builds a corpus from sources, extracting terms in parallel.
// Each worker owns exactly one document. workers <= 0 means no limit.
// The first error cancels the remaining work and is returned.
func Ingest(ctx context.Context, sources []Source, extractor *Extractor, workers int) (*Corpus, error) {
	docs := make([]*Document, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, src := range sources {
		g.Go(func() error {
			doc, err := extractor.NewDocument(gctx, src)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	c, err := NewCorpus(docs)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	debug.LogIngest("ingested %d documents\n", c.Len())
	for first, names := range c.Duplicates() {
		debug.LogIngest("identical content: %s and %d more\n", first, len(names)-1)
	}
	return c, nil
}
