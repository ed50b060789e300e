// Package coupling runs the batch pipeline: ingest documents, build the
// dictionary once every document is ingested, vectorize, then answer queries.
package coupling

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/semcouple/internal/annotate"
	"github.com/standardbeagle/semcouple/internal/config"
	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/debug"
	"github.com/standardbeagle/semcouple/internal/index"
	"github.com/standardbeagle/semcouple/internal/semantic"
	"github.com/standardbeagle/semcouple/internal/vector"
)

// Options tunes a Pipeline built around an existing annotator
type Options struct {
	Workers           int // <= 0 means unlimited
	SplitterCacheSize int
	Filter            semantic.FilterOptions
}

// Pipeline turns sources into a queryable Model. It owns its annotator only
// when created by NewPipeline.
type Pipeline struct {
	annotator     annotate.Annotator
	extractor     *corpus.Extractor
	workers       int
	ownsAnnotator bool
}

// NewPipeline creates the annotator described by cfg.Analysis and wraps it
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	a := cfg.Analysis
	stemmer := semantic.NewStemmer(a.Stemming, "porter2", a.StemMinLength, a.StemExclusions)

	tokenizer := a.Tokenizer
	if tokenizer != "" && !filepath.IsAbs(tokenizer) {
		tokenizer = filepath.Join(cfg.Project.Root, tokenizer)
	}
	annotator, err := annotate.New(tokenizer, stemmer)
	if err != nil {
		return nil, fmt.Errorf("create annotator: %w", err)
	}

	p := NewPipelineWithAnnotator(annotator, Options{
		Workers:           cfg.Workers(),
		SplitterCacheSize: a.SplitterCacheSize,
		Filter: semantic.FilterOptions{
			KeepNumeric: a.KeepNumeric,
			CaseFold:    a.CaseFold,
		},
	})
	p.ownsAnnotator = true
	return p, nil
}

// NewPipelineWithAnnotator uses a caller-owned annotator
func NewPipelineWithAnnotator(annotator annotate.Annotator, opts Options) *Pipeline {
	var splitter *semantic.NameSplitter
	if opts.SplitterCacheSize > 0 {
		splitter = semantic.NewNameSplitterWithSize(opts.SplitterCacheSize)
	} else {
		splitter = semantic.NewNameSplitter()
	}
	return &Pipeline{
		annotator: annotator,
		extractor: corpus.NewExtractor(annotator, splitter, opts.Filter),
		workers:   opts.Workers,
	}
}

// Build ingests sources, finalizes the dictionary and computes every
// document's TF-IDF vector. No vector exists before the dictionary is complete.
func (p *Pipeline) Build(ctx context.Context, sources []corpus.Source) (*Model, error) {
	start := time.Now()

	c, err := corpus.Ingest(ctx, sources, p.extractor, p.workers)
	if err != nil {
		return nil, err
	}

	dict := index.Build(c.Documents())

	if err := p.vectorize(ctx, c.Documents(), dict); err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}

	debug.Logger().Debug("model built",
		zap.Int("documents", c.Len()),
		zap.Int("terms", dict.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return newModel(c, dict), nil
}

// vectorize fills Document.Vector over the finalized dictionary in parallel.
// Each worker writes only its own document.
func (p *Pipeline) vectorize(ctx context.Context, docs []*corpus.Document, dict *index.Dictionary) error {
	g, gctx := errgroup.WithContext(ctx)
	if p.workers > 0 {
		g.SetLimit(p.workers)
	}
	for _, d := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d.Vector = vector.TFIDF(d.TF, dict)
			return nil
		})
	}
	return g.Wait()
}

// Close releases the annotator if the pipeline created it
func (p *Pipeline) Close() error {
	if p.ownsAnnotator {
		return p.annotator.Close()
	}
	return nil
}

// ScanOptions derives the corpus scan settings from cfg
func ScanOptions(cfg *config.Config) corpus.ScanOptions {
	return corpus.ScanOptions{
		Root:           cfg.Project.Root,
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
		MaxFileSize:    cfg.Corpus.MaxFileSize,
		FollowSymlinks: cfg.Corpus.FollowSymlinks,
	}
}

// Load scans cfg's project root and builds a model from it
func Load(ctx context.Context, cfg *config.Config) (*Model, error) {
	scanner := corpus.NewScanner(ScanOptions(cfg))
	sources, err := scanner.Load(ctx)
	if err != nil {
		return nil, err
	}

	p, err := NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return p.Build(ctx, sources)
}
