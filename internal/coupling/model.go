package coupling

import (
	"sort"

	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/debug"
	"github.com/standardbeagle/semcouple/internal/dump"
	scerrors "github.com/standardbeagle/semcouple/internal/errors"
	"github.com/standardbeagle/semcouple/internal/index"
	"github.com/standardbeagle/semcouple/internal/ranking"
	"github.com/standardbeagle/semcouple/internal/semantic"
)

const maxSuggestions = 3

// Model is an immutable, fully vectorized corpus. Safe for concurrent queries.
type Model struct {
	corpus  *corpus.Corpus
	dict    *index.Dictionary
	matcher *semantic.FuzzyMatcher
}

// TermWeight explains a document's vector: a term with its raw count and TF-IDF weight
type TermWeight struct {
	Term   string  `json:"term" yaml:"term"`
	Count  float64 `json:"count" yaml:"count"`
	Weight float64 `json:"weight" yaml:"weight"`
}

func newModel(c *corpus.Corpus, dict *index.Dictionary) *Model {
	return &Model{
		corpus:  c,
		dict:    dict,
		matcher: semantic.NewFuzzyMatcher(0.75, "jaro-winkler"),
	}
}

// Corpus returns the ingested documents
func (m *Model) Corpus() *corpus.Corpus {
	return m.corpus
}

// Dictionary returns the finalized index
func (m *Model) Dictionary() *index.Dictionary {
	return m.dict
}

// Document finds a document by name. A missing name yields a TargetNotFoundError
// carrying the closest corpus names.
func (m *Model) Document(name string) (*corpus.Document, error) {
	if d, ok := m.corpus.Find(name); ok {
		return d, nil
	}
	suggestions := m.matcher.Suggest(name, m.corpus.Names(), maxSuggestions)
	return nil, scerrors.NewTargetNotFoundError(name, suggestions)
}

// Rank scores every other document against target, best first
func (m *Model) Rank(target string) ([]ranking.Result, error) {
	doc, err := m.Document(target)
	if err != nil {
		return nil, err
	}
	results, err := ranking.Similarities(doc, m.corpus.Documents())
	if err != nil {
		return nil, err
	}
	return ranking.Rank(results), nil
}

// RankSimilar returns the k documents most similar to target. k is clamped
// to the number of other documents; a negative k yields an empty list.
func (m *Model) RankSimilar(target string, k int) ([]ranking.Result, error) {
	ranked, err := m.Rank(target)
	if err != nil {
		return nil, err
	}
	top := ranking.TopK(ranked, k)
	debug.LogQuery("rank %s: %d of %d results\n", target, len(top), len(ranked))
	return top, nil
}

// TopTerms returns target's n highest-weighted terms. Ties are broken by term.
// n <= 0 returns every term.
func (m *Model) TopTerms(target string, n int) ([]TermWeight, error) {
	doc, err := m.Document(target)
	if err != nil {
		return nil, err
	}

	terms := make([]TermWeight, 0, doc.TF.Len())
	doc.TF.Each(func(term string, count float64) {
		tw := TermWeight{Term: term, Count: count}
		if i, ok := m.dict.Position(term); ok && i < len(doc.Vector) {
			tw.Weight = doc.Vector[i]
		}
		terms = append(terms, tw)
	})

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})

	if n > 0 && n < len(terms) {
		terms = terms[:n]
	}
	return terms, nil
}

// Dump writes the dictionary dumps and target's TF and TF-IDF dumps into dir
func (m *Model) Dump(dir, target string) error {
	doc, err := m.Document(target)
	if err != nil {
		return err
	}
	return dump.WriteAll(dir, m.dict, m.corpus.Names(), doc)
}
