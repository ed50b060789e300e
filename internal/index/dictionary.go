// Package index builds the corpus-wide dictionary: the sorted vocabulary,
// the inverted index (term -> documents containing it) and per-term IDF.
package index

import (
	"math"
	"sort"

	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/debug"
)

// Dictionary is the finalized corpus index. It is read-only after Build and
// safe for concurrent readers.
type Dictionary struct {
	vocabulary []string
	positions  map[string]int
	postings   [][]int   // aligned to vocabulary; document IDs ascending
	idf        []float64 // aligned to vocabulary
	numDocs    int
}

// Build indexes every document's TF keys. Terms are ordered lexicographically
// (byte order) and idf(t) = ln(N / df(t)). An empty corpus yields an empty dictionary.
func Build(docs []*corpus.Document) *Dictionary {
	byTerm := make(map[string][]int)
	for _, d := range docs {
		if d.TF == nil {
			continue
		}
		d.TF.Each(func(term string, _ float64) {
			byTerm[term] = append(byTerm[term], d.ID)
		})
	}

	vocabulary := make([]string, 0, len(byTerm))
	for term := range byTerm {
		vocabulary = append(vocabulary, term)
	}
	sort.Strings(vocabulary)

	n := float64(len(docs))
	dict := &Dictionary{
		vocabulary: vocabulary,
		positions:  make(map[string]int, len(vocabulary)),
		postings:   make([][]int, len(vocabulary)),
		idf:        make([]float64, len(vocabulary)),
		numDocs:    len(docs),
	}
	for i, term := range vocabulary {
		ids := byTerm[term]
		sort.Ints(ids)
		dict.positions[term] = i
		dict.postings[i] = ids
		dict.idf[i] = math.Log(n / float64(len(ids)))
	}

	debug.LogIndex("dictionary built: %d documents, %d terms\n", dict.numDocs, len(vocabulary))
	return dict
}

// Vocabulary returns the terms in position order. The slice must not be modified.
func (d *Dictionary) Vocabulary() []string {
	return d.vocabulary
}

// Len returns the vocabulary size, which is also the length of every TF-IDF vector
func (d *Dictionary) Len() int {
	return len(d.vocabulary)
}

// NumDocuments returns N, the corpus size the IDFs were computed over
func (d *Dictionary) NumDocuments() int {
	return d.numDocs
}

// Position returns the vector index of term
func (d *Dictionary) Position(term string) (int, bool) {
	i, ok := d.positions[term]
	return i, ok
}

// IDF returns the inverse document frequency of term, 0 for unknown terms
func (d *Dictionary) IDF(term string) float64 {
	if i, ok := d.positions[term]; ok {
		return d.idf[i]
	}
	return 0
}

// IDFs returns the IDF values aligned to Vocabulary. The slice must not be modified.
func (d *Dictionary) IDFs() []float64 {
	return d.idf
}

// DocumentFrequency returns the number of documents containing term
func (d *Dictionary) DocumentFrequency(term string) int {
	if i, ok := d.positions[term]; ok {
		return len(d.postings[i])
	}
	return 0
}

// Postings returns the IDs of documents containing term in ascending order
func (d *Dictionary) Postings(term string) []int {
	if i, ok := d.positions[term]; ok {
		out := make([]int, len(d.postings[i]))
		copy(out, d.postings[i])
		return out
	}
	return nil
}
