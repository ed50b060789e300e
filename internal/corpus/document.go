package corpus

import (
	"fmt"
	"sort"
)

// Source is one raw input file
type Source struct {
	Name    string // identity; slash-separated path relative to the corpus root
	Content string
}

// Document is one file of the corpus after term extraction.
// Vector stays nil until the corpus dictionary is built; see coupling.Build.
type Document struct {
	ID      int    // position in ingestion order
	Name    string // identity
	Content string
	Hash    uint64 // xxhash64 of Content
	Terms   []string
	TF      *TermFrequencies
	Vector  []float64 // TF-IDF, aligned to the dictionary vocabulary
}

// Corpus is an ordered, name-addressable set of documents
type Corpus struct {
	docs   []*Document
	byName map[string]*Document
}

// NewCorpus builds a corpus from documents in order. Document IDs are
// reassigned to their positions. Names must be unique.
func NewCorpus(docs []*Document) (*Corpus, error) {
	c := &Corpus{
		docs:   make([]*Document, 0, len(docs)),
		byName: make(map[string]*Document, len(docs)),
	}
	for _, d := range docs {
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate document name %q", d.Name)
		}
		d.ID = len(c.docs)
		c.docs = append(c.docs, d)
		c.byName[d.Name] = d
	}
	return c, nil
}

// Documents returns the documents in corpus order. The slice must not be modified.
func (c *Corpus) Documents() []*Document {
	return c.docs
}

// Len returns the number of documents
func (c *Corpus) Len() int {
	return len(c.docs)
}

// Find returns the document with the given name
func (c *Corpus) Find(name string) (*Document, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// Names returns document names in corpus order
func (c *Corpus) Names() []string {
	names := make([]string, len(c.docs))
	for i, d := range c.docs {
		names[i] = d.Name
	}
	return names
}

// Duplicates groups documents with identical content hashes, keyed by the
// first document's name. Only groups of two or more are returned.
func (c *Corpus) Duplicates() map[string][]string {
	byHash := make(map[uint64][]string)
	for _, d := range c.docs {
		byHash[d.Hash] = append(byHash[d.Hash], d.Name)
	}
	out := make(map[string][]string)
	for _, names := range byHash {
		if len(names) > 1 {
			sort.Strings(names)
			out[names[0]] = names
		}
	}
	return out
}
