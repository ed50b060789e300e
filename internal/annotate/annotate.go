// Package annotate defines the tokenizer/lemmatizer collaborator that turns raw
// file text into sentences of (surface, lemma) tokens.
//
// Annotators are constructed explicitly and released with Close; there is no
// process-wide pipeline. Implementations must be safe for concurrent use, since
// ingestion annotates documents in parallel.
package annotate

import (
	"context"
	"errors"
)

// ErrClosed is returned by Annotate after Close
var ErrClosed = errors.New("annotator is closed")

// Token is one annotated token
type Token struct {
	Surface string // text as it appears in the source
	Lemma   string // normalized form; the only field that feeds term extraction
}

// Sentence is an ordered run of tokens
type Sentence struct {
	Tokens []Token
}

// Annotator tokenizes and lemmatizes text
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Sentence, error)
	Close() error
}

// Lemmas flattens sentences into their lemma sequence, preserving order
func Lemmas(sentences []Sentence) []string {
	n := 0
	for _, s := range sentences {
		n += len(s.Tokens)
	}
	out := make([]string, 0, n)
	for _, s := range sentences {
		for _, tok := range s.Tokens {
			out = append(out, tok.Lemma)
		}
	}
	return out
}
