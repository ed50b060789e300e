//go:build hftokenizers

// HFAnnotator needs the native libtokenizers library at link time:
//   go build -tags hftokenizers -ldflags "-L/path/to/libtokenizers" ./cmd/semcouple

package annotate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/daulet/tokenizers"

	"github.com/standardbeagle/semcouple/internal/semantic"
)

// HFAnnotator tokenizes with a HuggingFace tokenizer.json (e.g. a code model's BPE
// vocabulary) and lemmatizes with the same porter2 rules as LexAnnotator.
type HFAnnotator struct {
	mu      sync.Mutex
	tk      *tokenizers.Tokenizer
	stemmer *semantic.Stemmer
}

// NewHFAnnotator loads a tokenizer from a tokenizer.json file
func NewHFAnnotator(tokenizerPath string, stemmer *semantic.Stemmer) (*HFAnnotator, error) {
	tk, err := tokenizers.FromFile(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return &HFAnnotator{tk: tk, stemmer: stemmer}, nil
}

// Annotate implements Annotator
func (a *HFAnnotator) Annotate(ctx context.Context, text string) ([]Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.tk == nil {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	_, pieces := a.tk.Encode(text, false)
	a.mu.Unlock()

	var sentences []Sentence
	var current []Token
	for _, piece := range pieces {
		surface := cleanPiece(piece)
		if surface == "" {
			continue
		}
		lemma := surface
		if a.stemmer != nil && isLowerWord(surface) {
			lemma = a.stemmer.Stem(surface)
		}
		current = append(current, Token{Surface: surface, Lemma: lemma})
		if surface == ";" || surface == "{" || surface == "}" {
			sentences = append(sentences, Sentence{Tokens: current})
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, Sentence{Tokens: current})
	}
	return sentences, nil
}

// Close releases the native tokenizer
func (a *HFAnnotator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tk != nil {
		err := a.tk.Close()
		a.tk = nil
		return err
	}
	return nil
}

// cleanPiece strips BPE and WordPiece continuation markers
func cleanPiece(piece string) string {
	piece = strings.TrimPrefix(piece, "##")
	piece = strings.TrimPrefix(piece, "Ġ")
	piece = strings.TrimPrefix(piece, "▁")
	return strings.TrimSpace(piece)
}

func newHF(tokenizerPath string, stemmer *semantic.Stemmer) (Annotator, error) {
	return NewHFAnnotator(tokenizerPath, stemmer)
}
