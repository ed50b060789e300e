package annotate

import (
	"context"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/standardbeagle/semcouple/internal/semantic"
)

// LexAnnotator is the default annotator: a rune-level lexer for source text
// plus a porter2 lemmatizer.
//
// Word tokens are maximal runs of letters, digits and underscores; every other
// non-space rune is a single punctuation token. A sentence ends after ';', '{'
// or '}'. Only all-lowercase words are lemmatized, so compound identifiers
// ("getUserName", "top1Results") reach the splitter with their boundaries intact.
type LexAnnotator struct {
	stemmer *semantic.Stemmer
	closed  atomic.Bool
}

// NewLexAnnotator creates a lexical annotator. A nil stemmer disables lemmatization.
func NewLexAnnotator(stemmer *semantic.Stemmer) *LexAnnotator {
	return &LexAnnotator{stemmer: stemmer}
}

// Annotate implements Annotator
func (a *LexAnnotator) Annotate(ctx context.Context, text string) ([]Sentence, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sentences []Sentence
	current := make([]Token, 0, 16)

	flush := func() {
		if len(current) > 0 {
			sentences = append(sentences, Sentence{Tokens: current})
			current = make([]Token, 0, 16)
		}
	}

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		if unicode.IsSpace(r) {
			i += size
			continue
		}

		if isWordRune(r) {
			start := i
			i += size
			for i < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[i:])
				if !isWordRune(nr) {
					break
				}
				i += ns
			}
			word := text[start:i]
			current = append(current, Token{Surface: word, Lemma: a.lemma(word)})
			continue
		}

		punct := text[i : i+size]
		i += size
		current = append(current, Token{Surface: punct, Lemma: punct})
		if r == ';' || r == '{' || r == '}' {
			flush()
		}
	}
	flush()

	return sentences, nil
}

// Close implements Annotator. Subsequent Annotate calls fail with ErrClosed.
func (a *LexAnnotator) Close() error {
	a.closed.Store(true)
	return nil
}

func (a *LexAnnotator) lemma(word string) string {
	if !a.stemmer.IsEnabled() || !isLowerWord(word) {
		return word
	}
	return a.stemmer.Stem(word)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isLowerWord(word string) bool {
	for _, r := range word {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}
