package annotate

import (
	"github.com/standardbeagle/semcouple/internal/semantic"
)

// New returns the lexical annotator, or a HuggingFace tokenizer-backed one when
// tokenizerPath names a tokenizer.json file.
func New(tokenizerPath string, stemmer *semantic.Stemmer) (Annotator, error) {
	if tokenizerPath == "" {
		return NewLexAnnotator(stemmer), nil
	}
	return newHF(tokenizerPath, stemmer)
}
