//go:build !hftokenizers

package annotate

import (
	"fmt"

	"github.com/standardbeagle/semcouple/internal/semantic"
)

func newHF(tokenizerPath string, _ *semantic.Stemmer) (Annotator, error) {
	return nil, fmt.Errorf("tokenizer %s requested but semcouple was built without the hftokenizers tag", tokenizerPath)
}
