// Package ranking scores documents against a target and orders the results.
package ranking

import (
	"fmt"
	"io"
	"sort"

	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/vector"
)

// Result is one ranked document
type Result struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// Similarities scores every document except the target against it, in corpus order.
// The target is excluded by name. Vectors must come from the same dictionary.
func Similarities(target *corpus.Document, docs []*corpus.Document) ([]Result, error) {
	results := make([]Result, 0, len(docs))
	for _, d := range docs {
		if d.Name == target.Name {
			continue
		}
		score, err := vector.Cosine(target.Vector, d.Vector)
		if err != nil {
			return nil, fmt.Errorf("similarity %s vs %s: %w", target.Name, d.Name, err)
		}
		results = append(results, Result{Name: d.Name, Score: score})
	}
	return results, nil
}

// Rank returns results ordered by score descending. Equal scores keep their
// input order. The input is not modified.
func Rank(results []Result) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopK returns the first k entries. k is clamped to [0, len(ranked)].
func TopK(ranked []Result, k int) []Result {
	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// FormatTopK writes a header followed by one "<name>\t<score>" line per entry,
// score to two decimals. The header counts the entries actually written, so a
// k beyond the ranking length reports the clamped count.
func FormatTopK(w io.Writer, ranked []Result, k int) error {
	top := TopK(ranked, k)
	if _, err := fmt.Fprintf(w, "The top %d file(s) ranked by semantic coupling:\n", len(top)); err != nil {
		return err
	}
	for _, r := range top {
		if _, err := fmt.Fprintf(w, "%s\t%.2f\n", r.Name, r.Score); err != nil {
			return err
		}
	}
	return nil
}
