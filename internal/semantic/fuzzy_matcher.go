package semantic

import (
	"path"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// FuzzyMatcher scores string similarity with Jaro-Winkler or Levenshtein.
// Used to suggest corpus file names when a query names a missing document.
type FuzzyMatcher struct {
	threshold float64
	algorithm string // "jaro-winkler", "levenshtein"
}

// FuzzyMatch is one candidate with its similarity
type FuzzyMatch struct {
	Text       string
	Similarity float64
	whole      float64 // full-name similarity, breaks ties between equal stems
}

// NewFuzzyMatcher creates a new fuzzy matcher
func NewFuzzyMatcher(threshold float64, algorithm string) *FuzzyMatcher {
	if threshold < 0 || threshold > 1 {
		threshold = 0.80
	}
	if algorithm == "" {
		algorithm = "jaro-winkler"
	}
	return &FuzzyMatcher{threshold: threshold, algorithm: algorithm}
}

// Similarity returns the similarity score between two strings (0.0-1.0)
func (fm *FuzzyMatcher) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	algo := edlib.JaroWinkler
	if fm.algorithm == "levenshtein" {
		algo = edlib.Levenshtein
	}

	// StringsSimilarity already normalizes to 0-1 for both algorithms
	score, err := edlib.StringsSimilarity(a, b, algo)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// FindMatches returns candidates scoring at or above the threshold, best first.
// Names are scored without their extensions, both whole and by base name, so
// "Main.java" finds "src/app/Main.java" and a shared ".java" never matches alone.
// Equal scores are ordered by full-name similarity.
func (fm *FuzzyMatcher) FindMatches(target string, candidates []string) []FuzzyMatch {
	var matches []FuzzyMatch
	for _, c := range candidates {
		score := max(
			fm.Similarity(stripExt(target), stripExt(c)),
			fm.Similarity(stripExt(path.Base(target)), stripExt(path.Base(c))),
		)
		if score >= fm.threshold {
			matches = append(matches, FuzzyMatch{Text: c, Similarity: score, whole: fm.Similarity(target, c)})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].whole > matches[j].whole
	})
	return matches
}

// stripExt drops the extension unless nothing would remain (".gitignore")
func stripExt(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	if stem == "" || strings.HasSuffix(stem, "/") {
		return name
	}
	return stem
}

// Suggest returns up to limit candidate strings closest to target
func (fm *FuzzyMatcher) Suggest(target string, candidates []string, limit int) []string {
	matches := fm.FindMatches(target, candidates)
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Text
	}
	return out
}
