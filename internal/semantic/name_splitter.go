package semantic

import (
	"unicode"
)

// NameSplitter splits compound identifiers into their sub-words.
// Boundaries, scanning left to right:
//   - lowercase to uppercase ("camelCase" -> "camel", "Case")
//   - letter to digit and digit to letter ("top1Results" -> "top", "1", "Results")
//   - an uppercase run followed by a lowercase letter splits before the run's last
//     letter ("MAXNumber" -> "MAX", "Number"); a trailing uppercase run stays joined
//
// Case is preserved; folding is the identifier filter's job.
//
// Thread-safe: results are memoized in a bounded LRUCache.
type NameSplitter struct {
	cache *LRUCache[[]string]
}

// Default cache size limits
const (
	DefaultCacheSize = 1000 // Maximum number of cached split results
)

// NewNameSplitter creates a new name splitter with the default cache size
func NewNameSplitter() *NameSplitter {
	return NewNameSplitterWithSize(DefaultCacheSize)
}

// NewNameSplitterWithSize creates a new name splitter with custom cache size
func NewNameSplitterWithSize(cacheSize int) *NameSplitter {
	return &NameSplitter{
		cache: NewLRUCache[[]string](cacheSize),
	}
}

// Split splits a token into its ordered, non-empty sub-tokens.
// The returned slice must not be modified; it may be shared with the cache.
func (ns *NameSplitter) Split(token string) []string {
	if token == "" {
		return []string{}
	}

	if cached, ok := ns.cache.Get(token); ok {
		return cached
	}

	words := splitIdentifier(token)
	ns.cache.Set(token, words)
	return words
}

// SplitAll splits every token and concatenates the sub-tokens in order
func (ns *NameSplitter) SplitAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, ns.Split(tok)...)
	}
	return out
}

// splitIdentifier does the actual boundary scan
func splitIdentifier(token string) []string {
	runes := []rune(token)
	words := make([]string, 0, 4)
	start := 0

	for i := 1; i < len(runes); i++ {
		if isBoundary(runes, i) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))

	return words
}

// isBoundary reports whether a new sub-token starts at runes[i]
func isBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]

	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur):
		// End of an acronym: HTTPServer -> HTTP Server
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}
