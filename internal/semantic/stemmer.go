package semantic

import (
	"fmt"
	"strings"

	"github.com/surgebase/porter2"
)

// Stemmer reduces words to their root forms (authenticate, authentication, authenticating)
type Stemmer struct {
	enabled    bool
	algorithm  string
	minLength  int
	exclusions map[string]bool // Words to never stem
}

// NewStemmer creates a new stemmer with configuration
func NewStemmer(enabled bool, algorithm string, minLength int, exclusions []string) *Stemmer {
	if algorithm == "" {
		algorithm = "porter2"
	}

	if minLength < 0 {
		minLength = 3
	}

	s := &Stemmer{
		enabled:    enabled,
		algorithm:  algorithm,
		minLength:  minLength,
		exclusions: make(map[string]bool, len(exclusions)),
	}
	for _, w := range exclusions {
		s.AddExclusion(w)
	}
	return s
}

// IsEnabled checks if stemming is enabled. A nil stemmer is disabled.
func (s *Stemmer) IsEnabled() bool {
	return s != nil && s.enabled
}

// Stem returns the stem of a word, or the original word if stemming is disabled/excluded
func (s *Stemmer) Stem(word string) string {
	if !s.IsEnabled() || s.IsExcluded(word) {
		return word
	}

	if len(word) < s.minLength {
		return word
	}

	switch s.algorithm {
	case "none":
		return word
	default:
		return porter2.Stem(word)
	}
}

// AddExclusion adds a word to the exclusion list
func (s *Stemmer) AddExclusion(word string) {
	s.exclusions[strings.ToLower(word)] = true
}

// IsExcluded checks if a word is in the exclusion list
func (s *Stemmer) IsExcluded(word string) bool {
	return s.exclusions[strings.ToLower(word)]
}

// ValidateConfig validates the stemmer configuration
func (s *Stemmer) ValidateConfig() error {
	if s.minLength < 0 {
		return fmt.Errorf("invalid min length: %d (must be >= 0)", s.minLength)
	}

	switch s.algorithm {
	case "porter2", "none":
		return nil
	default:
		return fmt.Errorf("invalid algorithm: %s (must be porter2 or none)", s.algorithm)
	}
}
