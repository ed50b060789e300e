package corpus

// TermFrequencies maps term -> raw occurrence count. Iteration follows first
// occurrence in the document, so dumps and tests are deterministic.
type TermFrequencies struct {
	order  []string
	counts map[string]float64
}

// BuildTermFrequencies counts raw occurrences of each term.
// ["for","i","i","i","printf","hello"] -> {for:1, i:3, printf:1, hello:1}
func BuildTermFrequencies(terms []string) *TermFrequencies {
	tf := &TermFrequencies{
		order:  make([]string, 0, len(terms)),
		counts: make(map[string]float64, len(terms)),
	}
	for _, term := range terms {
		if _, seen := tf.counts[term]; !seen {
			tf.order = append(tf.order, term)
		}
		tf.counts[term]++
	}
	return tf
}

// Count returns the occurrence count of term (0 when absent)
func (tf *TermFrequencies) Count(term string) float64 {
	return tf.counts[term]
}

// Has reports whether term occurs in the document
func (tf *TermFrequencies) Has(term string) bool {
	_, ok := tf.counts[term]
	return ok
}

// Len returns the number of distinct terms
func (tf *TermFrequencies) Len() int {
	return len(tf.order)
}

// Terms returns the distinct terms in first-occurrence order
func (tf *TermFrequencies) Terms() []string {
	out := make([]string, len(tf.order))
	copy(out, tf.order)
	return out
}

// Each calls fn for every term in first-occurrence order
func (tf *TermFrequencies) Each(fn func(term string, count float64)) {
	for _, term := range tf.order {
		fn(term, tf.counts[term])
	}
}

// Map returns a copy of the counts
func (tf *TermFrequencies) Map() map[string]float64 {
	out := make(map[string]float64, len(tf.counts))
	for k, v := range tf.counts {
		out[k] = v
	}
	return out
}
