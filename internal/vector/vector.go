// Package vector computes TF-IDF vectors and cosine similarity between them.
package vector

import (
	"errors"
	"math"

	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/index"
)

// ErrDimensionMismatch is returned when two vectors were not built over the same dictionary
var ErrDimensionMismatch = errors.New("vector dimensions differ")

// Vector is a dense TF-IDF vector aligned to a dictionary's vocabulary
type Vector = []float64

// TFIDF computes v[i] = tf(term_i) * idf(term_i) over the dictionary vocabulary.
// The result always has length dict.Len(); terms absent from tf contribute 0.
func TFIDF(tf *corpus.TermFrequencies, dict *index.Dictionary) Vector {
	v := make(Vector, dict.Len())
	if tf == nil {
		return v
	}
	idfs := dict.IDFs()
	tf.Each(func(term string, count float64) {
		if i, ok := dict.Position(term); ok {
			v[i] = count * idfs[i]
		}
	})
	return v
}

// Dot returns the inner product of two equal-length vectors
func Dot(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Norm returns the Euclidean length of v
func Norm(v Vector) float64 {
	return math.Sqrt(sumSquares(v))
}

func sumSquares(v Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return sum
}

// Cosine returns dot(a,b) / (|a| * |b|), clamped to [-1, 1].
// A zero-norm operand yields 0, never NaN.
func Cosine(a, b Vector) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}
	// sqrt(|a|^2 * |b|^2) keeps Cosine(v, v) exactly 1
	sa, sb := sumSquares(a), sumSquares(b)
	if sa == 0 || sb == 0 {
		return 0, nil
	}
	return math.Max(-1, math.Min(1, dot/math.Sqrt(sa*sb))), nil
}
