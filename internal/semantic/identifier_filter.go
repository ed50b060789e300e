package semantic

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FilterOptions controls which sub-tokens survive as terms
type FilterOptions struct {
	// KeepNumeric retains all-digit sub-tokens ("1" from "top1Results") that
	// would otherwise fail the identifier check.
	KeepNumeric bool

	// CaseFold lowercases kept tokens so "Camel" and "camel" become one term.
	CaseFold bool
}

// IsIdentifier reports whether s is a syntactically valid identifier:
// non-empty, letters/digits/underscore only, not starting with a digit.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if unicode.IsDigit(first) {
		return false
	}
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FilterIdentifiers drops punctuation and other non-identifier tokens, preserving order.
// It never modifies its input.
func FilterIdentifiers(tokens []string, opts FilterOptions) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !IsIdentifier(tok) && !(opts.KeepNumeric && isNumeric(tok)) {
			continue
		}
		if opts.CaseFold {
			tok = strings.ToLower(tok)
		}
		out = append(out, tok)
	}
	return out
}
