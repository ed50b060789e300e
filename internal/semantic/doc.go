// Package semantic turns lemma tokens into index terms.
//
// # Core Components
//
// NameSplitter: splits compound identifiers at camelCase, acronym and
// letter/digit boundaries ("MAXNumber" -> "MAX", "Number"), preserving case.
//
// FilterIdentifiers: keeps only syntactically valid identifiers, with optional
// retention of numeric sub-tokens and case folding.
//
// Stemmer: reduces words to their root forms using the Porter2 algorithm. The
// lexical annotator uses it as its lemmatizer.
//
// FuzzyMatcher: Jaro-Winkler / Levenshtein similarity, used to suggest file
// names when a query target is missing from the corpus.
//
// # Usage Example
//
//	splitter := semantic.NewNameSplitter()
//	subs := splitter.SplitAll([]string{"getUserName", "top1Results", ";"})
//	terms := semantic.FilterIdentifiers(subs, semantic.FilterOptions{})
//	// terms == ["get", "User", "Name", "top", "Results"]
package semantic
