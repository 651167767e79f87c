package spimi

import (
	snowballeng "github.com/kljensen/snowball/english"
)

// ═══════════════════════════════════════════════════════════════════════════════
// STEMMING
// ═══════════════════════════════════════════════════════════════════════════════
// A term is what the Porter stemming family produces from a lowercased token:
// "running" -> "run", "lazily" -> "lazili". Equality of terms is byte-exact,
// so every caller that puts a token into the index or a query must route it
// through the same Stem function, or index and query vocabularies drift apart.
// ═══════════════════════════════════════════════════════════════════════════════

// Stemmer reduces tokens to stemmed terms. It has no state; a zero-value
// Stemmer is ready to use. It is a concrete type with one fixed stemming
// strategy (snowball English); callers take a *Stemmer, not an interface.
type Stemmer struct{}

// NewStemmer returns a ready-to-use Stemmer.
func NewStemmer() *Stemmer {
	return &Stemmer{}
}

// Stem lowercases and stems a single token. The snowball English stemmer
// lowercases internally, so callers never need a separate lowercasing pass.
func (s *Stemmer) Stem(token string) string {
	return snowballeng.Stem(token, false)
}
