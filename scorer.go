package spimi

import (
	"fmt"
	"math"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TF-IDF SCORING
// ═══════════════════════════════════════════════════════════════════════════════
// Score turns a term's raw docId->tf posting into a ranked PostingList:
//
//	tfidf(d) = tf[d] / wordCount(d) * log2(N / df)
//
// where df = len(tf) (the number of documents the term appears in) and N is
// the total document count. Division by a zero word count is undefined, so
// an empty document fails the score rather than silently substituting 1.
// ═══════════════════════════════════════════════════════════════════════════════

// Score converts a docId->tf mapping into an ascending-by-docId PostingList
// of tf-idf scores. wordCounts is indexed by docId; n is the total document
// count used for idf.
func Score(tf map[int]int, wordCounts []int, n int) (PostingList, error) {
	if len(tf) == 0 {
		return PostingList{}, nil
	}

	df := len(tf)
	idf := math.Log2(float64(n) / float64(df))

	docs := make([]int, 0, len(tf))
	for d := range tf {
		docs = append(docs, d)
	}
	sort.Ints(docs)

	result := make(PostingList, 0, len(docs))
	for _, d := range docs {
		if d < 0 || d >= len(wordCounts) {
			return nil, fmt.Errorf("%w: docId %d out of range [0,%d)", ErrCorpusIO, d, len(wordCounts))
		}
		wc := wordCounts[d]
		if wc == 0 {
			return nil, fmt.Errorf("%w: docId %d", ErrEmptyDocument, d)
		}
		tfidf := float64(tf[d]) / float64(wc) * idf
		result = append(result, Posting{DocID: d, Score: tfidf})
	}
	return result, nil
}
