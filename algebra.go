package spimi

// ═══════════════════════════════════════════════════════════════════════════════
// POSTING-LIST ALGEBRA
// ═══════════════════════════════════════════════════════════════════════════════
// Sorted-merge set operations over (docId, score) streams. All operations
// take inputs sorted strictly ascending by docId and produce the same.
// Scores are non-negative floats; ties break by docId, which sorted order
// already guarantees.
// ═══════════════════════════════════════════════════════════════════════════════

// And computes the two-pointer intersection of a and b. The output score at
// a shared docId is the sum of the input scores.
func And(a, b PostingList) PostingList {
	result := make(PostingList, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID < b[j].DocID:
			i++
		case a[i].DocID > b[j].DocID:
			j++
		default:
			result = append(result, Posting{DocID: a[i].DocID, Score: a[i].Score + b[j].Score})
			i++
			j++
		}
	}
	return result
}

// Or computes the two-pointer union of a and b. At a shared docId the output
// score is the sum; at a docId present in only one input, that input's score
// carries through unchanged. Once one input is exhausted, the remaining tail
// of the other is appended.
//
// Shared docIds sum, not max. A consequence worth knowing: "a OR a" doubles
// every score.
func Or(a, b PostingList) PostingList {
	result := make(PostingList, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID < b[j].DocID:
			result = append(result, a[i])
			i++
		case a[i].DocID > b[j].DocID:
			result = append(result, b[j])
			j++
		default:
			result = append(result, Posting{DocID: a[i].DocID, Score: a[i].Score + b[j].Score})
			i++
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}

// Not computes the dense complement of a over [0, n): a zero-score posting
// for every docId in [0, n) not present in a. Linear in n (via the
// roaring-bitmap-backed complementDocIDs).
func Not(a PostingList, n int) PostingList {
	ids := complementDocIDs(a, n)
	result := make(PostingList, len(ids))
	for i, d := range ids {
		result[i] = Posting{DocID: d, Score: 0.0}
	}
	return result
}

// NotAnd is equivalent to And(Not(x, n), y) but computed in a single linear
// pass over y, advancing through x's docIds instead of materializing Not(x).
// It emits y's posting iff its docId is not present in x. Scores come from y
// only.
func NotAnd(x, y PostingList) PostingList {
	result := make(PostingList, 0, len(y))
	lastExcluded := -1
	i, j := 0, 0
	for i < len(y) && j < len(x) {
		switch {
		case y[i].DocID < x[j].DocID:
			if lastExcluded < y[i].DocID {
				result = append(result, y[i])
			}
			i++
		default:
			lastExcluded = x[j].DocID
			j++
		}
	}
	for ; i < len(y); i++ {
		if lastExcluded < y[i].DocID {
			result = append(result, y[i])
		}
	}
	return result
}

// NotOr is Or(Not(x, n), y).
func NotOr(x, y PostingList, n int) PostingList {
	return Or(Not(x, n), y)
}
