package spimi

import "sort"

// Posting is a single (docId, score) pair. In on-disk index records score
// is an integer term frequency; after scoring it is a tf-idf float.
type Posting struct {
	DocID int
	Score float64
}

// PostingList is a sequence of Postings, a hard invariant of every layer:
// strictly increasing in DocID.
type PostingList []Posting

// DocIDs returns the list's DocIDs, in order.
func (pl PostingList) DocIDs() []int {
	ids := make([]int, len(pl))
	for i, p := range pl {
		ids[i] = p.DocID
	}
	return ids
}

// SortedByScoreDescending returns a copy of pl sorted by score descending.
// Ties keep pl's original (ascending docId) relative order, which is what
// makes a pure-NOT clause (all scores zero) come back in docId order.
func (pl PostingList) SortedByScoreDescending() PostingList {
	out := make(PostingList, len(pl))
	copy(out, pl)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// fromTF converts a docId->tf mapping (the on-disk posting shape) into an
// ascending PostingList of raw term frequencies, as floats.
func fromTF(tf map[int]int) PostingList {
	pl := make(PostingList, 0, len(tf))
	for doc, freq := range tf {
		pl = append(pl, Posting{DocID: doc, Score: float64(freq)})
	}
	sort.Slice(pl, func(i, j int) bool { return pl[i].DocID < pl[j].DocID })
	return pl
}
