package spimi

import "github.com/RoaringBitmap/roaring"

// ═══════════════════════════════════════════════════════════════════════════════
// ROARING-BACKED COMPLEMENT
// ═══════════════════════════════════════════════════════════════════════════════
// NOT's contract is a dense complement over [0, N): emit (d, 0.0)
// for every d not present in a. A naive implementation walks all N integers
// comparing against a; roaring.Flip does the same thing over a compressed
// representation.
// ═══════════════════════════════════════════════════════════════════════════════

// bitmapOf builds a roaring bitmap of pl's docIds.
func bitmapOf(pl PostingList) *roaring.Bitmap {
	bm := roaring.NewBitmap()
	for _, p := range pl {
		bm.Add(uint32(p.DocID))
	}
	return bm
}

// complementDocIDs returns, in ascending order, every docId in [0, n) not
// present in pl.
func complementDocIDs(pl PostingList, n int) []int {
	if n <= 0 {
		return nil
	}
	complement := roaring.Flip(bitmapOf(pl), 0, uint64(n))
	ids := make([]int, 0, complement.GetCardinality())
	it := complement.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids
}
