package spimi

import "testing"

func pl(pairs ...int) PostingList {
	out := make(PostingList, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Posting{DocID: pairs[i], Score: float64(pairs[i+1])})
	}
	return out
}

func assertDocIDs(t *testing.T, got PostingList, want ...int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("docIDs = %v, want %v", got.DocIDs(), want)
	}
	for i, p := range got {
		if p.DocID != want[i] {
			t.Fatalf("docIDs = %v, want %v", got.DocIDs(), want)
		}
	}
}

func TestAndIntersectsAndSums(t *testing.T) {
	a := pl(1, 1, 2, 2, 4, 4)
	b := pl(2, 10, 3, 10, 4, 10)
	got := And(a, b)
	assertDocIDs(t, got, 2, 4)
	if got[0].Score != 12 || got[1].Score != 14 {
		t.Fatalf("scores = %v, want [12 14]", got)
	}
}

func TestAndEmpty(t *testing.T) {
	if got := And(pl(1, 1), pl(2, 1)); len(got) != 0 {
		t.Fatalf("And of disjoint lists = %v, want empty", got)
	}
}

func TestOrUnionsAndSumsAtOverlap(t *testing.T) {
	a := pl(1, 1, 2, 2)
	b := pl(2, 10, 3, 10)
	got := Or(a, b)
	assertDocIDs(t, got, 1, 2, 3)
	if got[1].Score != 12 {
		t.Fatalf("shared docId score = %v, want 12", got[1].Score)
	}
}

func TestOrIsTotalWithNot(t *testing.T) {
	a := pl(1, 1, 3, 1)
	n := 5
	got := Or(a, Not(a, n))
	if len(got) != n {
		t.Fatalf("Or(a, Not(a,n)) has %d entries, want %d", len(got), n)
	}
	for i, p := range got {
		if p.DocID != i {
			t.Fatalf("Or(a, Not(a,n)) docIds = %v, want [0..%d)", got.DocIDs(), n)
		}
	}
}

func TestAndWithNotIsEmpty(t *testing.T) {
	a := pl(1, 1, 3, 1)
	n := 5
	if got := And(a, Not(a, n)); len(got) != 0 {
		t.Fatalf("And(a, Not(a,n)) = %v, want empty", got)
	}
}

func TestNotComplementsWithZeroScores(t *testing.T) {
	a := pl(1, 5, 3, 5)
	got := Not(a, 5)
	assertDocIDs(t, got, 0, 2, 4)
	for _, p := range got {
		if p.Score != 0 {
			t.Fatalf("Not score = %v, want 0", p.Score)
		}
	}
}

func TestNotEmptyN(t *testing.T) {
	if got := Not(pl(), 0); len(got) != 0 {
		t.Fatalf("Not(empty, 0) = %v, want empty", got)
	}
}

func TestNotAndMatchesAndNot(t *testing.T) {
	x := pl(2, 1, 5, 1)
	y := pl(0, 1, 1, 1, 2, 1, 3, 1, 4, 1, 5, 1, 6, 1)
	got := NotAnd(x, y)
	assertDocIDs(t, got, 0, 1, 3, 4, 6)
}

func TestNotAndIncludesDocZero(t *testing.T) {
	x := pl(1, 1)
	y := pl(0, 1, 1, 1, 2, 1)
	got := NotAnd(x, y)
	assertDocIDs(t, got, 0, 2)
}

func TestNotAndEquivalentToAndNot(t *testing.T) {
	x := pl(1, 1, 4, 1)
	n := 6
	y := Not(pl(), n) // every docId in [0,n)
	want := And(Not(x, n), y)
	got := NotAnd(x, y)
	if len(got) != len(want) {
		t.Fatalf("NotAnd = %v, want %v", got.DocIDs(), want.DocIDs())
	}
	for i := range want {
		if got[i].DocID != want[i].DocID {
			t.Fatalf("NotAnd = %v, want %v", got.DocIDs(), want.DocIDs())
		}
	}
}

func TestAndSelfIsIdentityOnDocIDsWithDoubledScores(t *testing.T) {
	a := pl(0, 1, 2, 3, 5, 7)
	got := And(a, a)
	assertDocIDs(t, got, 0, 2, 5)
	for i, p := range got {
		if p.Score != 2*a[i].Score {
			t.Fatalf("And(a,a) score[%d] = %v, want %v", i, p.Score, 2*a[i].Score)
		}
	}
}

func TestOrSelfDoublesScores(t *testing.T) {
	a := pl(1, 2, 4, 6)
	got := Or(a, a)
	assertDocIDs(t, got, 1, 4)
	for i, p := range got {
		if p.Score != 2*a[i].Score {
			t.Fatalf("Or(a,a) score[%d] = %v, want %v", i, p.Score, 2*a[i].Score)
		}
	}
}

func TestDoubleNotRestoresDocIDsWithZeroScores(t *testing.T) {
	a := pl(1, 9, 3, 9)
	got := Not(Not(a, 5), 5)
	assertDocIDs(t, got, 1, 3)
	for _, p := range got {
		if p.Score != 0 {
			t.Fatalf("Not(Not(a)) score = %v, want 0", p.Score)
		}
	}
}

func TestNotOrIsOrOfNotAndY(t *testing.T) {
	x := pl(1, 1)
	y := pl(1, 1, 2, 1)
	n := 4
	got := NotOr(x, y, n)
	assertDocIDs(t, got, 0, 1, 2, 3)
}
