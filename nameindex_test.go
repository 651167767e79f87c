package spimi

import "testing"

func TestNameStringOf(t *testing.T) {
	got := nameStringOf("Tolkien/TheHobbit.txt")
	want := "Tolkien TheHobbit"
	if got != want {
		t.Fatalf("nameStringOf = %q, want %q", got, want)
	}
}

func TestNamesIndexPath(t *testing.T) {
	got := namesIndexPath("/tmp/build/index.db")
	want := "/tmp/build/index.db.names"
	if got != want {
		t.Fatalf("namesIndexPath = %q, want %q", got, want)
	}
}

func TestBuildNameIndexIsQueryableByAuthor(t *testing.T) {
	dir := t.TempDir()
	docs := []Document{
		{Path: "Tolkien/TheHobbit.txt", WordCount: 5},
		{Path: "Orwell/1984.txt", WordCount: 5},
	}
	stemmer := NewStemmer()
	outPath, err := BuildNameIndex(docs, stemmer, BuildOptions{MemoryBudget: 1 << 20, TempDir: dir})
	if err != nil {
		t.Fatalf("BuildNameIndex: %v", err)
	}

	db, err := openStoreReadOnly(outPath)
	if err != nil {
		t.Fatalf("openStoreReadOnly: %v", err)
	}
	defer db.Close()

	tf, found, err := lookupTFIn(db, stemmer.Stem("Tolkien"))
	if err != nil {
		t.Fatalf("lookupTFIn: %v", err)
	}
	if !found {
		t.Fatalf("author term not found in name index")
	}
	if tf[0] != 1 {
		t.Fatalf("tf[0] = %d, want 1 (presence mode)", tf[0])
	}
	if _, present := tf[1]; present {
		t.Fatalf("doc 1 should not match Tolkien")
	}
}
