package spimi

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCorpus(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

func TestDiscoverCorpusAssignsDocIDsBySortedPath(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, map[string]string{
		"B/z.txt": "red green blue",
		"A/x.txt": "red blue red",
		"A/y.txt": "blue green",
	})

	docs, err := DiscoverCorpus(root)
	if err != nil {
		t.Fatalf("DiscoverCorpus: %v", err)
	}
	wantPaths := []string{"A/x.txt", "A/y.txt", "B/z.txt"}
	if len(docs) != len(wantPaths) {
		t.Fatalf("docs = %v, want %d entries", docs, len(wantPaths))
	}
	for i, want := range wantPaths {
		if docs[i].Path != want {
			t.Fatalf("docs[%d].Path = %q, want %q", i, docs[i].Path, want)
		}
	}
	if docs[0].WordCount != 3 || docs[1].WordCount != 2 || docs[2].WordCount != 3 {
		t.Fatalf("word counts = %v, want [3 2 3]", docs)
	}
}

func TestDiscoverCorpusEmptyRoot(t *testing.T) {
	root := t.TempDir()
	docs, err := DiscoverCorpus(root)
	if err != nil {
		t.Fatalf("DiscoverCorpus: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("docs = %v, want empty", docs)
	}
}

func TestDocsListRoundTripPreservesLineIsDocID(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, map[string]string{
		"A/x.txt": "one",
		"A/y.txt": "two",
		"B/z.txt": "three",
	})
	docs, err := DiscoverCorpus(root)
	if err != nil {
		t.Fatalf("DiscoverCorpus: %v", err)
	}

	listPath := filepath.Join(root, "docs_list.txt")
	if err := WriteDocsList(listPath, docs); err != nil {
		t.Fatalf("WriteDocsList: %v", err)
	}
	paths, err := ReadDocsList(listPath)
	if err != nil {
		t.Fatalf("ReadDocsList: %v", err)
	}
	if len(paths) != len(docs) {
		t.Fatalf("paths = %v, want %d entries", paths, len(docs))
	}
	for i, d := range docs {
		if paths[i] != d.Path {
			t.Fatalf("docId %d: got %q, want %q", i, paths[i], d.Path)
		}
	}
}

func TestPrettyDoc(t *testing.T) {
	if got := prettyDoc("Tolkien/TheHobbit.txt"); got != "Tolkien - TheHobbit" {
		t.Fatalf("prettyDoc = %q, want %q", got, "Tolkien - TheHobbit")
	}
}

func TestDocsListPathFor(t *testing.T) {
	got := DocsListPathFor("/tmp/build/index.db")
	want := filepath.Join("/tmp/build", "docs_list.txt")
	if got != want {
		t.Fatalf("DocsListPathFor = %q, want %q", got, want)
	}
}
