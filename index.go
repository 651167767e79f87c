package spimi

import (
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

// ═══════════════════════════════════════════════════════════════════════════════
// THE INVERTED INDEX HANDLE
// ═══════════════════════════════════════════════════════════════════════════════
// Index is the read-only handle queries run against: the merged bbolt store
// plus the document metadata (paths, word counts) the scorer needs. It is
// opened once by OpenIndex and closed once by Close; the index format is
// immutable for the handle's lifetime, so concurrent reads through separate
// handles are safe, but a concurrent writer (the merger) is not supported
// while any handle is open.
// ═══════════════════════════════════════════════════════════════════════════════

// Index is a read-only handle onto a built inverted index.
type Index struct {
	db         *bolt.DB
	namesDB    *bolt.DB // optional secondary name index, nil if absent
	stemmer    *Stemmer
	Root       string
	Paths      []string // docId -> relative path
	WordCounts []int    // docId -> word count
	N          int      // total document count
}

// OpenIndex opens an index previously produced by BuildIndex. indexPath is
// the main index's bbolt file; docsListPath is its docs_list.txt sidecar;
// root is the corpus root used to resolve relative paths for snippets.
func OpenIndex(indexPath, docsListPath, root string) (*Index, error) {
	paths, err := ReadDocsList(docsListPath)
	if err != nil {
		return nil, err
	}

	db, err := openStoreReadOnly(indexPath)
	if err != nil {
		return nil, err
	}

	wordCounts := make([]int, len(paths))
	for i, p := range paths {
		wc, err := wordCount(filepath.Join(root, p))
		if err != nil {
			db.Close()
			return nil, err
		}
		wordCounts[i] = wc
	}

	idx := &Index{
		db:         db,
		stemmer:    NewStemmer(),
		Root:       root,
		Paths:      paths,
		WordCounts: wordCounts,
		N:          len(paths),
	}

	if namesDB, err := openStoreReadOnly(namesIndexPath(indexPath)); err == nil {
		idx.namesDB = namesDB
	}

	return idx, nil
}

// Close releases the index's file handles.
func (idx *Index) Close() error {
	var firstErr error
	if idx.namesDB != nil {
		if err := idx.namesDB.Close(); err != nil {
			firstErr = err
		}
	}
	if err := idx.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// lookupTF retrieves a term's raw docId->tf posting from the main index.
// A missing term is not an error: found is false and tf is nil.
func (idx *Index) lookupTF(term string) (tf map[int]int, found bool, err error) {
	return lookupTFIn(idx.db, term)
}

// lookupNameTF retrieves a term's docId->1 posting from the secondary name
// index, if one was built alongside the main index.
func (idx *Index) lookupNameTF(term string) (tf map[int]int, found bool, err error) {
	if idx.namesDB == nil {
		return nil, false, nil
	}
	return lookupTFIn(idx.namesDB, term)
}

func lookupTFIn(db *bolt.DB, term string) (map[int]int, bool, error) {
	var data []byte
	err := db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postingsBucket)
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(term)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: looking up term %q: %v", ErrIndexNotBuilt, term, err)
	}
	if data == nil {
		return nil, false, nil
	}
	tf, err := decodePostings(data)
	if err != nil {
		return nil, false, err
	}
	return tf, true, nil
}
