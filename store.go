package spimi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	bolt "go.etcd.io/bbolt"
)

// ═══════════════════════════════════════════════════════════════════════════════
// PERSISTENT KEY-VALUE STORE
// ═══════════════════════════════════════════════════════════════════════════════
// Both SPIMI blocks and the final merged index are bbolt databases with a
// single bucket, "postings". bbolt's B+tree stores keys (terms) in sorted
// byte order and a Cursor walks them in that order for free, so the merger
// gets its sorted term streams from the storage engine rather than from an
// application-level sort.
// ═══════════════════════════════════════════════════════════════════════════════

var postingsBucket = []byte("postings")

// createStore opens (creating or truncating) a bbolt database at path for
// writing, with the postings bucket ready to use.
func createStore(path string) (*bolt.DB, error) {
	// bbolt has no truncate mode, so an existing file at path (e.g. a prior
	// build at the same location) is removed first.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: truncating store %s: %v", ErrCorpusIO, path, err)
	}
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating store %s: %v", ErrCorpusIO, path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket(postingsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initializing store %s: %v", ErrCorpusIO, path, err)
	}
	return db, nil
}

// openStoreReadOnly opens an existing bbolt database read-only. It fails if
// the file is absent; a missing index is never created lazily.
func openStoreReadOnly(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0444, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: opening store %s: %v", ErrIndexNotBuilt, path, err)
	}
	return db, nil
}

// writeAllTerms writes every (term, postings) pair of dict into db's
// postings bucket in a single write transaction.
func writeAllTerms(db *bolt.DB, dict map[string]map[int]int) error {
	return db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postingsBucket)
		for term, postings := range dict {
			if err := bucket.Put([]byte(term), encodePostings(postings)); err != nil {
				return err
			}
		}
		return nil
	})
}

// encodePostings serializes a docId->value mapping into a compact
// length-prefixed binary form: [count uint32]([docId uint32][value
// uint32])*, little-endian, sorted ascending by docId.
func encodePostings(m map[int]int) []byte {
	docs := make([]int, 0, len(m))
	for d := range m {
		docs = append(docs, d)
	}
	sort.Ints(docs)

	buf := new(bytes.Buffer)
	buf.Grow(4 + 8*len(docs))
	binary.Write(buf, binary.LittleEndian, uint32(len(docs)))
	for _, d := range docs {
		binary.Write(buf, binary.LittleEndian, uint32(d))
		binary.Write(buf, binary.LittleEndian, uint32(m[d]))
	}
	return buf.Bytes()
}

// decodePostings is the inverse of encodePostings.
func decodePostings(data []byte) (map[int]int, error) {
	buf := bytes.NewReader(data)
	var count uint32
	if err := binary.Read(buf, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading count: %v", ErrTempBlockCorrupt, err)
	}
	m := make(map[int]int, count)
	for i := uint32(0); i < count; i++ {
		var docID, value uint32
		if err := binary.Read(buf, binary.LittleEndian, &docID); err != nil {
			return nil, fmt.Errorf("%w: reading docId: %v", ErrTempBlockCorrupt, err)
		}
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return nil, fmt.Errorf("%w: reading value: %v", ErrTempBlockCorrupt, err)
		}
		m[int(docID)] = int(value)
	}
	return m, nil
}
