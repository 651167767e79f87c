package spimi

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

// maxFanIn bounds how many block files the merger opens simultaneously. If
// more blocks than this are presented, they are merged in a cascade
// (merge-of-merges) first, so a merge never holds more than maxFanIn block
// files (plus its one output file) open at once and cannot hit the system fd
// limit on a build with thousands of spills. A variable so tests can lower it to drive the
// cascade at a manageable block count.
var maxFanIn = 64

// lookahead is one block's pending (term, postings) pair, pulled from its
// cursor but not yet consumed.
type lookahead struct {
	tx       *bolt.Tx
	db       *bolt.DB
	cursor   *bolt.Cursor
	key      []byte
	val      []byte
	hasValue bool
	primed   bool
}

// MergeBlocks k-way merges blockPaths into a single bbolt database at
// outPath, deletes the consumed block files on success, and leaves them in
// place on any failure so a retry can pick them up.
func MergeBlocks(blockPaths []string, outPath string) error {
	if len(blockPaths) > maxFanIn {
		return cascadeMerge(blockPaths, outPath)
	}
	return mergeFanIn(blockPaths, outPath)
}

// mergeFanIn merges at most maxFanIn blocks directly into outPath.
func mergeFanIn(blockPaths []string, outPath string) error {
	out, err := createStore(outPath)
	if err != nil {
		return err
	}
	closedOK := false
	defer func() {
		if !closedOK {
			out.Close()
		}
	}()

	blocks, err := openLookaheads(blockPaths)
	if err != nil {
		return err
	}
	blocksClosed := false
	defer func() {
		if !blocksClosed {
			closeLookaheads(blocks)
		}
	}()

	err = out.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postingsBucket)
		return runMerge(blocks, func(term string, merged map[int]int) error {
			return bucket.Put([]byte(term), encodePostings(merged))
		})
	})
	if err != nil {
		return err
	}

	closeLookaheads(blocks)
	blocksClosed = true
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrCorpusIO, outPath, err)
	}
	closedOK = true

	for _, b := range blockPaths {
		if err := os.Remove(b); err != nil {
			slog.Warn("failed to remove consumed block", slog.String("path", b), slog.Any("error", err))
		}
	}
	slog.Info("merge complete", slog.String("out", outPath), slog.Int("blocks", len(blockPaths)))
	return nil
}

// cascadeMerge merges blockPaths in chunks of maxFanIn into intermediate
// blocks, pass after pass, until one direct merge into outPath remains.
// Intermediate names carry a counter that is monotonic across every pass of
// this cascade, so a new intermediate can never collide with (and truncate)
// an earlier intermediate still waiting to be merged.
func cascadeMerge(blockPaths []string, outPath string) error {
	tempDir := filepath.Dir(outPath)
	seq := 0

	for len(blockPaths) > maxFanIn {
		var next []string
		for i := 0; i < len(blockPaths); i += maxFanIn {
			chunk := blockPaths[i:min(i+maxFanIn, len(blockPaths))]
			if len(chunk) == 1 {
				next = append(next, chunk[0])
				continue
			}
			intermediatePath := filepath.Join(tempDir, fmt.Sprintf("merge-%04d.db", seq))
			seq++
			if err := mergeFanIn(chunk, intermediatePath); err != nil {
				return err
			}
			next = append(next, intermediatePath)
		}
		slog.Info("cascaded merge pass complete", slog.Int("fan-in", maxFanIn), slog.Int("intermediates", len(next)))
		blockPaths = next
	}
	return mergeFanIn(blockPaths, outPath)
}

// openLookaheads opens every block read-only with a long-lived read
// transaction and a cursor, and primes each lookahead with its first
// (term, postings) pair.
func openLookaheads(blockPaths []string) ([]*lookahead, error) {
	blocks := make([]*lookahead, 0, len(blockPaths))
	for _, path := range blockPaths {
		db, err := openStoreReadOnly(path)
		if err != nil {
			closeLookaheads(blocks)
			return nil, err
		}
		tx, err := db.Begin(false)
		if err != nil {
			db.Close()
			closeLookaheads(blocks)
			return nil, fmt.Errorf("%w: opening tx on %s: %v", ErrTempBlockCorrupt, path, err)
		}
		bucket := tx.Bucket(postingsBucket)
		if bucket == nil {
			tx.Rollback()
			db.Close()
			closeLookaheads(blocks)
			return nil, fmt.Errorf("%w: missing bucket in %s", ErrTempBlockCorrupt, path)
		}
		b := &lookahead{tx: tx, db: db, cursor: bucket.Cursor()}
		fillLookahead(b)
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func closeLookaheads(blocks []*lookahead) {
	for _, b := range blocks {
		if b.tx != nil {
			b.tx.Rollback()
		}
		if b.db != nil {
			b.db.Close()
		}
	}
}

// fillLookahead pulls the next (key, value) pair from b's cursor into its
// lookahead slot. If the cursor is exhausted, hasValue is left false; the
// caller is responsible for then dropping the block.
func fillLookahead(b *lookahead) {
	var k, v []byte
	if !b.primed {
		k, v = b.cursor.First()
		b.primed = true
	} else {
		k, v = b.cursor.Next()
	}
	b.key, b.val, b.hasValue = k, v, k != nil
}

// runMerge drives the k-way merge: for every block
// whose lookahead is empty, refill it (dropping exhausted blocks); find the
// minimum term t* across all remaining lookaheads; drain every block whose
// lookahead equals t* into an accumulator via sum; emit (t*, accumulator);
// repeat.
func runMerge(blocks []*lookahead, emit func(term string, merged map[int]int) error) error {
	active := make([]*lookahead, 0, len(blocks))
	for _, b := range blocks {
		if b.hasValue {
			active = append(active, b)
		}
	}

	for len(active) > 0 {
		minTerm := string(active[0].key)
		for _, b := range active[1:] {
			if t := string(b.key); t < minTerm {
				minTerm = t
			}
		}

		accumulator := make(map[int]int)
		next := active[:0]
		for _, b := range active {
			if string(b.key) != minTerm {
				next = append(next, b)
				continue
			}
			postings, err := decodePostings(b.val)
			if err != nil {
				return err
			}
			mergeTFInto(accumulator, postings)
			fillLookahead(b)
			if b.hasValue {
				next = append(next, b)
			}
		}
		active = next

		if err := emit(minTerm, accumulator); err != nil {
			return err
		}
	}
	return nil
}

// mergeTFInto sums src's values into dst, keyed by docId. A docId appearing
// in more than one block (because a document's tokens straddled a spill
// boundary) gets its tf values summed.
func mergeTFInto(dst, src map[int]int) {
	for docID, v := range src {
		dst[docID] += v
	}
}
