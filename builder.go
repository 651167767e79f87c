package spimi

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ═══════════════════════════════════════════════════════════════════════════════
// SPIMI-INVERT: BLOCK BUILDER
// ═══════════════════════════════════════════════════════════════════════════════
// Accumulate an in-memory term -> (docId -> value) mapping until a memory
// budget is hit, then spill it to a fresh bbolt block file ordered by term
// (for free, courtesy of the B+tree) and start over. After the stream ends,
// spill whatever remains.
//
// The memory counter is a coarse proxy for residency, not an exact byte
// count: it only grows at ingest and is never reduced on overwrite, so the
// budget is advisory. It is monotonically non-decreasing within a block and
// resets to zero at each spill.
// ═══════════════════════════════════════════════════════════════════════════════

// AccumulateMode controls how a token occurrence updates its posting:
// ModeSum increments the term-frequency count (the main index); ModePresence
// clamps the value to 1 regardless of repetition (the name index, where only
// membership matters).
type AccumulateMode int

const (
	ModeSum AccumulateMode = iota
	ModePresence
)

// BuildOptions configures a SPIMI build pass.
type BuildOptions struct {
	// MemoryBudget is the approximate byte threshold that triggers a spill.
	MemoryBudget int64
	// TempDir holds the spilled block files.
	TempDir string
}

// tokenOverhead approximates the per-token bookkeeping cost beyond the
// token bytes themselves. Exactness is not required, only monotonic growth
// within a block.
const tokenOverhead = 16

// SpimiInvert consumes stream, producing a sequence of sorted block files
// under opts.TempDir. It returns the block paths in creation order. An empty
// stream produces zero blocks.
func SpimiInvert(stream TokenStream, stemmer *Stemmer, mode AccumulateMode, opts BuildOptions) ([]string, error) {
	if err := os.MkdirAll(opts.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating temp dir %s: %v", ErrCorpusIO, opts.TempDir, err)
	}

	var blocks []string
	blockIndex := 0
	memoryUsed := int64(0)
	dict := make(map[string]map[int]int)

	spill := func() error {
		if len(dict) == 0 {
			return nil
		}
		path, err := spillBlock(dict, opts.TempDir, blockIndex)
		if err != nil {
			return err
		}
		blocks = append(blocks, path)
		blockIndex++
		memoryUsed = 0
		dict = make(map[string]map[int]int)
		return nil
	}

	for {
		docID, token, ok := stream.Next()
		if !ok {
			break
		}
		memoryUsed += int64(len(token)) + tokenOverhead

		term := stemmer.Stem(token)
		postings, exists := dict[term]
		if !exists {
			postings = make(map[int]int)
			dict[term] = postings
		}
		switch mode {
		case ModePresence:
			postings[docID] = 1
		default:
			postings[docID]++
		}

		if memoryUsed > opts.MemoryBudget {
			if err := spill(); err != nil {
				return nil, err
			}
		}
	}
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, err
	}
	if err := stream.Close(); err != nil {
		return nil, err
	}

	if err := spill(); err != nil {
		return nil, err
	}

	slog.Info("spimi-invert complete", slog.Int("blocks", len(blocks)))
	return blocks, nil
}

// spillBlock writes dict into a fresh bbolt block file, one Put per term.
// bbolt's B+tree keeps keys (terms) in ascending byte order regardless of
// insertion order, satisfying the "ordered by term ascending" precondition
// the merger relies on.
func spillBlock(dict map[string]map[int]int, tempDir string, index int) (string, error) {
	path := filepath.Join(tempDir, fmt.Sprintf("block-%04d.db", index))
	db, err := createStore(path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := writeAllTerms(db, dict); err != nil {
		return "", err
	}

	slog.Info("spilled block", slog.String("path", path), slog.Int("terms", len(dict)))
	return path, nil
}
