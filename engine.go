package spimi

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ENGINE FAÇADE
// ═══════════════════════════════════════════════════════════════════════════════
// BuildIndex / OpenIndex / Query / Close are the package's public surface.
// BuildIndex runs the full pipeline: discover
// the corpus, stream its tokens through SPIMI-Invert, merge the spilled
// blocks into the final index, write the docs_list.txt sidecar, and build
// the secondary name index alongside it.
// ═══════════════════════════════════════════════════════════════════════════════

// BuildIndex builds an inverted index (and its companion name index) over
// the corpus at root, using memoryMB megabytes as the SPIMI memory budget
// and tempDir for spilled blocks. It returns the path of the main index
// file.
func BuildIndex(root string, memoryMB int, tempDir string) (string, error) {
	docs, err := DiscoverCorpus(root)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating temp dir %s: %v", ErrCorpusIO, tempDir, err)
	}

	stemmer := NewStemmer()
	opts := BuildOptions{
		MemoryBudget: int64(memoryMB) * 1024 * 1024,
		TempDir:      tempDir,
	}

	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = filepath.Join(root, d.Path)
	}

	blocks, err := SpimiInvert(NewFileTokenStream(paths), stemmer, ModeSum, opts)
	if err != nil {
		return "", err
	}

	indexPath := filepath.Join(tempDir, "index.db")
	if err := MergeBlocks(blocks, indexPath); err != nil {
		return "", err
	}

	docsListPath := filepath.Join(tempDir, "docs_list.txt")
	if err := WriteDocsList(docsListPath, docs); err != nil {
		return "", err
	}

	namesPath, err := BuildNameIndex(docs, stemmer, BuildOptions{MemoryBudget: opts.MemoryBudget, TempDir: tempDir})
	if err != nil {
		return "", err
	}
	if err := os.Rename(namesPath, namesIndexPath(indexPath)); err != nil {
		return "", fmt.Errorf("%w: placing name index: %v", ErrCorpusIO, err)
	}

	slog.Info("build complete", slog.String("index", indexPath), slog.Int("documents", len(docs)))
	return indexPath, nil
}
