package spimi

import "path/filepath"

// ═══════════════════════════════════════════════════════════════════════════════
// SECONDARY NAME INDEX
// ═══════════════════════════════════════════════════════════════════════════════
// Structurally identical to the main pipeline: tokenization
// operates only on "<author> <title>" derived from each document's path,
// with no line iteration, reusing the exact same SpimiInvert / MergeBlocks
// components in ModePresence so every value is docId -> 1.
// ═══════════════════════════════════════════════════════════════════════════════

// namesIndexPath derives the secondary name index's file path alongside the
// main index file.
func namesIndexPath(indexPath string) string {
	return indexPath + ".names"
}

// BuildNameIndex builds the secondary name index over docs' "<author>
// <title>" strings, reusing SpimiInvert and MergeBlocks in ModePresence. It
// writes the index to names-index.db under opts.TempDir and returns that path.
func BuildNameIndex(docs []Document, stemmer *Stemmer, opts BuildOptions) (string, error) {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = nameStringOf(d.Path)
	}

	stream := NewStringTokenStream(names)
	blocks, err := SpimiInvert(stream, stemmer, ModePresence, opts)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(opts.TempDir, "names-index.db")
	if err := MergeBlocks(blocks, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// nameStringOf derives the "<author> <title>" string tokenized for the name
// index from a document's relative path.
func nameStringOf(relPath string) string {
	dir, file := filepath.Split(relPath)
	author := filepath.Clean(dir)
	title := file[:len(file)-len(filepath.Ext(file))]
	return author + " " + title
}
