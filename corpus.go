package spimi

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════════
// CORPUS DISCOVERY
// ═══════════════════════════════════════════════════════════════════════════════
// A corpus is a directory tree <root>/<author>/<title>.<ext>, exactly two
// directory components below root. DocIds are assigned by the position of a
// document's relative path in the sorted list of all such paths: dense,
// zero-based, and stable across runs iff the corpus does not change.
// ═══════════════════════════════════════════════════════════════════════════════

// Document is one corpus entry: its relative path and its pre-stemming word
// count (whitespace-separated fields, summed per line).
type Document struct {
	Path      string
	WordCount int
}

// DiscoverCorpus walks root for <author>/<title>.<ext> files, assigns dense
// docIds by sorted relative-path order, and computes each document's word
// count. Failure to read the root or any document file is fatal.
func DiscoverCorpus(root string) ([]Document, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading root %s: %v", ErrCorpusIO, root, err)
	}

	var relPaths []string
	for _, authorEntry := range entries {
		if !authorEntry.IsDir() {
			continue
		}
		authorDir := filepath.Join(root, authorEntry.Name())
		titleEntries, err := os.ReadDir(authorDir)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrCorpusIO, authorDir, err)
		}
		for _, titleEntry := range titleEntries {
			if titleEntry.IsDir() {
				continue
			}
			relPaths = append(relPaths, filepath.Join(authorEntry.Name(), titleEntry.Name()))
		}
	}
	sort.Strings(relPaths)

	docs := make([]Document, len(relPaths))
	for i, rel := range relPaths {
		wc, err := wordCount(filepath.Join(root, rel))
		if err != nil {
			return nil, err
		}
		docs[i] = Document{Path: rel, WordCount: wc}
	}

	slog.Info("discovered corpus", slog.String("root", root), slog.Int("documents", len(docs)))
	return docs, nil
}

// wordCount sums whitespace-separated fields per line. Counting happens
// before stemming; the scorer's tf-idf denominator uses this raw count.
func wordCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: opening %s: %v", ErrCorpusIO, path, err)
	}
	defer f.Close()

	total := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		total += len(strings.Fields(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrCorpusIO, path, err)
	}
	return total, nil
}

// DocsListPathFor derives the conventional docs_list.txt sidecar path for
// an index file living in the same directory.
func DocsListPathFor(indexPath string) string {
	return filepath.Join(filepath.Dir(indexPath), "docs_list.txt")
}

// WriteDocsList writes the docs_list.txt sidecar: the sorted list of
// relative paths, one per line. Line k (zero-based) is docId k.
func WriteDocsList(path string, docs []Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrCorpusIO, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, d := range docs {
		if _, err := w.WriteString(d.Path + "\n"); err != nil {
			return fmt.Errorf("%w: writing %s: %v", ErrCorpusIO, path, err)
		}
	}
	return w.Flush()
}

// ReadDocsList reads the docs_list.txt sidecar back into an ordered path
// list; docId k is paths[k].
func ReadDocsList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIndexNotBuilt, path, err)
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		paths = append(paths, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorpusIO, path, err)
	}
	return paths, nil
}

// prettyDoc formats a relative path "<author>/<title>.<ext>" as
// "<author> - <title>".
func prettyDoc(relPath string) string {
	dir, file := filepath.Split(relPath)
	author := strings.TrimSuffix(dir, "/")
	title := strings.TrimSuffix(file, filepath.Ext(file))
	return fmt.Sprintf("%s - %s", author, title)
}
