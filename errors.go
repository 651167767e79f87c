package spimi

import "errors"

// We define errors as package-level variables so they can be compared with ==
// (or errors.Is, once wrapped).
var (
	// ErrCorpusIO covers a missing corpus root or an unreadable document.
	// Fatal to the build operation it occurred in.
	ErrCorpusIO = errors.New("corpus I/O failure")

	// ErrIndexNotBuilt means the on-disk index does not exist at query time.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrQuerySyntax covers operator tokens in term position, dangling
	// operators at a slice boundary, and empty operands. Fatal to the query
	// that produced it, not to the session.
	ErrQuerySyntax = errors.New("query syntax error")

	// ErrEmptyDocument is returned by the scorer when a document referenced
	// by a posting has a word count of zero; tf-idf is undefined for it.
	ErrEmptyDocument = errors.New("empty document: word count is zero")

	// ErrTempBlockCorrupt is returned by the merger when a spilled block
	// cannot be read back. Surviving blocks are left on disk for diagnosis.
	ErrTempBlockCorrupt = errors.New("temp block corrupt")
)
