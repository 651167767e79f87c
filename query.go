package spimi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════════
// QUERY PARSER / EVALUATOR
// ═══════════════════════════════════════════════════════════════════════════════
// The query surface is a whitespace-separated token sequence. Uppercase
// AND/OR/NOT are reserved operators; everything else is a term literal.
// Expected form is disjunctive normal form, precedence OR < AND < NOT.
// Evaluation is recursive descent over a token slice, splitting on the
// first occurrence of the lowest-precedence operator still present.
// ═══════════════════════════════════════════════════════════════════════════════

// Hit is one ranked query result.
type Hit struct {
	DocID   int
	Score   float64
	Path    string
	Snippet string
}

// Query evaluates queryString against idx and returns up to count hits
// sorted by score descending. An empty query returns an empty (nil, nil)
// hit list. A query containing only operator tokens, a dangling operator at
// a slice boundary, or an empty operand is an ErrQuerySyntax. An unknown
// term is not an error; it contributes an empty posting list.
func (idx *Index) Query(queryString string, count int) ([]Hit, error) {
	tokens := strings.Fields(queryString)
	if len(tokens) == 0 {
		return nil, nil
	}

	postings, err := idx.evalTokens(tokens)
	if err != nil {
		return nil, err
	}

	ranked := postings.SortedByScoreDescending()
	if count >= 0 && count < len(ranked) {
		ranked = ranked[:count]
	}

	queryTerms := stripOperators(tokens)
	hits := make([]Hit, len(ranked))
	for i, p := range ranked {
		path := ""
		if p.DocID >= 0 && p.DocID < len(idx.Paths) {
			path = idx.Paths[p.DocID]
		}
		hits[i] = Hit{
			DocID:   p.DocID,
			Score:   p.Score,
			Path:    path,
			Snippet: idx.snippet(path, queryTerms),
		}
	}
	return hits, nil
}

// evalTokens evaluates a main-index query: leaves resolve to tf-idf scored
// postings.
func (idx *Index) evalTokens(tokens []string) (PostingList, error) {
	return evalBoolean(tokens, idx.N, idx.scoredLeaf)
}

// scoredLeaf resolves a single query token against the main index: stem,
// look up, score. A missing term contributes an empty list.
func (idx *Index) scoredLeaf(token string) (PostingList, error) {
	term := idx.stemmer.Stem(token)
	tf, found, err := idx.lookupTF(term)
	if err != nil {
		return nil, err
	}
	if !found {
		return PostingList{}, nil
	}
	return Score(tf, idx.WordCounts, idx.N)
}

// evalBoolean implements the recursive-descent split over tokens, resolving
// leaf terms through leaf. tokens is always non-empty on entry; an empty
// operand discovered mid-split is a syntax error.
//
// Two compositions get their dedicated algebra forms instead of the naive
// chain: "NOT x OR y" goes through NotOr (which still builds Not(x, n)), and
// "x AND NOT y" through NotAnd, which skips materializing the dense
// complement.
func evalBoolean(tokens []string, n int, leaf func(string) (PostingList, error)) (PostingList, error) {
	if i := firstIndex(tokens, "OR"); i >= 0 {
		left, right := tokens[:i], tokens[i+1:]
		if len(left) == 0 || len(right) == 0 {
			return nil, fmt.Errorf("%w: empty operand around OR", ErrQuerySyntax)
		}
		if left[0] == "NOT" && firstIndex(left, "AND") < 0 {
			if len(left) == 1 {
				return nil, fmt.Errorf("%w: dangling NOT", ErrQuerySyntax)
			}
			x, err := evalBoolean(left[1:], n, leaf)
			if err != nil {
				return nil, err
			}
			y, err := evalBoolean(right, n, leaf)
			if err != nil {
				return nil, err
			}
			return NotOr(x, y, n), nil
		}
		leftResult, err := evalBoolean(left, n, leaf)
		if err != nil {
			return nil, err
		}
		rightResult, err := evalBoolean(right, n, leaf)
		if err != nil {
			return nil, err
		}
		return Or(leftResult, rightResult), nil
	}

	if i := firstIndex(tokens, "AND"); i >= 0 {
		left, right := tokens[:i], tokens[i+1:]
		if len(left) == 0 || len(right) == 0 {
			return nil, fmt.Errorf("%w: empty operand around AND", ErrQuerySyntax)
		}
		if right[0] == "NOT" && firstIndex(right, "AND") < 0 {
			if len(right) == 1 {
				return nil, fmt.Errorf("%w: dangling NOT", ErrQuerySyntax)
			}
			leftResult, err := evalBoolean(left, n, leaf)
			if err != nil {
				return nil, err
			}
			x, err := evalBoolean(right[1:], n, leaf)
			if err != nil {
				return nil, err
			}
			return NotAnd(x, leftResult), nil
		}
		leftResult, err := evalBoolean(left, n, leaf)
		if err != nil {
			return nil, err
		}
		rightResult, err := evalBoolean(right, n, leaf)
		if err != nil {
			return nil, err
		}
		return And(leftResult, rightResult), nil
	}

	if i := firstIndex(tokens, "NOT"); i >= 0 {
		left, right := tokens[:i], tokens[i+1:]
		if len(left) != 0 {
			return nil, fmt.Errorf("%w: NOT must be a prefix, not infix", ErrQuerySyntax)
		}
		if len(right) == 0 {
			return nil, fmt.Errorf("%w: dangling NOT", ErrQuerySyntax)
		}
		rightResult, err := evalBoolean(right, n, leaf)
		if err != nil {
			return nil, err
		}
		return Not(rightResult, n), nil
	}

	if len(tokens) != 1 {
		return nil, fmt.Errorf("%w: expected a single term, got %d tokens", ErrQuerySyntax, len(tokens))
	}
	return leaf(tokens[0])
}

// SearchNames evaluates queryString against the secondary name index and
// returns up to count hits. Name-index postings carry no term frequencies
// beyond presence, so scores are occurrence counts of matched query terms
// rather than tf-idf; the Snippet field carries the "<author> - <title>"
// display form instead of document text.
func (idx *Index) SearchNames(queryString string, count int) ([]Hit, error) {
	if idx.namesDB == nil {
		return nil, fmt.Errorf("%w: no name index alongside the main index", ErrIndexNotBuilt)
	}
	tokens := strings.Fields(queryString)
	if len(tokens) == 0 {
		return nil, nil
	}

	postings, err := evalBoolean(tokens, idx.N, idx.nameLeaf)
	if err != nil {
		return nil, err
	}

	ranked := postings.SortedByScoreDescending()
	if count >= 0 && count < len(ranked) {
		ranked = ranked[:count]
	}

	hits := make([]Hit, len(ranked))
	for i, p := range ranked {
		path := ""
		if p.DocID >= 0 && p.DocID < len(idx.Paths) {
			path = idx.Paths[p.DocID]
		}
		hits[i] = Hit{
			DocID:   p.DocID,
			Score:   p.Score,
			Path:    path,
			Snippet: prettyDoc(path),
		}
	}
	return hits, nil
}

// nameLeaf resolves a single query token against the name index. Values are
// presence flags, so the posting passes through unscored.
func (idx *Index) nameLeaf(token string) (PostingList, error) {
	term := idx.stemmer.Stem(token)
	tf, found, err := idx.lookupNameTF(term)
	if err != nil {
		return nil, err
	}
	if !found {
		return PostingList{}, nil
	}
	return fromTF(tf), nil
}

// firstIndex returns the first index of op in tokens, or -1.
func firstIndex(tokens []string, op string) int {
	for i, t := range tokens {
		if t == op {
			return i
		}
	}
	return -1
}

// stripOperators removes AND/OR/NOT tokens, leaving the raw query terms
// used for snippet extraction.
func stripOperators(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "AND" && t != "OR" && t != "NOT" {
			out = append(out, t)
		}
	}
	return out
}

// snippetWindow is the number of characters of context kept before the
// first matched term.
const snippetWindow = 20

// snippet extracts a bounded plain-text window around the first
// case-insensitive occurrence of any query term in the document at path.
// The search uses the raw lowercased query term, not its stem: a stem like
// "run" is rarely a substring a reader typed ("running"). No ANSI
// highlighting; callers own presentation.
func (idx *Index) snippet(relPath string, terms []string) string {
	if relPath == "" || len(terms) == 0 {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(idx.Root, relPath))
	if err != nil {
		return ""
	}
	lowered := strings.ToLower(string(data))

	for _, term := range terms {
		needle := strings.ToLower(term)
		n := strings.Index(lowered, needle)
		if n < 0 {
			continue
		}
		start := n - snippetWindow
		if start < 0 {
			start = 0
		}
		end := strings.IndexByte(lowered[n:], '\n')
		if end < 0 {
			end = len(lowered)
		} else {
			end += n
		}
		prefix := ""
		if start > 0 {
			prefix = "..."
		}
		return prefix + strings.TrimSpace(string(data[start:end]))
	}
	return ""
}
