package spimi

// ═══════════════════════════════════════════════════════════════════════════════
// QUERY BUILDER: Fluent Boolean Queries Over Scored Postings
// ═══════════════════════════════════════════════════════════════════════════════
// A programmatic alternative to Query's string grammar. It composes
// PostingLists (membership and tf-idf score) through the same And/Or/Not
// algebra the string evaluator uses, without round-tripping through a query
// string.
//
//	hits, err := NewQueryBuilder(idx).
//	    Term("machine").And().Term("learning").
//	    Execute()
// ═══════════════════════════════════════════════════════════════════════════════

// QueryOp is a pending boolean operation awaiting its right-hand operand.
type QueryOp int

const (
	opNone QueryOp = iota
	opAnd
	opOr
)

// QueryBuilder provides a fluent interface for building boolean queries
// over an Index's scored postings.
type QueryBuilder struct {
	index  *Index
	stack  []PostingList
	ops    []QueryOp
	negate bool
	err    error
}

// NewQueryBuilder creates a new query builder over index.
func NewQueryBuilder(index *Index) *QueryBuilder {
	return &QueryBuilder{index: index}
}

// Term adds a scored posting list for term (stemmed internally).
func (qb *QueryBuilder) Term(term string) *QueryBuilder {
	if qb.err != nil {
		return qb
	}
	stemmed := qb.index.stemmer.Stem(term)
	tf, found, err := qb.index.lookupTF(stemmed)
	var pl PostingList
	if err != nil {
		qb.err = err
		return qb
	}
	if found {
		pl, qb.err = Score(tf, qb.index.WordCounts, qb.index.N)
		if qb.err != nil {
			return qb
		}
	} else {
		pl = PostingList{}
	}
	if qb.negate {
		pl = Not(pl, qb.index.N)
		qb.negate = false
	}
	qb.push(pl)
	return qb
}

// And queues an AND between the current stack top and the next operand.
func (qb *QueryBuilder) And() *QueryBuilder {
	qb.ops = append(qb.ops, opAnd)
	return qb
}

// Or queues an OR between the current stack top and the next operand.
func (qb *QueryBuilder) Or() *QueryBuilder {
	qb.ops = append(qb.ops, opOr)
	return qb
}

// Not negates the next Term or Group.
func (qb *QueryBuilder) Not() *QueryBuilder {
	qb.negate = true
	return qb
}

// Group evaluates a sub-query with its own scope and pushes its result,
// for controlling operator precedence explicitly (e.g. (cat OR dog) AND pet).
func (qb *QueryBuilder) Group(fn func(*QueryBuilder)) *QueryBuilder {
	if qb.err != nil {
		return qb
	}
	sub := NewQueryBuilder(qb.index)
	fn(sub)
	result, err := sub.Execute()
	if err != nil {
		qb.err = err
		return qb
	}
	if qb.negate {
		result = Not(result, qb.index.N)
		qb.negate = false
	}
	qb.push(result)
	return qb
}

func (qb *QueryBuilder) push(pl PostingList) {
	qb.stack = append(qb.stack, pl)
}

// Execute runs the queued operations left-to-right and returns the final
// scored posting list.
func (qb *QueryBuilder) Execute() (PostingList, error) {
	if qb.err != nil {
		return nil, qb.err
	}
	if len(qb.stack) == 0 {
		return PostingList{}, nil
	}
	result := qb.stack[0]
	for i := 1; i < len(qb.stack); i++ {
		op := opNone
		if i-1 < len(qb.ops) {
			op = qb.ops[i-1]
		}
		switch op {
		case opAnd:
			result = And(result, qb.stack[i])
		case opOr:
			result = Or(result, qb.stack[i])
		}
	}
	return result, nil
}

// AllOf finds documents containing ALL of the given terms (AND of each
// term's scored postings).
func AllOf(index *Index, terms ...string) (PostingList, error) {
	if len(terms) == 0 {
		return PostingList{}, nil
	}
	qb := NewQueryBuilder(index).Term(terms[0])
	for _, t := range terms[1:] {
		qb.And().Term(t)
	}
	return qb.Execute()
}

// AnyOf finds documents containing ANY of the given terms (OR of each
// term's scored postings).
func AnyOf(index *Index, terms ...string) (PostingList, error) {
	if len(terms) == 0 {
		return PostingList{}, nil
	}
	qb := NewQueryBuilder(index).Term(terms[0])
	for _, t := range terms[1:] {
		qb.Or().Term(t)
	}
	return qb.Execute()
}

// TermExcluding finds documents with include but not exclude.
func TermExcluding(index *Index, include, exclude string) (PostingList, error) {
	return NewQueryBuilder(index).
		Term(include).
		And().Not().Term(exclude).
		Execute()
}
