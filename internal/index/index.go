// Package index defines the read-only inverted index consumed by query
// evaluation, along with an in-memory implementation that can be populated
// directly or loaded from on-disk segments.
package index

// Index is the read-only view of a precomputed inverted index. Query
// evaluation never mutates the index, so any implementation that is safe
// for concurrent reads supports any number of concurrent evaluations.
type Index interface {
	// GetPostings returns the postings for a term, or nil when the term is
	// not in the dictionary. Callers rely on the nil/non-nil distinction to
	// tell an unindexed term apart from a term with zero matches.
	GetPostings(term string) *TermPostings

	// Universe returns all document ids known to the index, ascending.
	Universe() []int

	// DocCount returns the number of indexed documents.
	DocCount() int

	// DocLength returns the indexed token count of a document, 0 for an
	// unknown document.
	DocLength(docID int) int

	// AvgDocLength returns the mean indexed token count across all
	// documents, 0 for an empty index.
	AvgDocLength() float64
}
