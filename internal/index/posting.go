package index

// Posting records the token positions at which one term occurs in one
// document. Positions are ascending token offsets and never empty for a
// posting produced by indexing; negation results carry empty positions.
type Posting struct {
	DocID     int   `json:"doc_id"`
	Positions []int `json:"positions"`
}

// TF returns the term frequency, the number of occurrences of the term in
// the document.
func (p Posting) TF() int {
	return len(p.Positions)
}

// PostingList is a sequence of postings sorted ascending by DocID. A DocID
// appears at most once per list.
type PostingList []Posting

// DocIDs returns the document ids of the list, in list order.
func (pl PostingList) DocIDs() []int {
	ids := make([]int, len(pl))
	for i, p := range pl {
		ids[i] = p.DocID
	}
	return ids
}

// TermPostings pairs a term with its postings list, as returned by the
// index for a single dictionary lookup.
type TermPostings struct {
	Term     string      `json:"term"`
	Postings PostingList `json:"postings"`
}
