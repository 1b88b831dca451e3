package search

import (
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
)

// Intersect merge-joins two postings lists sorted ascending by document id
// and returns a posting for every id present in both. Positions are taken
// from a's entry; term-level intersection is a document-set operation, the
// position lists are not merged. O(len(a)+len(b)).
func Intersect(a, b index.PostingList) index.PostingList {
	out := make(index.PostingList, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID == b[j].DocID:
			out = append(out, a[i])
			i++
			j++
		case a[i].DocID < b[j].DocID:
			i++
		default:
			j++
		}
	}
	return out
}

// Union merges two postings lists sorted ascending by document id into one
// posting per id present in either. When an id appears in both, a's
// positions win; the choice is arbitrary but consistent.
func Union(a, b index.PostingList) index.PostingList {
	out := make(index.PostingList, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID == b[j].DocID:
			out = append(out, a[i])
			i++
			j++
		case a[i].DocID < b[j].DocID:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Negate returns a posting for every document id in universe that is not
// present in a. Negation yields no position information, the positions of
// every returned posting are empty. universe must be sorted ascending.
func Negate(universe []int, a index.PostingList) index.PostingList {
	out := make(index.PostingList, 0, len(universe))
	i := 0
	for _, docID := range universe {
		for i < len(a) && a[i].DocID < docID {
			i++
		}
		if i < len(a) && a[i].DocID == docID {
			continue
		}
		out = append(out, index.Posting{DocID: docID, Positions: []int{}})
	}
	return out
}
