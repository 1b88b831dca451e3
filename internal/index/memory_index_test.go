package index

import (
	"math"
	"reflect"
	"testing"
)

func TestMemoryIndexAddDocument(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddDocument(1, "apple banana apple")

	tp := idx.GetPostings("apple")
	if tp == nil {
		t.Fatal("GetPostings(apple) = nil, want postings")
	}
	if len(tp.Postings) != 1 || tp.Postings[0].DocID != 1 {
		t.Fatalf("apple postings = %v, want one posting for doc 1", tp.Postings)
	}
	if got := tp.Postings[0].Positions; !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("apple positions = %v, want [0 2]", got)
	}
	if got := idx.DocLength(1); got != 3 {
		t.Errorf("DocLength(1) = %d, want 3", got)
	}
}

func TestMemoryIndexStopWordsExcludedFromLength(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddDocument(1, "the apple is on the table")
	// "the", "is", "on" are dropped; "apple" and "table" remain.
	if got := idx.DocLength(1); got != 2 {
		t.Errorf("DocLength(1) = %d, want 2", got)
	}
	if idx.GetPostings("the") != nil {
		t.Error("stop word must not enter the dictionary")
	}
}

func TestMemoryIndexUnknownTerm(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddDocument(1, "apple")
	if tp := idx.GetPostings("zymurgy"); tp != nil {
		t.Errorf("GetPostings(zymurgy) = %v, want nil", tp)
	}
}

func TestMemoryIndexPostingsStaySortedAcrossOutOfOrderLoads(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddTermPostings("apple", PostingList{{DocID: 9, Positions: []int{0}}})
	idx.AddTermPostings("apple", PostingList{{DocID: 2, Positions: []int{1}}})
	idx.AddTermPostings("apple", PostingList{{DocID: 5, Positions: []int{3}}})

	tp := idx.GetPostings("apple")
	if got := tp.Postings.DocIDs(); !reflect.DeepEqual(got, []int{2, 5, 9}) {
		t.Errorf("apple docids = %v, want sorted [2 5 9]", got)
	}
}

func TestMemoryIndexMergesPositionsForSameDoc(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddTermPostings("apple", PostingList{{DocID: 4, Positions: []int{7}}})
	idx.AddTermPostings("apple", PostingList{{DocID: 4, Positions: []int{2}}})

	tp := idx.GetPostings("apple")
	if len(tp.Postings) != 1 {
		t.Fatalf("apple postings = %v, want single merged posting", tp.Postings)
	}
	if got := tp.Postings[0].Positions; !reflect.DeepEqual(got, []int{2, 7}) {
		t.Errorf("merged positions = %v, want [2 7]", got)
	}
}

func TestMemoryIndexUniverseAndCounts(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddDocument(3, "apple banana")
	idx.AddDocument(1, "cherry")
	idx.AddDocument(7, "banana cherry banana")

	if got := idx.Universe(); !reflect.DeepEqual(got, []int{1, 3, 7}) {
		t.Errorf("Universe = %v, want [1 3 7]", got)
	}
	if got := idx.DocCount(); got != 3 {
		t.Errorf("DocCount = %d, want 3", got)
	}
	if got := idx.TermCount(); got != 3 {
		t.Errorf("TermCount = %d, want 3", got)
	}
	// 2 + 1 + 3 indexed tokens over 3 documents.
	if got := idx.AvgDocLength(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("AvgDocLength = %v, want 2", got)
	}
}

func TestMemoryIndexAccumulatesLengthsFromSegmentPostings(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddTermPostings("apple", PostingList{{DocID: 1, Positions: []int{0, 3}}})
	idx.AddTermPostings("banana", PostingList{{DocID: 1, Positions: []int{1}}})

	if got := idx.DocLength(1); got != 3 {
		t.Errorf("DocLength(1) = %d, want 3", got)
	}
	if got := idx.AvgDocLength(); math.Abs(got-3.0) > 1e-12 {
		t.Errorf("AvgDocLength = %v, want 3", got)
	}
}

func TestMemoryIndexSnapshotOrderedByTerm(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddDocument(1, "cherry apple banana")

	entries := idx.Snapshot()
	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = e.Term
	}
	if !reflect.DeepEqual(terms, []string{"apple", "banana", "cherry"}) {
		t.Errorf("snapshot terms = %v, want lexicographic order", terms)
	}
}
