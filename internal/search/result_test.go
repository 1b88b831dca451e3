package search

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/store"
)

// fakeStore serves canned document metadata and records the ids it was
// asked for.
type fakeStore struct {
	details   map[int]store.DocDetails
	requested []int
	err       error
}

func (f *fakeStore) FetchDetails(_ context.Context, docIDs []int) (map[int]store.DocDetails, error) {
	f.requested = append(f.requested, docIDs...)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int]store.DocDetails)
	for _, id := range docIDs {
		if d, ok := f.details[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func TestResultAddPostingsDeduplicatesTermPerDoc(t *testing.T) {
	r := NewResult()
	postings := index.PostingList{{DocID: 1, Positions: []int{0}}}
	r.addPostings("apple", postings)
	r.addPostings("apple", postings)
	if !reflect.DeepEqual(r.TermOrder, []string{"apple"}) {
		t.Errorf("TermOrder = %v, want single entry", r.TermOrder)
	}
	if got := r.TermsByDoc[1]; !reflect.DeepEqual(got, []string{"apple"}) {
		t.Errorf("TermsByDoc[1] = %v, want [apple]", got)
	}
}

func TestResultEnrichBeforeFinalize(t *testing.T) {
	r := NewResult()
	err := r.Enrich(context.Background(), &fakeStore{})
	if !errors.Is(err, ErrNotFinalized) {
		t.Errorf("Enrich error = %v, want ErrNotFinalized", err)
	}
}

func TestResultEnrichAllDocuments(t *testing.T) {
	r := NewResult()
	r.addPostings("apple", index.PostingList{
		{DocID: 1, Positions: []int{0}},
		{DocID: 2, Positions: []int{1}},
	})
	r.finalize(r.PostingsByTerm["apple"])

	metadata := &fakeStore{details: map[int]store.DocDetails{
		1: {Title: "First", Body: "first body"},
		2: {Title: "Second", Body: "second body"},
	}}
	if err := r.Enrich(context.Background(), metadata); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	sort.Ints(metadata.requested)
	if !reflect.DeepEqual(metadata.requested, []int{1, 2}) {
		t.Errorf("requested ids = %v, want [1 2]", metadata.requested)
	}
	if r.Documents[1].Title != "First" || r.Documents[2].Body != "second body" {
		t.Errorf("documents not enriched: %+v, %+v", r.Documents[1], r.Documents[2])
	}
}

func TestResultEnrichSubset(t *testing.T) {
	r := NewResult()
	r.addPostings("apple", index.PostingList{
		{DocID: 1, Positions: []int{0}},
		{DocID: 2, Positions: []int{1}},
	})
	r.finalize(r.PostingsByTerm["apple"])

	metadata := &fakeStore{details: map[int]store.DocDetails{
		1: {Title: "First"},
		2: {Title: "Second"},
	}}
	if err := r.Enrich(context.Background(), metadata, 2); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	if !reflect.DeepEqual(metadata.requested, []int{2}) {
		t.Errorf("requested ids = %v, want [2]", metadata.requested)
	}
	if r.Documents[1].Title != "" {
		t.Errorf("document 1 title = %q, want untouched", r.Documents[1].Title)
	}
	if r.Documents[2].Title != "Second" {
		t.Errorf("document 2 title = %q, want Second", r.Documents[2].Title)
	}
}

func TestResultEnrichMissingMetadata(t *testing.T) {
	r := NewResult()
	r.addPostings("apple", index.PostingList{{DocID: 7, Positions: []int{0}}})
	r.finalize(r.PostingsByTerm["apple"])

	if err := r.Enrich(context.Background(), &fakeStore{}); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	if r.Documents[7].Title != "" || r.Documents[7].Body != "" {
		t.Errorf("document 7 = %+v, want empty metadata", r.Documents[7])
	}
}

func TestResultEnrichPropagatesStoreError(t *testing.T) {
	r := NewResult()
	r.addPostings("apple", index.PostingList{{DocID: 1, Positions: []int{0}}})
	r.finalize(r.PostingsByTerm["apple"])

	storeErr := errors.New("connection refused")
	if err := r.Enrich(context.Background(), &fakeStore{err: storeErr}); !errors.Is(err, storeErr) {
		t.Errorf("Enrich error = %v, want %v", err, storeErr)
	}
}

func TestResultEnrichEmptyResultIsNoop(t *testing.T) {
	r := NewResult()
	r.finalize(index.PostingList{})
	metadata := &fakeStore{}
	if err := r.Enrich(context.Background(), metadata); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	if len(metadata.requested) != 0 {
		t.Errorf("store queried with %v for an empty result", metadata.requested)
	}
}

func TestResultDocIDsOrder(t *testing.T) {
	boolean := NewResult()
	boolean.finalize(index.PostingList{
		{DocID: 2, Positions: []int{0}},
		{DocID: 5, Positions: []int{1}},
	})
	if got := boolean.DocIDs(); !reflect.DeepEqual(got, []int{2, 5}) {
		t.Errorf("boolean DocIDs = %v, want [2 5]", got)
	}

	ranked := NewResult()
	ranked.finalizeRanked([]ScoredDoc{{DocID: 5, Score: 2.0}, {DocID: 2, Score: 1.0}})
	if got := ranked.DocIDs(); !reflect.DeepEqual(got, []int{5, 2}) {
		t.Errorf("ranked DocIDs = %v, want rank order [5 2]", got)
	}
}
