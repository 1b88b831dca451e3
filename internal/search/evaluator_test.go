package search

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
)

// fakeIndex is a fixed in-memory index.Index for evaluator and ranker tests.
type fakeIndex struct {
	postings map[string]index.PostingList
	lengths  map[int]int
}

func (f *fakeIndex) GetPostings(term string) *index.TermPostings {
	postings, ok := f.postings[term]
	if !ok {
		return nil
	}
	return &index.TermPostings{Term: term, Postings: postings}
}

func (f *fakeIndex) Universe() []int {
	ids := make([]int, 0, len(f.lengths))
	for id := range f.lengths {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (f *fakeIndex) DocCount() int { return len(f.lengths) }

func (f *fakeIndex) DocLength(docID int) int { return f.lengths[docID] }

func (f *fakeIndex) AvgDocLength() float64 {
	if len(f.lengths) == 0 {
		return 0
	}
	total := 0
	for _, l := range f.lengths {
		total += l
	}
	return float64(total) / float64(len(f.lengths))
}

// fruitIndex covers documents 1..6. "apple" hits {1, 3}, "banana" {2, 3},
// "cherry" {2, 5}; "zymurgy" is not indexed.
func fruitIndex() *fakeIndex {
	return &fakeIndex{
		postings: map[string]index.PostingList{
			"apple": {
				{DocID: 1, Positions: []int{0, 4}},
				{DocID: 3, Positions: []int{2}},
			},
			"banana": {
				{DocID: 2, Positions: []int{1}},
				{DocID: 3, Positions: []int{5}},
			},
			"cherry": {
				{DocID: 2, Positions: []int{3}},
				{DocID: 5, Positions: []int{0}},
			},
		},
		lengths: map[int]int{1: 6, 2: 5, 3: 7, 4: 3, 5: 4, 6: 8},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"single_term", "apple", []int{1, 3}},
		{"and", "apple AND banana", []int{3}},
		{"or", "apple OR cherry", []int{1, 2, 3, 5}},
		{"not", "NOT apple", []int{2, 4, 5, 6}},
		{"and_before_or", "apple OR banana AND cherry", []int{1, 2, 3}},
		{"parens_override", "(apple OR banana) AND cherry", []int{2}},
		{"not_in_conjunction", "banana AND NOT cherry", []int{3}},
		{"double_not", "NOT NOT apple", []int{1, 3}},
		{"indexed_disjoint_and", "apple AND cherry", []int{}},
		{"case_folded_term", "Apple", []int{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewEvaluator(fruitIndex()).Evaluate(tt.query)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.query, err)
			}
			if !result.Finalized {
				t.Fatal("result not finalized")
			}
			if got := result.DocIDs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEvaluateUnindexedTermIsConjunctionIdentity(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"unindexed_right", "banana AND zymurgy", []int{2, 3}},
		{"unindexed_left", "zymurgy AND banana", []int{2, 3}},
		{"stop_word", "banana AND the", []int{2, 3}},
		{"both_unindexed", "zymurgy AND the", []int{}},
		{"unindexed_alone", "zymurgy", []int{}},
		{"unindexed_in_union", "zymurgy OR banana", []int{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewEvaluator(fruitIndex()).Evaluate(tt.query)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.query, err)
			}
			if got := result.DocIDs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEvaluateRecordsTermsForNonSurvivingDocs(t *testing.T) {
	result, err := NewEvaluator(fruitIndex()).Evaluate("apple AND banana")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	// Document 3 survives the intersection; 1 and 2 were touched by one
	// term each and still carry their term attribution.
	if got := result.Terms(3); !reflect.DeepEqual(got, []string{"apple", "banana"}) {
		t.Errorf("Terms(3) = %v, want [apple banana]", got)
	}
	if got := result.Terms(1); !reflect.DeepEqual(got, []string{"apple"}) {
		t.Errorf("Terms(1) = %v, want [apple]", got)
	}
	if got := result.Terms(2); !reflect.DeepEqual(got, []string{"banana"}) {
		t.Errorf("Terms(2) = %v, want [banana]", got)
	}
	if got := result.Terms(6); !reflect.DeepEqual(got, []string{}) {
		t.Errorf("Terms(6) = %v, want empty", got)
	}
}

func TestEvaluatePerDocumentView(t *testing.T) {
	result, err := NewEvaluator(fruitIndex()).Evaluate("apple AND banana")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	doc, ok := result.Documents[3]
	if !ok {
		t.Fatal("document 3 missing from result view")
	}
	// Intersection carries the left operand's positions.
	if !reflect.DeepEqual(doc.Positions, []int{2}) {
		t.Errorf("Positions = %v, want [2]", doc.Positions)
	}
	if _, ok := result.Documents[1]; ok {
		t.Error("document 1 should not appear in the final view")
	}
}

func TestEvaluateRecordsVisitedPostings(t *testing.T) {
	result, err := NewEvaluator(fruitIndex()).Evaluate("apple AND zymurgy")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	postings, ok := result.Postings("apple")
	if !ok || len(postings) != 2 {
		t.Errorf("Postings(apple) = %v, %v; want 2 postings", postings, ok)
	}
	if _, ok := result.Postings("zymurgy"); !ok {
		t.Error("unindexed term should still be recorded as visited")
	}
	if !reflect.DeepEqual(result.TermOrder, []string{"apple", "zymurgy"}) {
		t.Errorf("TermOrder = %v, want [apple zymurgy]", result.TermOrder)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	_, err := NewEvaluator(fruitIndex()).Evaluate("apple AND")
	if err == nil {
		t.Fatal("Evaluate succeeded, want syntax error")
	}
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
}
