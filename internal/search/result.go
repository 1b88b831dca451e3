package search

import (
	"context"
	"errors"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/store"
)

// ErrNotFinalized is returned when a Result is read or enriched before the
// evaluation that owns it has finalized it.
var ErrNotFinalized = errors.New("result not finalized")

// ScoredDoc is one entry of a ranked result sequence.
type ScoredDoc struct {
	DocID int     `json:"doc_id"`
	Score float64 `json:"score"`
}

// DocumentResult is the per-document view materialised when a Result is
// finalized. Title and Body stay empty until Enrich is called.
type DocumentResult struct {
	Positions []int    `json:"positions,omitempty"`
	Score     float64  `json:"score,omitempty"`
	Terms     []string `json:"terms"`
	Title     string   `json:"title,omitempty"`
	Body      string   `json:"body,omitempty"`
}

// Result accumulates per-term and per-document state during one evaluation
// and, once finalized, exposes the ordered answer with a per-document view.
//
// TermsByDoc records every document seen in any visited term's postings,
// whether or not the document survives the boolean combination; it is the
// basis for highlighting which query terms touched a result.
type Result struct {
	PostingsByTerm map[string]index.PostingList `json:"postings_by_term"`
	TermOrder      []string                     `json:"term_order"`
	TermsByDoc     map[int][]string             `json:"terms_by_doc"`

	// FinalPostings holds the boolean answer; Ranked holds the ranked
	// answer. Exactly one is populated, depending on the path that
	// produced the Result.
	FinalPostings index.PostingList `json:"final_postings,omitempty"`
	Ranked        []ScoredDoc       `json:"ranked,omitempty"`

	Documents map[int]*DocumentResult `json:"documents"`
	Finalized bool                    `json:"finalized"`
}

// NewResult returns an empty, unfinalized Result.
func NewResult() *Result {
	return &Result{
		PostingsByTerm: make(map[string]index.PostingList),
		TermsByDoc:     make(map[int][]string),
	}
}

// addPostings records a visited term and its postings. Terms keep their
// visitation order; a term is appended to a document's term list at most
// once.
func (r *Result) addPostings(term string, postings index.PostingList) {
	if _, seen := r.PostingsByTerm[term]; !seen {
		r.TermOrder = append(r.TermOrder, term)
	}
	r.PostingsByTerm[term] = postings
	for _, p := range postings {
		if !containsTerm(r.TermsByDoc[p.DocID], term) {
			r.TermsByDoc[p.DocID] = append(r.TermsByDoc[p.DocID], term)
		}
	}
}

// finalize stores the boolean answer and builds the per-document view.
func (r *Result) finalize(final index.PostingList) {
	r.FinalPostings = final
	r.Documents = make(map[int]*DocumentResult, len(final))
	for _, p := range final {
		r.Documents[p.DocID] = &DocumentResult{
			Positions: p.Positions,
			Terms:     r.docTerms(p.DocID),
		}
	}
	r.Finalized = true
}

// finalizeRanked stores the ranked answer and builds the per-document view.
// ranked must already be sorted by descending score.
func (r *Result) finalizeRanked(ranked []ScoredDoc) {
	r.Ranked = ranked
	r.Documents = make(map[int]*DocumentResult, len(ranked))
	for _, sd := range ranked {
		r.Documents[sd.DocID] = &DocumentResult{
			Score: sd.Score,
			Terms: r.docTerms(sd.DocID),
		}
	}
	r.Finalized = true
}

// Postings returns the recorded postings for a visited term. The second
// return is false when the term was never visited.
func (r *Result) Postings(term string) (index.PostingList, bool) {
	postings, ok := r.PostingsByTerm[term]
	return postings, ok
}

// Terms returns the query terms whose postings contained docID, in
// first-seen order. It is populated for every document touched during
// evaluation, not only documents in the final answer.
func (r *Result) Terms(docID int) []string {
	return r.docTerms(docID)
}

// DocIDs returns the answer's document ids in result order: ascending for
// the boolean path, rank order for the ranked path.
func (r *Result) DocIDs() []int {
	if r.Ranked != nil {
		ids := make([]int, len(r.Ranked))
		for i, sd := range r.Ranked {
			ids[i] = sd.DocID
		}
		return ids
	}
	return r.FinalPostings.DocIDs()
}

// Enrich fetches title and body metadata for the given documents, or for
// every document in the result when no ids are passed, and merges them into
// the per-document view. It may be called any number of times and is
// idempotent per document.
func (r *Result) Enrich(ctx context.Context, metadata store.MetadataStore, docIDs ...int) error {
	if !r.Finalized {
		return ErrNotFinalized
	}
	ids := docIDs
	if len(ids) == 0 {
		ids = make([]int, 0, len(r.Documents))
		for id := range r.Documents {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	details, err := metadata.FetchDetails(ctx, ids)
	if err != nil {
		return err
	}
	for id, d := range details {
		if doc, ok := r.Documents[id]; ok {
			doc.Title = d.Title
			doc.Body = d.Body
		}
	}
	return nil
}

func (r *Result) docTerms(docID int) []string {
	if terms, ok := r.TermsByDoc[docID]; ok {
		return terms
	}
	return []string{}
}

func containsTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}
