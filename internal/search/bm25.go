package search

import (
	"math"
	"sort"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/tokenizer"
)

// Default BM25 parameters: k1 controls term-frequency saturation, b the
// strength of document-length normalisation.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// Ranker scores free-text queries with the additive BM25 function.
type Ranker struct {
	idx index.Index
	k1  float64
	b   float64
}

// NewRanker creates a Ranker over idx. Non-positive k1 or a b outside
// [0, 1] falls back to the defaults.
func NewRanker(idx index.Index, k1, b float64) *Ranker {
	if k1 <= 0 {
		k1 = DefaultK1
	}
	if b < 0 || b > 1 {
		b = DefaultB
	}
	return &Ranker{idx: idx, k1: k1, b: b}
}

// Rank tokenizes queryText like document text, scores every document that
// any query term touches, and returns a finalized Result whose ranked
// sequence is ordered by descending score with ascending document id
// breaking ties. Duplicate query terms are retained, so a repeated term
// contributes its partial scores once per occurrence.
func (r *Ranker) Rank(queryText string) *Result {
	result := NewResult()
	scores := make(map[int]float64)
	docCount := r.idx.DocCount()

	for _, tok := range tokenizer.Tokenize(queryText) {
		tp := r.idx.GetPostings(tok.Term)
		if tp == nil {
			continue
		}
		result.addPostings(tok.Term, tp.Postings)
		if len(tp.Postings) == 0 {
			// Degenerate dictionary entry: idf would be 0, nothing to add.
			continue
		}
		idf := math.Log2(float64(docCount) / float64(len(tp.Postings)))
		for _, p := range tp.Postings {
			scores[p.DocID] += r.scoreTerm(idf, float64(p.TF()), float64(r.idx.DocLength(p.DocID)))
		}
	}

	ranked := make([]ScoredDoc, 0, len(scores))
	for docID, score := range scores {
		ranked = append(ranked, ScoredDoc{DocID: docID, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})
	result.finalizeRanked(ranked)
	return result
}

// scoreTerm computes the partial BM25 weight of one term in one document:
//
//	idf * (k1+1)*tf / (k1*((1-b) + b*dl/davg) + tf)
//
// Partial weights are accumulated per document across query terms.
func (r *Ranker) scoreTerm(idf, tf, dl float64) float64 {
	davg := r.idx.AvgDocLength()
	if davg == 0 {
		return 0
	}
	return idf * (r.k1 + 1) * tf / (r.k1*((1-r.b)+r.b*dl/davg) + tf)
}
