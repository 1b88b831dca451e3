// Package benchmark contains Go benchmarks for the query pipeline: parsing,
// boolean evaluation, BM25 ranking, and index loading.
package benchmark

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/search"
)

// benchIndex builds a synthetic index where each of numDocs documents holds
// a deterministic subset of a small vocabulary.
func benchIndex(numDocs int) *index.MemoryIndex {
	vocabulary := []string{
		"apple", "banana", "cherry", "damson", "elderberry",
		"fig", "grape", "honeydew", "kiwi", "lemon",
	}
	rng := rand.New(rand.NewSource(42))
	idx := index.NewMemoryIndex()
	for docID := 1; docID <= numDocs; docID++ {
		for term := range vocabulary {
			if docID%(term+2) != 0 {
				continue
			}
			tf := rng.Intn(5) + 1
			positions := make([]int, tf)
			for i := range positions {
				positions[i] = i * 3
			}
			idx.AddTermPostings(vocabulary[term], index.PostingList{
				{DocID: docID, Positions: positions},
			})
		}
	}
	return idx
}

// BenchmarkQueryParse measures parsing latency for queries of varying
// complexity.
func BenchmarkQueryParse(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"single_term", "apple"},
		{"boolean_and", "apple AND banana AND cherry"},
		{"boolean_or", "apple OR banana OR cherry"},
		{"with_not", "apple AND NOT banana"},
		{"parenthesised", "(apple OR banana) AND (cherry OR damson)"},
		{"deeply_nested", "((apple AND (banana OR cherry)) OR (damson AND NOT fig))"},
	}

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				tree, err := search.NewParser(q.query).Parse()
				if err != nil {
					b.Fatal(err)
				}
				_ = tree
			}
		})
	}
}

// BenchmarkBooleanEvaluate measures end-to-end boolean evaluation over
// indexes of increasing size.
func BenchmarkBooleanEvaluate(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, numDocs := range sizes {
		idx := benchIndex(numDocs)
		b.Run(fmt.Sprintf("docs_%d", numDocs), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				result, err := search.NewEvaluator(idx).Evaluate("(apple OR banana) AND NOT cherry")
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

// BenchmarkBM25Rank measures scoring and sorting for different corpus
// sizes.
func BenchmarkBM25Rank(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, numDocs := range sizes {
		idx := benchIndex(numDocs)
		ranker := search.NewRanker(idx, search.DefaultK1, search.DefaultB)
		b.Run(fmt.Sprintf("docs_%d", numDocs), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				result := ranker.Rank("apple banana cherry")
				_ = result
			}
		})
	}
}

// BenchmarkBooleanEvaluateParallel measures concurrent query throughput
// against a shared index.
func BenchmarkBooleanEvaluateParallel(b *testing.B) {
	idx := benchIndex(10000)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			result, err := search.NewEvaluator(idx).Evaluate("apple AND banana")
			if err != nil {
				b.Fatal(err)
			}
			_ = result
		}
	})
}

// BenchmarkPostingsIntersect measures raw merge-join throughput on large
// sorted lists.
func BenchmarkPostingsIntersect(b *testing.B) {
	makeList := func(n, step int) index.PostingList {
		out := make(index.PostingList, n)
		for i := 0; i < n; i++ {
			out[i] = index.Posting{DocID: i * step, Positions: []int{0}}
		}
		return out
	}
	a := makeList(100000, 2)
	c := makeList(100000, 3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out := search.Intersect(a, c)
		_ = out
	}
}
