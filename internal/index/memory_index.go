package index

import (
	"sort"
	"sync"

	"github.com/huandu/skiplist"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/tokenizer"
)

// MemoryIndex is an in-memory inverted index. Each term's postings live in
// a skiplist keyed by document id, so postings stay sorted no matter what
// order documents or segments are loaded in. Reads materialise sorted
// PostingList slices, which is what the merge-based query algebra consumes.
type MemoryIndex struct {
	mu          sync.RWMutex
	terms       map[string]*skiplist.SkipList
	docLengths  map[int]int
	totalTokens int64
}

// NewMemoryIndex returns an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		terms:      make(map[string]*skiplist.SkipList),
		docLengths: make(map[int]int),
	}
}

// AddDocument tokenizes text and indexes every resulting term under docID.
// The document length is the number of indexed tokens, which excludes stop
// words and non-indexable fragments.
func (m *MemoryIndex) AddDocument(docID int, text string) {
	tokens := tokenizer.Tokenize(text)

	positions := make(map[string][]int)
	for _, tok := range tokens {
		positions[tok.Term] = append(positions[tok.Term], tok.Position)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for term, pos := range positions {
		m.insertLocked(term, Posting{DocID: docID, Positions: pos})
	}
	m.docLengths[docID] += len(tokens)
	m.totalTokens += int64(len(tokens))
}

// AddTermPostings indexes an already-built postings list for term, as read
// from a segment. Document lengths are accumulated from term frequencies,
// which matches the position counts written at indexing time.
func (m *MemoryIndex) AddTermPostings(term string, postings PostingList) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range postings {
		m.insertLocked(term, p)
		m.docLengths[p.DocID] += len(p.Positions)
		m.totalTokens += int64(len(p.Positions))
	}
}

// insertLocked adds a posting to term's skiplist, merging positions when
// the document is already present for the term.
func (m *MemoryIndex) insertLocked(term string, p Posting) {
	list, ok := m.terms[term]
	if !ok {
		list = skiplist.New(skiplist.Int)
		m.terms[term] = list
	}
	if el := list.Get(p.DocID); el != nil {
		existing := el.Value.(Posting)
		existing.Positions = append(existing.Positions, p.Positions...)
		sort.Ints(existing.Positions)
		list.Set(p.DocID, existing)
		return
	}
	list.Set(p.DocID, p)
}

// GetPostings returns the postings for term sorted ascending by document
// id, or nil when the term is not in the dictionary.
func (m *MemoryIndex) GetPostings(term string) *TermPostings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list, ok := m.terms[term]
	if !ok {
		return nil
	}
	postings := make(PostingList, 0, list.Len())
	for el := list.Front(); el != nil; el = el.Next() {
		postings = append(postings, el.Value.(Posting))
	}
	return &TermPostings{Term: term, Postings: postings}
}

// Universe returns every known document id, ascending.
func (m *MemoryIndex) Universe() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.docLengths))
	for id := range m.docLengths {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// DocCount returns the number of indexed documents.
func (m *MemoryIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docLengths)
}

// DocLength returns the indexed token count of docID, 0 if unknown.
func (m *MemoryIndex) DocLength(docID int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docLengths[docID]
}

// AvgDocLength returns the mean indexed token count per document.
func (m *MemoryIndex) AvgDocLength() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.docLengths) == 0 {
		return 0
	}
	return float64(m.totalTokens) / float64(len(m.docLengths))
}

// TermCount returns the dictionary size.
func (m *MemoryIndex) TermCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.terms)
}

// Snapshot returns every term with its sorted postings, ordered by term.
// Used by the segment writer.
func (m *MemoryIndex) Snapshot() []TermPostings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]TermPostings, 0, len(m.terms))
	for term, list := range m.terms {
		postings := make(PostingList, 0, list.Len())
		for el := list.Front(); el != nil; el = el.Next() {
			postings = append(postings, el.Value.(Posting))
		}
		entries = append(entries, TermPostings{Term: term, Postings: postings})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}
