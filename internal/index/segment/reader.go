package segment

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
)

// Reader provides term lookups against a single open segment file.
type Reader struct {
	file     *os.File
	header   Header
	dict     []DictEntry
	postBase int64
}

// OpenReader opens a segment file, validates its magic bytes and dictionary
// checksum, and loads the term dictionary into memory.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening segment file: %w", err)
	}
	headerBytes := make([]byte, HeaderSize)
	if _, err := f.ReadAt(headerBytes, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("reading segment header: %w", err)
	}
	magic := binary.LittleEndian.Uint32(headerBytes[0:4])
	if magic != MagicBytes {
		f.Close()
		return nil, fmt.Errorf("invalid segment file: bad magic bytes %x", magic)
	}
	header := Header{
		Magic:      magic,
		Version:    binary.LittleEndian.Uint32(headerBytes[4:8]),
		TermCount:  binary.LittleEndian.Uint32(headerBytes[8:12]),
		DocCount:   binary.LittleEndian.Uint32(headerBytes[12:16]),
		DictOffset: int64(binary.LittleEndian.Uint64(headerBytes[16:24])),
		DictSize:   int64(binary.LittleEndian.Uint64(headerBytes[24:32])),
		PostOffset: int64(binary.LittleEndian.Uint64(headerBytes[32:40])),
		PostSize:   int64(binary.LittleEndian.Uint64(headerBytes[40:48])),
	}
	dictBytes := make([]byte, header.DictSize)
	if _, err := f.ReadAt(dictBytes, header.DictOffset); err != nil {
		f.Close()
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	footerBytes := make([]byte, FooterSize)
	if _, err := f.ReadAt(footerBytes, header.DictOffset+header.DictSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("reading footer: %w", err)
	}
	if sum := binary.LittleEndian.Uint32(footerBytes[0:4]); sum != crc32.ChecksumIEEE(dictBytes) {
		f.Close()
		return nil, fmt.Errorf("segment dictionary checksum mismatch")
	}
	var dict []DictEntry
	if err := json.Unmarshal(dictBytes, &dict); err != nil {
		f.Close()
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}
	return &Reader{
		file:     f,
		header:   header,
		dict:     dict,
		postBase: header.PostOffset,
	}, nil
}

// Search returns the postings stored for term, or nil when the segment's
// dictionary does not contain it.
func (r *Reader) Search(term string) (index.PostingList, error) {
	idx := sort.Search(len(r.dict), func(i int) bool {
		return r.dict[i].Term >= term
	})
	if idx >= len(r.dict) || r.dict[idx].Term != term {
		return nil, nil
	}
	return r.readPostings(r.dict[idx])
}

// ReadAll returns every term with its postings, in dictionary order.
func (r *Reader) ReadAll() ([]index.TermPostings, error) {
	entries := make([]index.TermPostings, 0, len(r.dict))
	for _, de := range r.dict {
		postings, err := r.readPostings(de)
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", de.Term, err)
		}
		entries = append(entries, index.TermPostings{Term: de.Term, Postings: postings})
	}
	return entries, nil
}

func (r *Reader) readPostings(de DictEntry) (index.PostingList, error) {
	buf := make([]byte, de.PostLen)
	if _, err := r.file.ReadAt(buf, r.postBase+de.PostOffset); err != nil {
		return nil, fmt.Errorf("reading postings: %w", err)
	}
	var postings index.PostingList
	if err := json.Unmarshal(buf, &postings); err != nil {
		return nil, fmt.Errorf("parsing postings: %w", err)
	}
	return postings, nil
}

// Terms returns the segment's dictionary size.
func (r *Reader) Terms() int {
	return len(r.dict)
}

// DocCount returns the number of distinct documents in the segment.
func (r *Reader) DocCount() uint32 {
	return r.header.DocCount
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// LoadDir builds a MemoryIndex from every segment file in dir, in file-name
// order. Unreadable segments fail the load; the service should not come up
// over a partial index.
func LoadDir(dir string) (*index.MemoryIndex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading segment directory: %w", err)
	}
	names := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), FileSuffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	idx := index.NewMemoryIndex()
	logger := slog.Default().With("component", "segment-loader")
	for _, name := range names {
		reader, err := OpenReader(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("opening segment %s: %w", name, err)
		}
		terms, err := reader.ReadAll()
		if closeErr := reader.Close(); closeErr != nil {
			logger.Error("closing segment reader", "segment", name, "error", closeErr)
		}
		if err != nil {
			return nil, fmt.Errorf("loading segment %s: %w", name, err)
		}
		for _, tp := range terms {
			idx.AddTermPostings(tp.Term, tp.Postings)
		}
		logger.Info("segment loaded", "segment", name, "terms", len(terms))
	}
	logger.Info("index load complete",
		"segments", len(names),
		"terms", idx.TermCount(),
		"docs", idx.DocCount(),
	)
	return idx, nil
}
