// Command indexctl builds a segment file (and optionally a Badger metadata
// store) from a JSON corpus, producing the precomputed inputs queryd loads
// at startup.
//
// The corpus is a JSON array of documents:
//
//	[{"doc_id": 1, "title": "...", "body": "..."}, ...]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index/segment"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/store"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/logger"
)

type corpusDoc struct {
	DocID int    `json:"doc_id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func main() {
	corpusPath := flag.String("corpus", "", "path to JSON corpus file (required)")
	outDir := flag.String("out", "data/index", "segment output directory")
	badgerPath := flag.String("badger", "", "optional Badger metadata store path")
	flag.Parse()

	logger.Setup("info", "text")
	if *corpusPath == "" {
		fmt.Fprintln(os.Stderr, "usage: indexctl -corpus corpus.json [-out dir] [-badger path]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*corpusPath)
	if err != nil {
		slog.Error("reading corpus", "error", err)
		os.Exit(1)
	}
	var docs []corpusDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		slog.Error("parsing corpus", "error", err)
		os.Exit(1)
	}

	idx := index.NewMemoryIndex()
	for _, doc := range docs {
		idx.AddDocument(doc.DocID, doc.Title+" "+doc.Body)
	}
	slog.Info("corpus indexed", "docs", idx.DocCount(), "terms", idx.TermCount())

	name, err := segment.NewWriter(*outDir).Write(idx.Snapshot())
	if err != nil {
		slog.Error("writing segment", "error", err)
		os.Exit(1)
	}
	slog.Info("segment written", "segment", name, "dir", *outDir)

	if *badgerPath != "" {
		metadata, err := store.OpenBadgerStore(*badgerPath)
		if err != nil {
			slog.Error("opening metadata store", "error", err)
			os.Exit(1)
		}
		defer metadata.Close()
		for _, doc := range docs {
			if err := metadata.PutDetails(doc.DocID, store.DocDetails{Title: doc.Title, Body: doc.Body}); err != nil {
				slog.Error("writing metadata", "doc_id", doc.DocID, "error", err)
				os.Exit(1)
			}
		}
		slog.Info("metadata written", "docs", len(docs), "path", *badgerPath)
	}
}
