// Package store provides document metadata lookup for result enrichment.
// The query core only needs titles and bodies by document id; two backends
// implement that contract, Postgres for shared deployments and Badger for
// single-node ones.
package store

import "context"

// DocDetails is the metadata recorded for one document.
type DocDetails struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// MetadataStore fetches document metadata in bulk. Unknown ids are simply
// missing from the returned map; absence is not an error.
type MetadataStore interface {
	FetchDetails(ctx context.Context, docIDs []int) (map[int]DocDetails, error)
	Close() error
}
