package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps document metadata in an embedded Badger database, for
// deployments that run without Postgres.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) the Badger database at path. An empty
// path opens an in-memory database, which tests use.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return nil, fmt.Errorf("creating badger directory: %w", err)
		}
		opts = badger.DefaultOptions(path).WithNumVersionsToKeep(1)
	}
	opts = opts.WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// PutDetails stores metadata for one document. Used by offline index
// tooling when preparing a deployment.
func (s *BadgerStore) PutDetails(docID int, details DocDetails) error {
	value, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshaling metadata for doc %d: %w", docID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(docID), value)
	})
	if err != nil {
		return fmt.Errorf("writing metadata for doc %d: %w", docID, err)
	}
	return nil
}

// FetchDetails returns metadata for every requested id that exists.
func (s *BadgerStore) FetchDetails(ctx context.Context, docIDs []int) (map[int]DocDetails, error) {
	details := make(map[int]DocDetails, len(docIDs))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, docID := range docIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := txn.Get(docKey(docID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("reading metadata for doc %d: %w", docID, err)
			}
			err = item.Value(func(value []byte) error {
				var d DocDetails
				if err := json.Unmarshal(value, &d); err != nil {
					return fmt.Errorf("parsing metadata for doc %d: %w", docID, err)
				}
				details[docID] = d
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func docKey(docID int) []byte {
	return []byte(fmt.Sprintf("doc:%d", docID))
}
