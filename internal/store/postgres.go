package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/postgres"
)

// PostgresStore reads document metadata from the documents table.
type PostgresStore struct {
	client *postgres.Client
}

// NewPostgresStore wraps an existing Postgres client.
func NewPostgresStore(client *postgres.Client) *PostgresStore {
	return &PostgresStore{client: client}
}

// FetchDetails returns title and body for every requested id that exists.
func (s *PostgresStore) FetchDetails(ctx context.Context, docIDs []int) (map[int]DocDetails, error) {
	if len(docIDs) == 0 {
		return map[int]DocDetails{}, nil
	}
	ids := make([]int64, len(docIDs))
	for i, id := range docIDs {
		ids[i] = int64(id)
	}
	rows, err := s.client.DB.QueryContext(ctx,
		`SELECT doc_id, title, body FROM documents WHERE doc_id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("querying document metadata: %w", err)
	}
	defer rows.Close()

	details := make(map[int]DocDetails, len(docIDs))
	for rows.Next() {
		var docID int
		var d DocDetails
		if err := rows.Scan(&docID, &d.Title, &d.Body); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		details[docID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return details, nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.client.Close()
}
