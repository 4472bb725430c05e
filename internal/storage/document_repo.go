package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks email-advisor/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"

	"email-advisor/internal/knowledge"
)

// DocumentStore defines the interface for reference corpus storage operations.
type DocumentStore interface {
	// ReplaceAll swaps the stored corpus for docs in one transaction.
	ReplaceAll(ctx context.Context, docs []knowledge.Document) error
	// ListAll returns every document in its original order.
	ListAll(ctx context.Context) ([]knowledge.Document, error)
}

// DocumentRepo provides methods for reference document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// ReplaceAll deletes the stored documents and inserts docs in order.
func (r *DocumentRepo) ReplaceAll(ctx context.Context, docs []knowledge.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, "DELETE FROM reference_documents"); err != nil {
		return fmt.Errorf("failed to clear reference documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO reference_documents (id, position, title, content, url, tags) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, d := range docs {
		tags, err := encodeList(d.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags of %s: %w", d.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, d.ID, i, d.Title, d.Content, d.URL, tags); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reference documents: %w", err)
	}
	return nil
}

// ListAll returns every document ordered by position.
// Returns an empty slice if the table is empty (not an error).
func (r *DocumentRepo) ListAll(ctx context.Context) ([]knowledge.Document, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, content, url, tags FROM reference_documents ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query reference documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []knowledge.Document{}
	for rows.Next() {
		var d knowledge.Document
		var tags string
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.URL, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan reference document: %w", err)
		}
		if d.Tags, err = decodeList(tags); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference documents: %w", err)
	}
	return docs, nil
}
