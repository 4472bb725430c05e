package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_article_store.go -package=mocks email-advisor/internal/storage ArticleStore

import (
	"context"
	"database/sql"
	"fmt"

	"email-advisor/internal/knowledge"
)

// ArticleStore defines the interface for knowledge base storage operations.
type ArticleStore interface {
	// ReplaceAll swaps the stored knowledge base for articles in one transaction.
	ReplaceAll(ctx context.Context, articles []knowledge.Article) error
	// ListAll returns every article in its original order.
	ListAll(ctx context.Context) ([]knowledge.Article, error)
	// GetByID gets an article by id. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*knowledge.Article, error)
}

// ArticleRepo provides methods for article operations.
// It implements the ArticleStore interface.
type ArticleRepo struct {
	db *sql.DB
}

// NewArticleRepo creates a new ArticleRepo.
func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

const articleColumns = "id, subject, categories, utterances, response_template, follow_up_questions, metadata"

// ReplaceAll deletes the stored articles and inserts articles in order.
func (r *ArticleRepo) ReplaceAll(ctx context.Context, articles []knowledge.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, "DELETE FROM articles"); err != nil {
		return fmt.Errorf("failed to clear articles: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (id, position, subject, categories, utterances, response_template, follow_up_questions, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare article insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, a := range articles {
		categories, err := encodeList(a.Categories)
		if err != nil {
			return fmt.Errorf("failed to encode categories of %s: %w", a.ID, err)
		}
		utterances, err := encodeList(a.Utterances)
		if err != nil {
			return fmt.Errorf("failed to encode utterances of %s: %w", a.ID, err)
		}
		followUps, err := encodeList(a.FollowUpQuestions)
		if err != nil {
			return fmt.Errorf("failed to encode follow-up questions of %s: %w", a.ID, err)
		}
		metadata, err := encodeMap(a.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata of %s: %w", a.ID, err)
		}

		if _, err := stmt.ExecContext(ctx, a.ID, i, a.Subject, categories, utterances, a.ResponseTemplate, followUps, metadata); err != nil {
			return fmt.Errorf("failed to insert article %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}
	return nil
}

// ListAll returns every article ordered by position.
// Returns an empty slice if the table is empty (not an error).
func (r *ArticleRepo) ListAll(ctx context.Context) ([]knowledge.Article, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	articles := []knowledge.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}
	return articles, nil
}

// GetByID gets an article by id.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*knowledge.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = ?", id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (*knowledge.Article, error) {
	var a knowledge.Article
	var categories, utterances, followUps, metadata string
	if err := s.Scan(&a.ID, &a.Subject, &categories, &utterances, &a.ResponseTemplate, &followUps, &metadata); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}

	var err error
	if a.Categories, err = decodeList(categories); err != nil {
		return nil, err
	}
	if a.Utterances, err = decodeList(utterances); err != nil {
		return nil, err
	}
	if a.FollowUpQuestions, err = decodeList(followUps); err != nil {
		return nil, err
	}
	if a.Metadata, err = decodeMap(metadata); err != nil {
		return nil, err
	}
	return &a, nil
}
