package storage

import (
	"context"
	"fmt"

	"email-advisor/internal/knowledge"
)

// Catalog reads and writes both collections of a catalog database.
type Catalog struct {
	Articles  ArticleStore
	Documents DocumentStore
}

// Import stores kb and corpus, replacing what was there. A nil corpus leaves
// the stored documents untouched.
func (c *Catalog) Import(ctx context.Context, kb *knowledge.KnowledgeBase, corpus *knowledge.ReferenceCorpus) error {
	if err := c.Articles.ReplaceAll(ctx, kb.Articles()); err != nil {
		return fmt.Errorf("failed to import knowledge base: %w", err)
	}
	if corpus == nil {
		return nil
	}
	if err := c.Documents.ReplaceAll(ctx, corpus.Documents()); err != nil {
		return fmt.Errorf("failed to import reference corpus: %w", err)
	}
	return nil
}

// LoadKnowledgeBase builds a KnowledgeBase from the stored articles.
func (c *Catalog) LoadKnowledgeBase(ctx context.Context) (*knowledge.KnowledgeBase, error) {
	articles, err := c.Articles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return knowledge.NewKnowledgeBase(articles)
}

// LoadReferenceCorpus builds a ReferenceCorpus from the stored documents.
// An empty table yields knowledge.ErrNotFound, like a missing corpus file.
func (c *Catalog) LoadReferenceCorpus(ctx context.Context) (*knowledge.ReferenceCorpus, error) {
	docs, err := c.Documents.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("reference corpus in catalog: %w", knowledge.ErrNotFound)
	}
	return knowledge.NewReferenceCorpus(docs)
}
