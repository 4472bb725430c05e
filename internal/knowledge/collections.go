package knowledge

import "fmt"

// KnowledgeBase is an ordered, id-indexed collection of articles.
// It is read-only after construction.
type KnowledgeBase struct {
	articles []Article
	byID     map[string]int
}

// NewKnowledgeBase validates that articles is non-empty and that ids are unique.
func NewKnowledgeBase(articles []Article) (*KnowledgeBase, error) {
	if len(articles) == 0 {
		return nil, fmt.Errorf("knowledge base requires at least one article: %w", ErrEmptyCollection)
	}

	byID := make(map[string]int, len(articles))
	for i, article := range articles {
		if _, seen := byID[article.ID]; seen {
			return nil, &DuplicateIDError{Collection: "article", ID: article.ID}
		}
		byID[article.ID] = i
	}

	owned := make([]Article, len(articles))
	copy(owned, articles)
	return &KnowledgeBase{articles: owned, byID: byID}, nil
}

// Len returns the number of articles.
func (kb *KnowledgeBase) Len() int {
	return len(kb.articles)
}

// Articles returns the articles in load order.
func (kb *KnowledgeBase) Articles() []Article {
	out := make([]Article, len(kb.articles))
	copy(out, kb.articles)
	return out
}

// At returns the i-th article in load order.
func (kb *KnowledgeBase) At(i int) Article {
	return kb.articles[i]
}

// Get looks an article up by id.
func (kb *KnowledgeBase) Get(id string) (Article, bool) {
	i, ok := kb.byID[id]
	if !ok {
		return Article{}, false
	}
	return kb.articles[i], true
}

// ReferenceCorpus is an ordered, id-indexed collection of reference documents.
// It is read-only after construction.
type ReferenceCorpus struct {
	documents []Document
	byID      map[string]int
}

// NewReferenceCorpus validates that documents is non-empty and that ids are unique.
func NewReferenceCorpus(documents []Document) (*ReferenceCorpus, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("reference corpus requires at least one document: %w", ErrEmptyCollection)
	}

	byID := make(map[string]int, len(documents))
	for i, doc := range documents {
		if _, seen := byID[doc.ID]; seen {
			return nil, &DuplicateIDError{Collection: "reference", ID: doc.ID}
		}
		byID[doc.ID] = i
	}

	owned := make([]Document, len(documents))
	copy(owned, documents)
	return &ReferenceCorpus{documents: owned, byID: byID}, nil
}

// Len returns the number of documents.
func (c *ReferenceCorpus) Len() int {
	return len(c.documents)
}

// Documents returns the documents in load order.
func (c *ReferenceCorpus) Documents() []Document {
	out := make([]Document, len(c.documents))
	copy(out, c.documents)
	return out
}

// At returns the i-th document in load order.
func (c *ReferenceCorpus) At(i int) Document {
	return c.documents[i]
}

// Get looks a document up by id.
func (c *ReferenceCorpus) Get(id string) (Document, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Document{}, false
	}
	return c.documents[i], true
}
