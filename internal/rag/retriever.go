// Package rag selects supporting reference documents for an advisor reply
// using TF-IDF relevance and maximal marginal relevance (MMR) diversification.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"email-advisor/internal/contextutil"
	"email-advisor/internal/knowledge"
	"email-advisor/internal/textproc"
	"email-advisor/internal/tfidf"
)

// Retriever scores reference documents against a query and picks a diverse top-k.
// It is read-only after construction and safe for concurrent use.
type Retriever struct {
	docs       []knowledge.Document
	vectorizer *tfidf.Vectorizer
	diversity  float64
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithDiversity sets the MMR relevance weight. 1 disables diversification,
// 0 ranks purely by novelty after the first pick.
func WithDiversity(d float64) Option {
	return func(r *Retriever) {
		r.diversity = d
	}
}

// NewRetriever indexes every document of the corpus.
func NewRetriever(corpus *knowledge.ReferenceCorpus, opts ...Option) (*Retriever, error) {
	if corpus == nil || corpus.Len() == 0 {
		return nil, fmt.Errorf("retriever requires at least one reference document: %w", knowledge.ErrEmptyCollection)
	}

	r := &Retriever{diversity: DefaultDiversity}
	for _, opt := range opts {
		opt(r)
	}
	if math.IsNaN(r.diversity) || r.diversity < 0 || r.diversity > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDiversity, r.diversity)
	}

	r.docs = corpus.Documents()
	tokenized := make([][]string, len(r.docs))
	for i, doc := range r.docs {
		tokenized[i] = textproc.Tokenize(doc.IndexText())
	}
	r.vectorizer = tfidf.NewVectorizer(tokenized)
	return r, nil
}

// Diversity returns the configured MMR relevance weight.
func (r *Retriever) Diversity() float64 {
	return r.diversity
}

// Documents returns the indexed documents in corpus order.
func (r *Retriever) Documents() []knowledge.Document {
	out := make([]knowledge.Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// Vectorizer exposes the fitted TF-IDF model over the corpus.
func (r *Retriever) Vectorizer() *tfidf.Vectorizer {
	return r.vectorizer
}

// Retrieve returns up to limit references for query. When article is non-nil its
// subject and categories are added to the query. An empty result is returned for
// a non-positive limit or a query without indexable tokens.
func (r *Retriever) Retrieve(ctx context.Context, query string, article *knowledge.Article, limit int) []Reference {
	logger := contextutil.LoggerFromContext(ctx)

	if limit <= 0 {
		return nil
	}

	fragments := []string{query}
	if article != nil {
		fragments = append(fragments, article.Subject)
		fragments = append(fragments, article.Categories...)
	}
	queryTokens := textproc.Tokenize(strings.Join(fragments, " "))
	if len(queryTokens) == 0 {
		logger.DebugContext(ctx, "retrieval skipped, query has no indexable tokens")
		return nil
	}

	scores := r.vectorizer.Similarities(queryTokens)
	candidates := make([]int, 0, len(scores))
	for i, score := range scores {
		if score > 0 {
			candidates = append(candidates, i)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return scores[candidates[a]] > scores[candidates[b]]
	})

	selected := r.selectMMR(candidates, scores, limit)

	querySet := make(map[string]struct{}, len(queryTokens))
	for _, tok := range queryTokens {
		querySet[tok] = struct{}{}
	}

	refs := make([]Reference, 0, len(selected))
	for _, idx := range selected {
		doc := r.docs[idx]
		refs = append(refs, Reference{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Snippet:    BuildSnippet(doc.Content, querySet, MaxSnippetLength),
			URL:        doc.URL,
			Score:      scores[idx],
		})
	}

	logger.DebugContext(ctx, "references retrieved",
		"candidates", len(candidates),
		"selected", len(refs),
		"diversity", r.diversity,
	)
	return refs
}

// selectMMR greedily picks candidates maximising
// diversity*relevance - (1-diversity)*maxRedundancy.
// Ties keep the earlier candidate.
func (r *Retriever) selectMMR(candidates []int, scores []float64, limit int) []int {
	remaining := append([]int(nil), candidates...)
	selected := make([]int, 0, limit)

	for len(remaining) > 0 && len(selected) < limit {
		bestPos := -1
		bestScore := math.Inf(-1)
		for pos, idx := range remaining {
			mmr := scores[idx]
			if len(selected) > 0 && r.diversity != 1 {
				mmr = r.diversity*scores[idx] - (1-r.diversity)*r.maxRedundancy(idx, selected)
			}
			if mmr > bestScore {
				bestScore = mmr
				bestPos = pos
			}
		}
		if bestPos < 0 {
			break
		}
		selected = append(selected, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}
	return selected
}

func (r *Retriever) maxRedundancy(idx int, selected []int) float64 {
	vec := r.vectorizer.DocumentVector(idx)
	best := math.Inf(-1)
	for _, sel := range selected {
		if sim := tfidf.Cosine(vec, r.vectorizer.DocumentVector(sel)); sim > best {
			best = sim
		}
	}
	return best
}
