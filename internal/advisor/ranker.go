package advisor

import (
	"fmt"
	"sort"

	"email-advisor/internal/knowledge"
	"email-advisor/internal/textproc"
	"email-advisor/internal/tfidf"
)

// Ranker scores knowledge base articles against a query.
// Each utterance is indexed as its own document and an article scores the best
// cosine among its documents.
type Ranker struct {
	kb         *knowledge.KnowledgeBase
	vectorizer *tfidf.Vectorizer
	owner      []int // document index -> article index
}

// NewRanker indexes the utterances of every article in kb.
func NewRanker(kb *knowledge.KnowledgeBase) (*Ranker, error) {
	if kb == nil || kb.Len() == 0 {
		return nil, fmt.Errorf("ranker requires at least one article: %w", knowledge.ErrEmptyCollection)
	}

	var (
		docs  [][]string
		owner []int
	)
	for i, article := range kb.Articles() {
		if len(article.Utterances) == 0 {
			docs = append(docs, textproc.Tokenize(article.IndexText()))
			owner = append(owner, i)
			continue
		}
		for _, utterance := range article.Utterances {
			docs = append(docs, textproc.Tokenize(utterance))
			owner = append(owner, i)
		}
	}

	return &Ranker{kb: kb, vectorizer: tfidf.NewVectorizer(docs), owner: owner}, nil
}

// Rank returns every article with positive confidence, best first.
// Ties keep knowledge base order.
func (r *Ranker) Rank(query string) []RankedMatch {
	tokens := textproc.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	best := make([]float64, r.kb.Len())
	for doc, score := range r.vectorizer.Similarities(tokens) {
		if a := r.owner[doc]; score > best[a] {
			best[a] = score
		}
	}

	var matches []RankedMatch
	for i, confidence := range best {
		if confidence <= 0 {
			continue
		}
		article := r.kb.At(i)
		matches = append(matches, RankedMatch{
			ArticleID:  article.ID,
			Subject:    article.Subject,
			Confidence: confidence,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}
