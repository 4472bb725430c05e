// Package tfidf builds term-frequency / inverse-document-frequency models
// over a fixed set of tokenized documents.
//
// A Vectorizer is immutable once built and safe for concurrent use.
package tfidf

import (
	"math"
	"sort"
)

// Vector is a sparse term-weight vector.
type Vector map[string]float64

// Vectorizer holds the IDF table and the precomputed document vectors of a corpus.
type Vectorizer struct {
	idf     map[string]float64
	docs    []Vector
	norms   []float64
	vocab   []string
	vocabIx map[string]int
}

// NewVectorizer computes document frequencies over docs and weights every
// document term as count * idf, with idf = ln((1+N)/(1+df)) + 1.
func NewVectorizer(docs [][]string) *Vectorizer {
	n := float64(len(docs))

	df := make(map[string]int)
	counts := make([]map[string]int, len(docs))
	for i, tokens := range docs {
		tf := make(map[string]int, len(tokens))
		for _, token := range tokens {
			tf[token]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	idf := make(map[string]float64, len(df))
	vocab := make([]string, 0, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	vocabIx := make(map[string]int, len(vocab))
	for i, term := range vocab {
		vocabIx[term] = i
	}

	vectors := make([]Vector, len(docs))
	norms := make([]float64, len(docs))
	for i, tf := range counts {
		vec := make(Vector, len(tf))
		for term, count := range tf {
			vec[term] = float64(count) * idf[term]
		}
		vectors[i] = vec
		norms[i] = Norm(vec)
	}

	return &Vectorizer{
		idf:     idf,
		docs:    vectors,
		norms:   norms,
		vocab:   vocab,
		vocabIx: vocabIx,
	}
}

// Len returns the number of documents in the model.
func (v *Vectorizer) Len() int {
	return len(v.docs)
}

// DocumentVectors returns the precomputed weight vector of every document, in input order.
// Callers must not modify the returned vectors.
func (v *Vectorizer) DocumentVectors() []Vector {
	return v.docs
}

// DocumentVector returns the weight vector of document i.
func (v *Vectorizer) DocumentVector(i int) Vector {
	return v.docs[i]
}

// IDF returns the inverse document frequency of term, or 0 for terms outside the corpus.
func (v *Vectorizer) IDF(term string) float64 {
	return v.idf[term]
}

// Transform weights query tokens with the corpus IDF table. Terms the corpus
// has never seen are dropped.
func (v *Vectorizer) Transform(tokens []string) Vector {
	vec := make(Vector, len(tokens))
	for _, token := range tokens {
		idf, ok := v.idf[token]
		if !ok {
			continue
		}
		vec[token] += idf
	}
	return vec
}

// Similarities returns the cosine similarity between the query and every
// document, in input document order.
func (v *Vectorizer) Similarities(tokens []string) []float64 {
	scores := make([]float64, len(v.docs))
	query := v.Transform(tokens)
	queryNorm := Norm(query)
	if queryNorm == 0 {
		return scores
	}
	for i, doc := range v.docs {
		if v.norms[i] == 0 {
			continue
		}
		scores[i] = dot(query, doc) / (queryNorm * v.norms[i])
	}
	return scores
}

// Vocabulary returns every corpus term in sorted order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.vocab))
	copy(out, v.vocab)
	return out
}

// Dense projects vec onto the sorted vocabulary, dropping terms outside it.
func (v *Vectorizer) Dense(vec Vector) []float32 {
	out := make([]float32, len(v.vocab))
	for term, weight := range vec {
		if i, ok := v.vocabIx[term]; ok {
			out[i] = float32(weight)
		}
	}
	return out
}
