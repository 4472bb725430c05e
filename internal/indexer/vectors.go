package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"email-advisor/internal/contextutil"
	"email-advisor/internal/rag"
	"email-advisor/internal/textproc"
	"email-advisor/internal/tfidf"
	"email-advisor/internal/vectorstore"
)

// upsertBatchSize bounds the number of points per upsert request.
const upsertBatchSize = 64

// pointNamespace makes point ids a stable function of the document id.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("email-advisor/reference-documents"))

// SyncStats describes one mirror run.
type SyncStats struct {
	Documents  int `json:"documents"`
	Points     int `json:"points"`
	VectorSize int `json:"vector_size"`
	// Skipped counts documents with no indexable terms (zero vectors).
	Skipped int `json:"skipped"`
	// IndexVersion identifies the vocabulary the vectors were projected onto.
	IndexVersion string `json:"index_version"`
}

// VectorSync mirrors the retriever's TF-IDF document vectors into a vector store.
type VectorSync struct {
	store      vectorstore.VectorStore
	collection string
}

// NewVectorSync creates a new VectorSync.
func NewVectorSync(store vectorstore.VectorStore, collection string) *VectorSync {
	return &VectorSync{store: store, collection: collection}
}

// PointID returns the vector store id of a reference document.
func PointID(documentID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(documentID)).String()
}

// Sync recreates the collection sized to the current vocabulary and upserts
// one point per document.
func (s *VectorSync) Sync(ctx context.Context, retriever *rag.Retriever) (*SyncStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	vectorizer := retriever.Vectorizer()
	docs := retriever.Documents()
	vocab := vectorizer.Vocabulary()

	stats := &SyncStats{
		Documents:    len(docs),
		VectorSize:   len(vocab),
		IndexVersion: indexVersion(vocab),
	}

	if err := s.store.ResetCollection(ctx, s.collection, len(vocab)); err != nil {
		return nil, fmt.Errorf("failed to reset collection: %w", err)
	}

	points := make([]vectorstore.Point, 0, len(docs))
	for i, doc := range docs {
		vec := vectorizer.DocumentVector(i)
		if tfidf.Norm(vec) == 0 {
			logger.WarnContext(ctx, "skipping document without indexable terms", "document_id", doc.ID)
			stats.Skipped++
			continue
		}

		tags := make([]any, len(doc.Tags))
		for j, tag := range doc.Tags {
			tags[j] = tag
		}
		points = append(points, vectorstore.Point{
			ID:  PointID(doc.ID),
			Vec: vectorizer.Dense(vec),
			Payload: map[string]any{
				vectorstore.PayloadDocumentID: doc.ID,
				vectorstore.PayloadTitle:      doc.Title,
				vectorstore.PayloadURL:        doc.URL,
				vectorstore.PayloadTags:       tags,
			},
		})
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))
		if err := s.store.Upsert(ctx, s.collection, points[start:end]); err != nil {
			return nil, fmt.Errorf("failed to upsert points %d-%d: %w", start, end, err)
		}
		stats.Points += end - start
	}

	logger.InfoContext(ctx, "reference vectors mirrored",
		"collection", s.collection,
		"points", stats.Points,
		"vector_size", stats.VectorSize,
		"index_version", stats.IndexVersion,
	)
	return stats, nil
}

// Search queries the mirror with the TF-IDF vector of query and maps hits back
// to references with snippets from the retriever's documents. A non-empty tag
// restricts the search to documents with that tag.
func (s *VectorSync) Search(ctx context.Context, retriever *rag.Retriever, query string, k int, tag string) ([]rag.Reference, error) {
	tokens := textproc.Tokenize(query)
	if len(tokens) == 0 || k <= 0 {
		return nil, nil
	}

	vectorizer := retriever.Vectorizer()
	queryVec := vectorizer.Transform(tokens)
	if tfidf.Norm(queryVec) == 0 {
		return nil, nil
	}

	hits, err := s.store.Search(ctx, s.collection, vectorizer.Dense(queryVec), k, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector mirror: %w", err)
	}

	content := make(map[string]string)
	for _, doc := range retriever.Documents() {
		content[doc.ID] = doc.Content
	}
	queryTokens := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		queryTokens[tok] = struct{}{}
	}

	refs := make([]rag.Reference, 0, len(hits))
	for _, hit := range hits {
		id, _ := hit.Payload[vectorstore.PayloadDocumentID].(string)
		body, ok := content[id]
		if !ok {
			// Stale point from an older corpus
			continue
		}
		title, _ := hit.Payload[vectorstore.PayloadTitle].(string)
		url, _ := hit.Payload[vectorstore.PayloadURL].(string)
		refs = append(refs, rag.Reference{
			DocumentID: id,
			Title:      title,
			Snippet:    rag.BuildSnippet(body, queryTokens, rag.MaxSnippetLength),
			URL:        url,
			Score:      float64(hit.Score),
		})
	}
	return refs, nil
}

// indexVersion hashes the vocabulary; 16 hex chars = 64 bits.
func indexVersion(vocab []string) string {
	hash := sha256.Sum256([]byte(strings.Join(vocab, "\n")))
	return hex.EncodeToString(hash[:])[:16]
}
