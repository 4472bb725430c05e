package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"email-advisor/internal/knowledge"
	"email-advisor/internal/rag"
	"email-advisor/internal/vectorstore"
	"email-advisor/internal/vectorstore/mocks"
)

func testRetriever(t *testing.T) *rag.Retriever {
	t.Helper()
	corpus, err := knowledge.NewReferenceCorpus([]knowledge.Document{
		{ID: "transcripts", Title: "Ordering transcripts", Content: "Official transcripts are ordered online.", URL: "https://example.edu/t", Tags: []string{"registrar"}},
		{ID: "withdrawal", Title: "Withdrawal policy", Content: "Withdraw before the deadline to avoid a failing grade."},
		{ID: "empty", Title: "About", Content: "The and of."},
	})
	require.NoError(t, err)
	r, err := rag.NewRetriever(corpus)
	require.NoError(t, err)
	return r
}

func TestPointID(t *testing.T) {
	assert.Equal(t, PointID("transcripts"), PointID("transcripts"), "ids must be stable")
	assert.NotEqual(t, PointID("transcripts"), PointID("withdrawal"))
}

func TestVectorSync_Sync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	retriever := testRetriever(t)
	vocabSize := len(retriever.Vectorizer().Vocabulary())
	store := mocks.NewMockVectorStore(ctrl)

	var upserted []vectorstore.Point
	gomock.InOrder(
		store.EXPECT().ResetCollection(gomock.Any(), "refs", vocabSize).Return(nil),
		store.EXPECT().Upsert(gomock.Any(), "refs", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
				upserted = append(upserted, points...)
				return nil
			}),
	)

	stats, err := NewVectorSync(store, "refs").Sync(context.Background(), retriever)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 2, stats.Points)
	assert.Equal(t, 1, stats.Skipped, "stopword-only document has a zero vector")
	assert.Equal(t, vocabSize, stats.VectorSize)
	assert.Len(t, stats.IndexVersion, 16)

	require.Len(t, upserted, 2)
	assert.Equal(t, PointID("transcripts"), upserted[0].ID)
	assert.Len(t, upserted[0].Vec, vocabSize)
	assert.Equal(t, "transcripts", upserted[0].Payload[vectorstore.PayloadDocumentID])
	assert.Equal(t, []any{"registrar"}, upserted[0].Payload[vectorstore.PayloadTags])
	assert.Equal(t, []any{}, upserted[1].Payload[vectorstore.PayloadTags])
}

func TestVectorSync_Sync_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("qdrant unavailable")

	t.Run("reset fails", func(t *testing.T) {
		store := mocks.NewMockVectorStore(ctrl)
		store.EXPECT().ResetCollection(gomock.Any(), "refs", gomock.Any()).Return(boom)

		_, err := NewVectorSync(store, "refs").Sync(context.Background(), testRetriever(t))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("upsert fails", func(t *testing.T) {
		store := mocks.NewMockVectorStore(ctrl)
		store.EXPECT().ResetCollection(gomock.Any(), "refs", gomock.Any()).Return(nil)
		store.EXPECT().Upsert(gomock.Any(), "refs", gomock.Any()).Return(boom)

		_, err := NewVectorSync(store, "refs").Sync(context.Background(), testRetriever(t))
		assert.ErrorIs(t, err, boom)
	})
}

func TestVectorSync_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	retriever := testRetriever(t)
	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		Search(gomock.Any(), "refs", gomock.Any(), 2, "registrar").
		DoAndReturn(func(_ context.Context, _ string, query []float32, _ int, _ string) ([]vectorstore.SearchResult, error) {
			assert.Len(t, query, len(retriever.Vectorizer().Vocabulary()))
			return []vectorstore.SearchResult{
				{PointID: PointID("transcripts"), Score: 0.9, Payload: map[string]any{
					vectorstore.PayloadDocumentID: "transcripts",
					vectorstore.PayloadTitle:      "Ordering transcripts",
					vectorstore.PayloadURL:        "https://example.edu/t",
				}},
				{PointID: PointID("gone"), Score: 0.5, Payload: map[string]any{
					vectorstore.PayloadDocumentID: "gone",
				}},
			}, nil
		})

	refs, err := NewVectorSync(store, "refs").Search(context.Background(), retriever, "order a transcript", 2, "registrar")
	require.NoError(t, err)
	require.Len(t, refs, 1, "points for unknown documents are dropped")
	assert.Equal(t, "transcripts", refs[0].DocumentID)
	assert.Equal(t, "https://example.edu/t", refs[0].URL)
	assert.Equal(t, "Official transcripts are ordered online.", refs[0].Snippet)
	assert.InDelta(t, 0.9, refs[0].Score, 1e-6)

	// Queries without indexable terms never reach the store
	refs, err = NewVectorSync(store, "refs").Search(context.Background(), retriever, "the and of", 2, "")
	require.NoError(t, err)
	assert.Empty(t, refs)
}
