package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"email-advisor/internal/knowledge"
	"email-advisor/internal/storage/mocks"
)

func TestCatalog_ImportAndLoad(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := &Catalog{Articles: NewArticleRepo(db), Documents: NewDocumentRepo(db)}

	kb, err := knowledge.NewKnowledgeBase(sampleArticles())
	require.NoError(t, err)

	// Without a corpus only the knowledge base is stored
	require.NoError(t, catalog.Import(ctx, kb, nil))
	_, err = catalog.LoadReferenceCorpus(ctx)
	assert.True(t, errors.Is(err, knowledge.ErrNotFound), "got %v", err)

	corpus, err := knowledge.NewReferenceCorpus(sampleDocuments())
	require.NoError(t, err)
	require.NoError(t, catalog.Import(ctx, kb, corpus))

	loadedKB, err := catalog.LoadKnowledgeBase(ctx)
	require.NoError(t, err)
	assert.Equal(t, kb.Articles(), loadedKB.Articles())

	loadedCorpus, err := catalog.LoadReferenceCorpus(ctx)
	require.NoError(t, err)
	assert.Equal(t, corpus.Documents(), loadedCorpus.Documents())
}

func TestCatalog_LoadKnowledgeBase_Empty(t *testing.T) {
	db := newTestDB(t)
	catalog := &Catalog{Articles: NewArticleRepo(db), Documents: NewDocumentRepo(db)}

	_, err := catalog.LoadKnowledgeBase(context.Background())
	assert.True(t, errors.Is(err, knowledge.ErrEmptyCollection), "got %v", err)
}

func TestCatalog_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	boom := errors.New("disk full")

	kb, err := knowledge.NewKnowledgeBase(sampleArticles())
	require.NoError(t, err)
	corpus, err := knowledge.NewReferenceCorpus(sampleDocuments())
	require.NoError(t, err)

	t.Run("article import fails before documents", func(t *testing.T) {
		articles := mocks.NewMockArticleStore(ctrl)
		documents := mocks.NewMockDocumentStore(ctrl)
		articles.EXPECT().ReplaceAll(gomock.Any(), kb.Articles()).Return(boom)

		err := (&Catalog{Articles: articles, Documents: documents}).Import(ctx, kb, corpus)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("document import error is wrapped", func(t *testing.T) {
		articles := mocks.NewMockArticleStore(ctrl)
		documents := mocks.NewMockDocumentStore(ctrl)
		articles.EXPECT().ReplaceAll(gomock.Any(), gomock.Any()).Return(nil)
		documents.EXPECT().ReplaceAll(gomock.Any(), corpus.Documents()).Return(boom)

		err := (&Catalog{Articles: articles, Documents: documents}).Import(ctx, kb, corpus)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "reference corpus")
	})

	t.Run("list error", func(t *testing.T) {
		articles := mocks.NewMockArticleStore(ctrl)
		articles.EXPECT().ListAll(gomock.Any()).Return(nil, boom)

		_, err := (&Catalog{Articles: articles}).LoadKnowledgeBase(ctx)
		assert.ErrorIs(t, err, boom)
	})
}
