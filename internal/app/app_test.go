package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-advisor/internal/advisor"
	"email-advisor/internal/config"
	"email-advisor/internal/knowledge"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{
		KnowledgeBasePath:   filepath.Join("..", "..", "data", "knowledge_base.json"),
		ReferenceCorpusPath: filepath.Join("..", "..", "data", "reference_corpus.json"),
		CatalogSource:       config.CatalogFile,
		AutoSendThreshold:   0.95,
		ReviewThreshold:     0.55,
		AmbiguityGap:        0.08,
		RetrievalDiversity:  0.7,
		ReferenceLimit:      3,
		ContextWindow:       48,
		Composer:            config.ComposerTemplate,
		QdrantCollection:    "reference_documents",
	}
}

func TestBuild_FileCatalog(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, testConfig(), Options{})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Retriever)
	assert.Equal(t, 5, a.KnowledgeBase.Len())
	assert.Equal(t, 6, a.Corpus.Len())

	resp, err := a.Advisor.Process(ctx, "How do I order my transcript?", nil)
	require.NoError(t, err)
	assert.Equal(t, advisor.DecisionAutoSend, resp.Decision)
	assert.Equal(t, "transcript_request", resp.ArticleID)
	assert.NotEmpty(t, resp.References)

	stats := a.Service().Stats(ctx)
	assert.Equal(t, 5, stats.Articles)
	assert.Equal(t, 6, stats.References)
	assert.True(t, stats.RetrievalEnabled)
	assert.Empty(t, stats.VectorMirror)
}

func TestBuild_MissingCorpus(t *testing.T) {
	cfg := testConfig()
	cfg.ReferenceCorpusPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := Build(context.Background(), cfg, Options{})
	assert.True(t, errors.Is(err, knowledge.ErrNotFound), "got %v", err)

	a, err := Build(context.Background(), cfg, Options{AllowMissingCorpus: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Retriever)
	stats := a.Service().Stats(context.Background())
	assert.False(t, stats.RetrievalEnabled)
	assert.Zero(t, stats.References)

	resp, err := a.Advisor.Process(context.Background(), "How do I order my transcript?", nil)
	require.NoError(t, err)
	assert.Empty(t, resp.References)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		target error
	}{
		{
			name:   "missing knowledge base",
			mutate: func(c *config.Config) { c.KnowledgeBasePath = "does-not-exist.json" },
			target: knowledge.ErrNotFound,
		},
		{
			name:   "invalid thresholds",
			mutate: func(c *config.Config) { c.AutoSendThreshold, c.ReviewThreshold = 0.5, 0.6 },
			target: advisor.ErrInvalidSettings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			_, err := Build(context.Background(), cfg, Options{AllowMissingCorpus: true})
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestBuild_SQLiteCatalog(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	kb, err := knowledge.LoadKnowledgeBase(testConfig().KnowledgeBasePath)
	require.NoError(t, err)
	corpus, err := knowledge.LoadReferenceCorpus(testConfig().ReferenceCorpusPath)
	require.NoError(t, err)

	catalog, db, err := OpenCatalog(dbPath)
	require.NoError(t, err)
	require.NoError(t, catalog.Import(ctx, kb, corpus))
	require.NoError(t, db.Close())

	cfg := testConfig()
	cfg.CatalogSource = config.CatalogSQLite
	cfg.DBPath = dbPath
	cfg.QdrantURL = "http://localhost:6333"

	a, err := Build(ctx, cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, kb.Articles(), a.KnowledgeBase.Articles())
	assert.Equal(t, corpus.Documents(), a.Corpus.Documents())
	assert.Equal(t, "reference_documents", a.Service().Stats(ctx).VectorMirror)
}

func TestLoadCorpus_MarkdownDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parking.md"),
		[]byte("# Parking permits\n\nPermits are sold at the start of each term.\n"), 0o644))

	cfg := testConfig()
	cfg.ReferenceMarkdownDir = dir

	corpus, err := LoadCorpus(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 1, corpus.Len())
	assert.Equal(t, "parking", corpus.At(0).ID)
	assert.Equal(t, "Parking permits", corpus.At(0).Title)
}

func TestNewComposer(t *testing.T) {
	cfg := testConfig()
	assert.IsType(t, &advisor.TemplateComposer{}, newComposer(cfg))

	cfg.Composer = config.ComposerLLM
	cfg.LLMBaseURL = "http://localhost:8080"
	assert.IsType(t, &advisor.LLMComposer{}, newComposer(cfg))
}
