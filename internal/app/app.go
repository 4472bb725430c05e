// Package app builds the advisor graph from configuration. It is shared by
// the HTTP server and the command line tool.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"email-advisor/internal/advisor"
	"email-advisor/internal/config"
	"email-advisor/internal/contextutil"
	"email-advisor/internal/indexer"
	"email-advisor/internal/knowledge"
	"email-advisor/internal/llm"
	"email-advisor/internal/metadata"
	"email-advisor/internal/metrics"
	"email-advisor/internal/rag"
	"email-advisor/internal/service"
	"email-advisor/internal/storage"
)

const llmSystemPrompt = "You are a university academic advisor. Answer in a friendly, concise tone and never invent policies."

// Options tunes Build.
type Options struct {
	// AllowMissingCorpus starts without retrieval when the reference corpus
	// is missing instead of failing.
	AllowMissingCorpus bool
}

// App is the assembled advisor and the data it was built from.
type App struct {
	Config        *config.Config
	KnowledgeBase *knowledge.KnowledgeBase
	// Corpus and Retriever are nil when retrieval is disabled.
	Corpus    *knowledge.ReferenceCorpus
	Retriever *rag.Retriever
	Advisor   *advisor.Advisor
	Metrics   *metrics.Metrics

	db *sql.DB
}

// Build loads the catalog named by cfg and wires the advisor.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := contextutil.LoggerFromContext(ctx)
	a := &App{Config: cfg, Metrics: metrics.New()}

	kb, corpus, err := a.loadCatalog(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	if corpus == nil && !opts.AllowMissingCorpus {
		a.Close()
		return nil, fmt.Errorf("reference corpus: %w", knowledge.ErrNotFound)
	}
	a.KnowledgeBase, a.Corpus = kb, corpus

	settings, err := advisor.NewConfidenceSettings(cfg.AutoSendThreshold, cfg.ReviewThreshold, cfg.AmbiguityGap)
	if err != nil {
		a.Close()
		return nil, err
	}

	advisorOpts := []advisor.Option{
		advisor.WithSettings(settings),
		advisor.WithExtractor(metadata.NewExtractor(metadata.WithContextWindow(cfg.ContextWindow))),
		advisor.WithReferenceLimit(cfg.ReferenceLimit),
		advisor.WithComposer(newComposer(cfg)),
	}
	if corpus != nil {
		a.Retriever, err = rag.NewRetriever(corpus, rag.WithDiversity(cfg.RetrievalDiversity))
		if err != nil {
			a.Close()
			return nil, err
		}
		advisorOpts = append(advisorOpts, advisor.WithRetriever(a.Retriever))
	} else {
		logger.WarnContext(ctx, "reference corpus not found, retrieval disabled")
	}

	a.Advisor, err = advisor.New(kb, advisorOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "advisor ready",
		"catalog", cfg.CatalogSource,
		"articles", kb.Len(),
		"references", a.referenceCount(),
		"composer", cfg.Composer,
	)
	return a, nil
}

// Service wraps the advisor with validation and metrics.
func (a *App) Service() service.AdvisorService {
	stats := service.Stats{
		Articles:         a.KnowledgeBase.Len(),
		References:       a.referenceCount(),
		RetrievalEnabled: a.Retriever != nil,
	}
	if a.Config.VectorMirrorEnabled() {
		stats.VectorMirror = a.Config.QdrantCollection
	}
	return service.NewAdvisorService(a.Advisor, a.Metrics, stats)
}

// Close releases the catalog database, if one was opened.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) referenceCount() int {
	if a.Corpus == nil {
		return 0
	}
	return a.Corpus.Len()
}

// loadCatalog returns a nil corpus, without error, when the corpus is missing.
func (a *App) loadCatalog(ctx context.Context) (*knowledge.KnowledgeBase, *knowledge.ReferenceCorpus, error) {
	cfg := a.Config

	var kb *knowledge.KnowledgeBase
	var corpus *knowledge.ReferenceCorpus
	var err error

	switch cfg.CatalogSource {
	case config.CatalogSQLite:
		catalog, openErr := a.openCatalog()
		if openErr != nil {
			return nil, nil, openErr
		}
		if kb, err = catalog.LoadKnowledgeBase(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to load knowledge base from %s: %w", cfg.DBPath, err)
		}
		corpus, err = catalog.LoadReferenceCorpus(ctx)
	default:
		if kb, err = knowledge.LoadKnowledgeBase(cfg.KnowledgeBasePath); err != nil {
			return nil, nil, err
		}
		corpus, err = LoadCorpus(ctx, cfg)
	}

	if errors.Is(err, knowledge.ErrNotFound) {
		return kb, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return kb, corpus, nil
}

func (a *App) openCatalog() (*storage.Catalog, error) {
	catalog, db, err := OpenCatalog(a.Config.DBPath)
	if err != nil {
		return nil, err
	}
	a.db = db
	return catalog, nil
}

// OpenCatalog opens and migrates the SQLite catalog at path. The caller closes db.
func OpenCatalog(path string) (*storage.Catalog, *sql.DB, error) {
	db, err := storage.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &storage.Catalog{
		Articles:  storage.NewArticleRepo(db),
		Documents: storage.NewDocumentRepo(db),
	}, db, nil
}

// LoadCorpus reads the file-based reference corpus: the markdown directory
// when one is configured, the corpus file otherwise.
func LoadCorpus(ctx context.Context, cfg *config.Config) (*knowledge.ReferenceCorpus, error) {
	if cfg.ReferenceMarkdownDir == "" {
		return knowledge.LoadReferenceCorpus(cfg.ReferenceCorpusPath)
	}
	docs, err := indexer.NewMarkdownImporter().ImportDir(ctx, cfg.ReferenceMarkdownDir)
	if err != nil {
		return nil, err
	}
	return knowledge.NewReferenceCorpus(docs)
}

func newComposer(cfg *config.Config) advisor.Composer {
	if cfg.Composer == config.ComposerLLM {
		client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, llm.WithSystemPrompt(llmSystemPrompt))
		return advisor.NewLLMComposer(client)
	}
	return advisor.NewTemplateComposer()
}
