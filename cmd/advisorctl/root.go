package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"email-advisor/internal/config"
	"email-advisor/internal/contextutil"
)

// globalFlags override the environment configuration when set.
type globalFlags struct {
	knowledgeBase string
	corpus        string
	markdownDir   string
	catalog       string
	dbPath        string
	logLevel      string
	jsonOutput    bool
}

// Execute runs the root command with the process arguments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "advisorctl",
		Short: "Draft and inspect academic advising email replies",
		Long: `advisorctl runs the email advisor from the command line. It ranks
knowledge base articles for a student email, drafts replies, moves the
knowledge base and reference corpus between files and the SQLite catalog,
and mirrors reference vectors into Qdrant.

Settings come from the environment (and a .env file) exactly as for the API
server; the flags below override them.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.knowledgeBase, "kb", "", "knowledge base file (overrides KNOWLEDGE_BASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&flags.corpus, "corpus", "", "reference corpus file (overrides REFERENCE_CORPUS_PATH)")
	rootCmd.PersistentFlags().StringVar(&flags.markdownDir, "markdown-dir", "", "markdown folder to read references from (overrides REFERENCE_MARKDOWN_DIR)")
	rootCmd.PersistentFlags().StringVar(&flags.catalog, "catalog", "", "catalog source: file or sqlite (overrides CATALOG_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite catalog path (overrides DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		newRankCmd(flags),
		newProcessCmd(flags),
		newImportCmd(flags),
		newExportCmd(flags),
		newSyncVectorsCmd(flags),
		newSearchVectorsCmd(flags),
	)
	return rootCmd
}

// setup loads configuration, applies flag overrides and returns a context
// carrying a stderr logger.
func (f *globalFlags) setup(cmd *cobra.Command) (context.Context, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if f.knowledgeBase != "" {
		cfg.KnowledgeBasePath = f.knowledgeBase
	}
	if f.corpus != "" {
		cfg.ReferenceCorpusPath = f.corpus
	}
	if f.markdownDir != "" {
		cfg.ReferenceMarkdownDir = f.markdownDir
	}
	if f.catalog != "" {
		cfg.CatalogSource = f.catalog
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return contextutil.WithLogger(cmd.Context(), logger), cfg, nil
}
