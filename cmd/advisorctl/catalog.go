package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"email-advisor/internal/app"
	"email-advisor/internal/contextutil"
	"email-advisor/internal/knowledge"
)

func newImportCmd(flags *globalFlags) *cobra.Command {
	var allowMissingCorpus bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the knowledge base and reference corpus files into the SQLite catalog",
		Long: `Import reads the knowledge base file and the reference corpus (the corpus
file, or the markdown folder when one is configured) and replaces the
contents of the SQLite catalog at --db / DB_PATH with them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			logger := contextutil.LoggerFromContext(ctx)

			kb, err := knowledge.LoadKnowledgeBase(cfg.KnowledgeBasePath)
			if err != nil {
				return err
			}
			corpus, err := app.LoadCorpus(ctx, cfg)
			switch {
			case errors.Is(err, knowledge.ErrNotFound) && allowMissingCorpus:
				logger.WarnContext(ctx, "reference corpus not found, importing articles only")
				corpus = nil
			case err != nil:
				return err
			}

			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			catalog, db, err := app.OpenCatalog(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if err := catalog.Import(ctx, kb, corpus); err != nil {
				return err
			}

			documents := 0
			if corpus != nil {
				documents = corpus.Len()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d articles and %d reference documents into %s\n",
				kb.Len(), documents, cfg.DBPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowMissingCorpus, "allow-missing-corpus", false, "import articles only when the reference corpus is missing")
	return cmd
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var outDir, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configured catalog out as JSON or YAML files",
		Long: `Export loads the knowledge base and reference corpus from the configured
catalog (files or SQLite) and writes knowledge_base.<format> and
reference_corpus.<format> into --out-dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := knowledge.Format(format)
			if f != knowledge.FormatJSON && f != knowledge.FormatYAML {
				return fmt.Errorf("--format must be %q or %q, got %q", knowledge.FormatJSON, knowledge.FormatYAML, format)
			}

			ctx, cfg, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			a, err := app.Build(ctx, cfg, app.Options{AllowMissingCorpus: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			kbPath := filepath.Join(outDir, "knowledge_base."+format)
			if err := writeFile(kbPath, func(file *os.File) error {
				return knowledge.WriteArticles(file, a.KnowledgeBase.Articles(), f)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d articles to %s\n", a.KnowledgeBase.Len(), kbPath)

			if a.Corpus == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No reference corpus configured, skipped")
				return nil
			}
			corpusPath := filepath.Join(outDir, "reference_corpus."+format)
			if err := writeFile(corpusPath, func(file *os.File) error {
				return knowledge.WriteDocuments(file, a.Corpus.Documents(), f)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d reference documents to %s\n", a.Corpus.Len(), corpusPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory to write the files into")
	cmd.Flags().StringVar(&format, "format", string(knowledge.FormatJSON), "output format: json or yaml")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

