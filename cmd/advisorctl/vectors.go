package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"email-advisor/internal/app"
	"email-advisor/internal/config"
	"email-advisor/internal/indexer"
	"email-advisor/internal/vectorstore"
)

// vectorFlags are shared by the Qdrant commands.
type vectorFlags struct {
	qdrantURL  string
	collection string
}

func (v *vectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.qdrantURL, "qdrant-url", "", "Qdrant URL (overrides QDRANT_URL)")
	cmd.Flags().StringVar(&v.collection, "collection", "", "Qdrant collection (overrides QDRANT_COLLECTION)")
}

func (v *vectorFlags) apply(cfg *config.Config) error {
	if v.qdrantURL != "" {
		cfg.QdrantURL = v.qdrantURL
	}
	if v.collection != "" {
		cfg.QdrantCollection = v.collection
	}
	if !cfg.VectorMirrorEnabled() {
		return errors.New("QDRANT_URL is not set; pass --qdrant-url or set it in the environment")
	}
	return nil
}

func newSyncVectorsCmd(flags *globalFlags) *cobra.Command {
	vf := &vectorFlags{}

	cmd := &cobra.Command{
		Use:   "sync-vectors",
		Short: "Mirror the reference corpus TF-IDF vectors into Qdrant",
		Long: `sync-vectors recreates the Qdrant collection with the current vocabulary
size and upserts one point per reference document. Run it again after the
corpus changes; point IDs are stable per document id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			if err := vf.apply(cfg); err != nil {
				return err
			}

			a, err := app.Build(ctx, cfg, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			stats, err := indexer.NewVectorSync(store, cfg.QdrantCollection).Sync(ctx, a.Retriever)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Synced %d of %d documents into %s (vector size %d, skipped %d, index %s)\n",
				stats.Points, stats.Documents, cfg.QdrantCollection, stats.VectorSize, stats.Skipped, stats.IndexVersion)
			return nil
		},
	}

	vf.register(cmd)
	return cmd
}

func newSearchVectorsCmd(flags *globalFlags) *cobra.Command {
	vf := &vectorFlags{}
	var k int
	var tag string

	cmd := &cobra.Command{
		Use:   "search-vectors <query>",
		Short: "Search the Qdrant mirror of the reference corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			if err := vf.apply(cfg); err != nil {
				return err
			}

			a, err := app.Build(ctx, cfg, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			refs, err := indexer.NewVectorSync(store, cfg.QdrantCollection).
				Search(ctx, a.Retriever, strings.Join(args, " "), k, tag)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return printJSON(cmd.OutOrStdout(), refs)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DOCUMENT\tSCORE\tTITLE")
			for _, ref := range refs {
				fmt.Fprintf(w, "%s\t%.3f\t%s\n", ref.DocumentID, ref.Score, ref.Title)
			}
			return w.Flush()
		},
	}

	vf.register(cmd)
	cmd.Flags().IntVarP(&k, "limit", "n", 5, "number of documents to return")
	cmd.Flags().StringVar(&tag, "tag", "", "only return documents carrying this tag")
	return cmd
}
