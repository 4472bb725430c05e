package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"email-advisor/internal/app"
	"email-advisor/internal/service"
)

func newRankCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rank <query>",
		Short: "Rank knowledge base articles for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			// Ranking never touches the reference corpus.
			a, err := app.Build(ctx, cfg, app.Options{AllowMissingCorpus: true})
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Service().Rank(ctx, service.RankRequest{Query: strings.Join(args, " "), Limit: limit})
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return printJSON(cmd.OutOrStdout(), resp.Matches)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ARTICLE\tCONFIDENCE\tSUBJECT")
			for _, m := range resp.Matches {
				fmt.Fprintf(w, "%s\t%.3f\t%s\n", m.ArticleID, m.Confidence, m.Subject)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum number of matches (0 for all)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
