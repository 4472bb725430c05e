package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"email-advisor/internal/advisor"
	"email-advisor/internal/app"
	"email-advisor/internal/service"
)

func newProcessCmd(flags *globalFlags) *cobra.Command {
	var metadata map[string]string

	cmd := &cobra.Command{
		Use:   "process <query>",
		Short: "Draft a reply for a student email",
		Long: `Draft a reply for a student email. Known details can be passed with
--meta, for example --meta student_name=Alex --meta term="Fall 2024".
Recognised keys: ` + strings.Join(service.MetadataFields, ", ") + `.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			a, err := app.Build(ctx, cfg, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Service().Process(ctx, service.ProcessRequest{
				Query:    strings.Join(args, " "),
				Metadata: metadata,
			})
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			printDraft(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&metadata, "meta", nil, "known detail as key=value (repeatable)")
	return cmd
}

func printDraft(w io.Writer, resp *advisor.Response) {
	fmt.Fprintf(w, "Decision:   %s (confidence %.3f)\n", resp.Decision, resp.Confidence)
	if resp.ArticleID != "" {
		fmt.Fprintf(w, "Article:    %s\n", resp.ArticleID)
	}
	fmt.Fprintf(w, "Subject:    %s\n\n%s\n", resp.Subject, resp.Body)

	if len(resp.FollowUpQuestions) > 0 {
		fmt.Fprintln(w, "\nFollow-up questions:")
		for _, q := range resp.FollowUpQuestions {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
	fmt.Fprintln(w, "\nReasons:")
	for _, r := range resp.Reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}
