package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/jarvis/pkg/model"
)

func newAskCmd() *cobra.Command {
	var docs []string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the selected documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), ""); err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("question cannot be empty")
			}

			ans, err := client.QA.Ask(cmd.Context(), model.Question{Text: text, DocumentIDs: docs})
			if err != nil {
				return apiError("ask question", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ans.Text)
			if len(ans.Sources) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Sources:")
				for _, s := range ans.Sources {
					fmt.Fprintf(out, "  - %s (%.0f%%)\n", s.DocumentTitle, s.RelevanceScore*100)
					if s.Excerpt != "" {
						fmt.Fprintf(out, "    %q\n", truncate(s.Excerpt, 120))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&docs, "doc", nil, "Restrict the question to these document IDs (default: current selection)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your previous questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := client.requireAuth(cmd.Context(), "")
			if err != nil {
				return err
			}
			sessions, err := client.QA.History(cmd.Context(), user.ID)
			if err != nil {
				return apiError("load history", err)
			}

			var entries []model.QAEntry
			for _, s := range sessions {
				entries = append(entries, s.Questions...)
			}
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].Timestamp.After(entries[j].Timestamp)
			})
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No questions yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "[%s] Q: %s\n", humanize.Time(e.Timestamp), e.Text)
				fmt.Fprintf(out, "    A: %s\n", truncate(e.Answer.Text, 200))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of questions to show (0 for all)")
	return cmd
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select [document-id...]",
		Short: "Show or set the documents questions are asked about",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), ""); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				if err := client.QA.SelectDocuments(cmd.Context(), args); err != nil {
					return apiError("select documents", err)
				}
				fmt.Fprintf(out, "Selected %d document(s)\n", len(args))
				return nil
			}

			ids, err := client.QA.SelectedDocuments(cmd.Context())
			if err != nil {
				return apiError("load selection", err)
			}
			if len(ids) == 0 {
				fmt.Fprintln(out, "No documents selected; questions use all documents.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}
