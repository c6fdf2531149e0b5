package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/pkg/model"
)

func newIngestionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingestion",
		Short: "Track and control document ingestion",
	}
	cmd.AddCommand(
		newIngestionListCmd(),
		newIngestionTriggerCmd(),
		newIngestionCancelCmd(),
	)
	return cmd
}

func newIngestionListCmd() *cobra.Command {
	var documentID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ingestion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), ""); err != nil {
				return err
			}

			var (
				runs []model.Ingestion
				err  error
			)
			if documentID != "" {
				runs, err = client.Primary.ListIngestionsByDocument(cmd.Context(), documentID)
			} else {
				runs, err = client.Primary.ListIngestions(cmd.Context())
			}
			if err != nil {
				return apiError("list ingestions", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No ingestion runs found.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-30s  %-11s  %s\n", "ID", "DOCUMENT", "STATUS", "STARTED")
			fmt.Fprintf(out, "%-36s  %-30s  %-11s  %s\n", "--", "--------", "------", "-------")
			for _, in := range runs {
				doc := in.Document.Title
				if doc == "" {
					doc = in.DocumentID
				}
				fmt.Fprintf(out, "%-36s  %-30s  %-11s  %s\n", in.ID, truncate(doc, 30), in.Status, humanize.Time(in.StartedAt))
				if in.ErrorMessage != nil && *in.ErrorMessage != "" {
					fmt.Fprintf(out, "    error: %s\n", *in.ErrorMessage)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&documentID, "document", "", "Only show runs for this document")
	return cmd
}

func newIngestionTriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger <document-id>",
		Short: "Start ingesting a document (editor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), model.RoleEditor); err != nil {
				return err
			}
			in, err := client.Primary.TriggerIngestion(cmd.Context(), args[0])
			if err != nil {
				if apiclient.IsForbidden(err) {
					return fmt.Errorf("you do not have permission to trigger ingestion")
				}
				return apiError("trigger ingestion", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingestion %s started (%s)\n", in.ID, in.Status)
			return nil
		},
	}
}

func newIngestionCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a running ingestion (editor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), model.RoleEditor); err != nil {
				return err
			}
			if err := client.Primary.CancelIngestion(cmd.Context(), args[0]); err != nil {
				return apiError("cancel ingestion", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingestion %s cancelled\n", args[0])
			return nil
		},
	}
}
