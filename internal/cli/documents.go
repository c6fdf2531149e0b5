package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/pkg/model"
)

func newDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "List and manage documents",
	}
	cmd.AddCommand(
		newDocumentsListCmd(),
		newDocumentsUploadCmd(),
		newDocumentsUpdateCmd(),
		newDocumentsDeleteCmd(),
	)
	return cmd
}

func newDocumentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), ""); err != nil {
				return err
			}
			docs, err := client.Primary.ListDocuments(cmd.Context())
			if err != nil {
				return apiError("list documents", err)
			}

			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(out, "No documents found.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-30s  %-10s  %-15s  %s\n", "ID", "TITLE", "SIZE", "UPLOADED BY", "CREATED")
			fmt.Fprintf(out, "%-36s  %-30s  %-10s  %-15s  %s\n", "--", "-----", "----", "-----------", "-------")
			for _, d := range docs {
				fmt.Fprintf(out, "%-36s  %-30s  %-10s  %-15s  %s\n",
					d.ID, truncate(d.Title, 30), formatSize(d.FileSize), d.UploadedBy.Username, humanize.Time(d.CreatedAt))
			}
			return nil
		},
	}
}

func newDocumentsUploadCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document (editor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), model.RoleEditor); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			name := filepath.Base(args[0])
			if title == "" {
				title = strings.TrimSuffix(name, filepath.Ext(name))
			}
			doc, err := client.Primary.UploadDocument(cmd.Context(), apiclient.Upload{
				Title:       title,
				Description: description,
				Filename:    name,
				Content:     f,
			})
			if err != nil {
				return apiError("upload document", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s)\n", doc.Title, doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Document title (defaults to the file name)")
	cmd.Flags().StringVar(&description, "description", "", "Document description")
	return cmd
}

func newDocumentsUpdateCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a document's title or description (editor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && description == "" {
				return fmt.Errorf("nothing to update: set --title or --description")
			}
			if _, err := client.requireAuth(cmd.Context(), model.RoleEditor); err != nil {
				return err
			}
			doc, err := client.Primary.UpdateDocument(cmd.Context(), args[0], model.UpdateDocumentRequest{
				Title:       title,
				Description: description,
			})
			if err != nil {
				return apiError("update document", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", doc.Title, doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newDocumentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document (editor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), model.RoleEditor); err != nil {
				return err
			}
			if err := client.Primary.DeleteDocument(cmd.Context(), args[0]); err != nil {
				return apiError("delete document", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// truncate shortens s to n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatSize renders a byte count; unknown or negative sizes show as "-".
func formatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}
