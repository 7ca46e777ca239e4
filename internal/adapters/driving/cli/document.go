package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect ingested documents",
	Long:  `List ingested documents and view their metadata or text.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDetailsCmd = &cobra.Command{
	Use:   "details [doc-id]",
	Short: "Show document metadata and chunk count",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDetails,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDetailsCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	docs, err := a.Documents.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Area:  %s / %s\n", docs[i].LegalArea, docs[i].Type)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	doc, err := a.Documents.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:      %s\n", doc.Title)
	cmd.Printf("  Area:       %s\n", doc.LegalArea)
	cmd.Printf("  Type:       %s\n", doc.Type)
	if doc.Court != "" {
		cmd.Printf("  Court:      %s\n", doc.Court)
	}
	if doc.Year != nil {
		cmd.Printf("  Year:       %d\n", *doc.Year)
	}
	cmd.Printf("  Visibility: %s\n", doc.Visibility)
	cmd.Printf("  Stored at:  %s\n", doc.StoragePath)
	cmd.Printf("  Created:    %s\n", doc.CreatedAt.Format(timeLayout))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	content, err := a.Documents.GetContent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentDetails(cmd *cobra.Command, args []string) error {
	a, err := services(cmd)
	if err != nil {
		return err
	}

	details, err := a.Documents.GetDetails(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	embedded := "no"
	if details.Embedded {
		embedded = "yes"
	}

	cmd.Printf("Document Details: %s\n\n", details.ID)
	cmd.Printf("  Title:       %s\n", details.Title)
	cmd.Printf("  Area:        %s\n", details.LegalArea)
	cmd.Printf("  Type:        %s\n", details.Type)
	cmd.Printf("  File kind:   %s\n", details.Kind)
	cmd.Printf("  Text length: %d\n", details.TextLength)
	cmd.Printf("  Chunks:      %d\n", details.ChunkCount)
	cmd.Printf("  Embedded:    %s\n", embedded)
	cmd.Printf("  Created:     %s\n", details.CreatedAt.Format(timeLayout))
	return nil
}
