package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, view, or remove indexed campaign documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [campaign]",
	Short: "List documents, optionally for one campaign",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document and its analysis",
	Long:  `Removes a document; its analysis record and chunks are removed with it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if storeService == nil {
		return errors.New("store not configured")
	}

	campaign := ""
	if len(args) > 0 {
		campaign = args[0]
	}

	docs, err := storeService.ListDocuments(context.Background(), campaign)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Path: %s\n", docs[i].Path)
		cmd.Printf("    Campaign: %s\n", docs[i].CampaignName)
		if docs[i].ClientName != "" {
			cmd.Printf("    Client: %s\n", docs[i].ClientName)
		}
		cmd.Printf("    Kind: %s\n", docs[i].FileKind)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if storeService == nil {
		return errors.New("store not configured")
	}

	doc, err := storeService.GetDocument(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("ID:        %s\n", doc.ID)
	cmd.Printf("Filename:  %s\n", doc.Filename)
	cmd.Printf("Path:      %s\n", doc.Path)
	cmd.Printf("Campaign:  %s\n", doc.CampaignName)
	if doc.ClientName != "" {
		cmd.Printf("Client:    %s\n", doc.ClientName)
	}
	cmd.Printf("Kind:      %s\n", doc.FileKind)
	cmd.Printf("MIME:      %s\n", doc.MIMEType)
	cmd.Printf("Size:      %d bytes\n", doc.Size)
	cmd.Printf("Processed: %s\n", doc.ProcessedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if storeService == nil {
		return errors.New("store not configured")
	}

	if err := storeService.DeleteDocument(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}
