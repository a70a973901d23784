package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dms-app/dms-backend/client"
	"github.com/spf13/cobra"
)

var (
	listSearch string
	listStatus string
	listPage   int
	listSize   int

	uploadTitle       string
	uploadDescription string
	uploadType        string
	uploadFile        string

	replaceFile string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Work with documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := client.NewDocuments(newClient())
		page, err := docs.List(cmd.Context(), client.ListOptions{
			Search: listSearch,
			Status: listStatus,
			Page:   listPage,
			Size:   listSize,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(page)
		}
		fmt.Printf("%d documents\n", page.Count)
		for _, d := range page.Results {
			fmt.Printf("  %s  v%d  %-16s  %s (%s)\n",
				d.ID, d.Version, client.StatusLabel[d.Status], d.Title, d.FileName)
		}
		return nil
	},
}

var docsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := client.NewDocuments(newClient()).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(doc)
		}
		fmt.Printf("%s (v%d, %s)\n", doc.Title, doc.Version, client.StatusLabel[doc.Status])
		fmt.Printf("  type: %s  file: %s (%d bytes)\n", doc.DocumentType, doc.FileName, doc.FileSize)
		fmt.Printf("  by %s at %s\n", doc.CreatedBy.Username, doc.CreatedAt.Format("2006-01-02 15:04"))
		if doc.Description != "" {
			fmt.Printf("  %s\n", doc.Description)
		}
		return nil
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a new document",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(uploadFile)
		if err != nil {
			return err
		}
		defer f.Close()
		doc, err := client.NewDocuments(newClient()).Upload(cmd.Context(), client.UploadInput{
			Title:        uploadTitle,
			Description:  uploadDescription,
			DocumentType: uploadType,
			FileName:     filepath.Base(uploadFile),
			File:         f,
			Progress: func(pct int) {
				fmt.Fprintf(os.Stderr, "\ruploading... %3d%%", pct)
				if pct == 100 {
					fmt.Fprintln(os.Stderr)
				}
			},
		})
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s (id %s)\n", doc.Title, doc.ID)
		return nil
	},
}

var docsRequestDeleteCmd = &cobra.Command{
	Use:   "request-delete <id>",
	Short: "Request deletion of a document (needs admin approval)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.NewDocuments(newClient()).RequestDelete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Delete request submitted")
		return nil
	},
}

var docsRequestReplaceCmd = &cobra.Command{
	Use:   "request-replace <id>",
	Short: "Request replacing a document's file (needs admin approval)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(replaceFile)
		if err != nil {
			return err
		}
		defer f.Close()
		docs := client.NewDocuments(newClient())
		if err := docs.RequestReplace(cmd.Context(), args[0], filepath.Base(replaceFile), f); err != nil {
			return err
		}
		fmt.Println("Replace request submitted")
		return nil
	},
}

var docsDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Print a short-lived download URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := client.NewDocuments(newClient()).DownloadURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

func init() {
	docsListCmd.Flags().StringVar(&listSearch, "search", "", "filter by title or file name substring")
	docsListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (ACTIVE, PENDING, PENDING_DELETE, ...)")
	docsListCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	docsListCmd.Flags().IntVar(&listSize, "size", 10, "page size")

	docsUploadCmd.Flags().StringVar(&uploadTitle, "title", "", "document title")
	docsUploadCmd.Flags().StringVar(&uploadDescription, "description", "", "optional description")
	docsUploadCmd.Flags().StringVar(&uploadType, "type", "", "document type: PDF, DOC, IMG or OTHER")
	docsUploadCmd.Flags().StringVar(&uploadFile, "file", "", "path to the file")
	docsUploadCmd.MarkFlagRequired("title")
	docsUploadCmd.MarkFlagRequired("type")
	docsUploadCmd.MarkFlagRequired("file")

	docsRequestReplaceCmd.Flags().StringVar(&replaceFile, "file", "", "path to the replacement file")
	docsRequestReplaceCmd.MarkFlagRequired("file")

	docsCmd.AddCommand(docsListCmd, docsGetCmd, docsUploadCmd,
		docsRequestDeleteCmd, docsRequestReplaceCmd, docsDownloadCmd)
	rootCmd.AddCommand(docsCmd)
}
