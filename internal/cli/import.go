package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/document"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored archive with a JSON document",
		Long:  "Import a chats document into the store. The current contents are backed up first.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	RootCmd.AddCommand(cmd)
}

type importResult struct {
	OK         bool   `json:"ok"`
	Imported   int    `json:"imported"`
	Categories int    `json:"categories"`
	Backup     string `json:"backup"`
}

func runImport(cmd *cobra.Command, args []string) error {
	doc, err := document.Load(args[0])
	if err != nil {
		return fail("load", err)
	}

	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	id, err := backupAndPrune(ctx, s, "import "+args[0])
	if err != nil {
		return err
	}
	if err := s.Save(ctx, doc); err != nil {
		return fail("import", err)
	}

	if textOutput() {
		ui.Success("imported " + args[0])
		return nil
	}
	printJSON(cmd.OutOrStdout(), importResult{
		OK:         true,
		Imported:   len(doc.Chats),
		Categories: doc.Categories.Len(),
		Backup:     id,
	})
	return nil
}
