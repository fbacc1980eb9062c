package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/document"
	"github.com/rcliao/chatsort/internal/merge"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "merge <file>",
		Short: "Merge newly exported chats into the archive",
		Long: "Add chats from a document by URL. Known chats take the incoming messages only when\n" +
			"there are more of them; titles, tags and categories in the archive are kept.",
		Args: cobra.ExactArgs(1),
		RunE: runMerge,
	}

	RootCmd.AddCommand(cmd)
}

type mergeOutput struct {
	OK bool `json:"ok"`
	merge.Result
	Backup string `json:"backup,omitempty"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	incoming, err := document.Load(args[0])
	if err != nil {
		return fail("load", err)
	}

	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	current, err := s.Load(ctx)
	if err != nil {
		return fail("load", err)
	}

	merged, res := merge.Merge(current, incoming)
	out := mergeOutput{OK: true, Result: res}
	if res.Changed() {
		if out.Backup, err = backupAndPrune(ctx, s, "merge "+args[0]); err != nil {
			return err
		}
		if err := s.Save(ctx, merged); err != nil {
			return fail("merge", err)
		}
	}
	if res.Skipped > 0 {
		ui.Logger.Warn("skipped chats without a url", "count", res.Skipped)
	}

	if textOutput() {
		ui.Success(fmt.Sprintf("%d added, %d updated", len(res.Added), len(res.Updated)))
		return nil
	}
	printJSON(cmd.OutOrStdout(), out)
	return nil
}
