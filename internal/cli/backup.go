package cli

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/store"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "List and restore archive snapshots",
		Long:  "Snapshots are taken before import, merge and restore.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE:  runBackupList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create [reason]",
		Short: "Snapshot the archive now",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBackupCreate,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the archive with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runBackupRestore,
	})

	RootCmd.AddCommand(cmd)
}

func runBackupList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	backups, err := s.ListBackups(cmd.Context())
	if err != nil {
		return fail("list backups", err)
	}

	if textOutput() {
		rows := make([][]string, 0, len(backups))
		for _, b := range backups {
			rows = append(rows, []string{b.ID, humanize.Time(b.CreatedAt), humanize.Comma(int64(b.Chats)), b.Reason})
		}
		ui.Table([]string{"ID", "CREATED", "CHATS", "REASON"}, rows)
		return nil
	}
	if backups == nil {
		backups = []store.Backup{}
	}
	printJSON(cmd.OutOrStdout(), backups)
	return nil
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	reason := "manual"
	if len(args) == 1 {
		reason = args[0]
	}

	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	id, err := backupAndPrune(cmd.Context(), s, reason)
	if err != nil {
		return err
	}
	if textOutput() {
		ui.Success("backup " + id)
		return nil
	}
	printJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "id": id})
	return nil
}

type restoreResult struct {
	OK         bool      `json:"ok"`
	ID         string    `json:"id"`
	Chats      int       `json:"chats"`
	Categories int       `json:"categories"`
	RestoredAt time.Time `json:"restored_at"`
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	doc, err := s.Restore(cmd.Context(), args[0])
	if err != nil {
		return fail("restore", err)
	}
	if _, err := s.PruneBackups(cmd.Context(), cfg.Backups.Keep); err != nil {
		ui.Logger.Warn("prune backups failed", "err", err)
	}

	if textOutput() {
		ui.Success("restored " + args[0])
		return nil
	}
	printJSON(cmd.OutOrStdout(), restoreResult{
		OK:         true,
		ID:         args[0],
		Chats:      len(doc.Chats),
		Categories: doc.Categories.Len(),
		RestoredAt: time.Now().UTC(),
	})
	return nil
}
