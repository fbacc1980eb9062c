package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archive and database statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		return fail("stats", err)
	}

	if textOutput() {
		ui.Info(fmt.Sprintf("%s (%s, %d backups)", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)), stats.Backups))
		printReport(stats.Report)
		return nil
	}
	printJSON(cmd.OutOrStdout(), stats)
	return nil
}
