package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/classify"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reclassify",
		Short: "Recompute every stored chat's categories from the keyword rules",
		Long:  "Recompute categories for the stored archive. Manual tags are replaced.",
		Args:  cobra.NoArgs,
		RunE:  runReclassify,
	}

	RootCmd.AddCommand(cmd)
}

func runReclassify(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	report := e.sess.Reclassify(cmd.Context())
	if err := e.saved(); err != nil {
		return err
	}

	if textOutput() {
		printReport(report)
		return nil
	}
	printJSON(cmd.OutOrStdout(), report)
	return nil
}

func printReport(r classify.Report) {
	rows := make([][]string, 0, len(r.Counts)+len(r.Orphans))
	for _, c := range r.Counts {
		rows = append(rows, []string{c.Category, fmt.Sprint(c.Chats)})
	}
	for _, c := range r.Orphans {
		rows = append(rows, []string{c.Category + " " + ui.Dim("(unregistered)"), fmt.Sprint(c.Chats)})
	}
	ui.Table([]string{"CATEGORY", "CHATS"}, rows)
	ui.Info(fmt.Sprintf("%d chats, %d untagged, %d keywords (%d regex)", r.Total, r.Untagged, r.Keywords, r.Regexes))
}
