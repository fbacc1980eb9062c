package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/session"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tag <category> <url>...",
		Short: "Tag chats with a category by hand",
		Long: "Add a category to the given chats, or remove it with --remove.\n" +
			"With --toggle, one chat flips the tag; several chats drop it when all carry it\n" +
			"and gain it otherwise.",
		Args: cobra.MinimumNArgs(2),
		RunE: runTag,
	}

	cmd.Flags().Bool("remove", false, "Remove the category instead of adding it")
	cmd.Flags().Bool("toggle", false, "Toggle the category for the selection")

	RootCmd.AddCommand(cmd)
}

type tagResult struct {
	OK      bool     `json:"ok"`
	Tagged  []string `json:"tagged"`
	Missing []string `json:"missing,omitempty"`
	Shared  []string `json:"shared"`
}

func runTag(cmd *cobra.Command, args []string) error {
	remove, _ := cmd.Flags().GetBool("remove")
	toggle, _ := cmd.Flags().GetBool("toggle")
	category, urls := args[0], args[1:]

	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	var found, missing []string
	for _, u := range urls {
		if _, ok := e.sess.Chat(u); ok {
			found = append(found, u)
		} else {
			missing = append(missing, u)
		}
	}
	for _, u := range missing {
		ui.Warning("no such chat: " + u)
	}
	if !e.sess.Registry().Has(category) {
		ui.Warning("category is not registered: " + category)
	}

	sel := session.Bulk(found)
	if len(found) == 1 {
		sel = session.Single(found[0])
	}
	e.sess.Select(sel)

	if toggle {
		e.sess.ToggleForSelection(cmd.Context(), category)
	} else if len(found) > 0 {
		e.sess.BulkSetCategory(cmd.Context(), sel.URLs(), category, !remove)
	}
	if err := e.saved(); err != nil {
		return err
	}

	shared := e.sess.SharedCategories()
	if shared == nil {
		shared = []string{}
	}
	if found == nil {
		found = []string{}
	}
	if textOutput() {
		ui.Success("updated " + category)
		return nil
	}
	printJSON(cmd.OutOrStdout(), tagResult{OK: true, Tagged: found, Missing: missing, Shared: shared})
	return nil
}
