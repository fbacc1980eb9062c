package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/classify"
	"github.com/rcliao/chatsort/internal/document"
	"github.com/rcliao/chatsort/internal/pattern"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Reassign categories in a JSON document",
		Long: "Read a chats document, recompute every chat's categories from the keyword rules,\n" +
			"and write the result to a new file. The store is not touched.",
		Args: cobra.NoArgs,
		RunE: runClassify,
	}

	cmd.Flags().StringP("input", "i", "", "Input document (default: classify.input from config, chats.json)")
	cmd.Flags().StringP("output", "o", "", "Output document (default: classify.output from config, chats_updated.json)")

	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("input")
	out, _ := cmd.Flags().GetString("output")
	if in == "" {
		in = cfg.Classify.Input
	}
	if out == "" {
		out = cfg.Classify.Output
	}

	doc, err := document.Load(in)
	if err != nil {
		return fail("load", err)
	}

	cache := pattern.NewCache(func(e *pattern.RegexError) {
		ui.Logger.Warn("invalid regex, matching literally", "keyword", e.Keyword, "err", e.Err)
	})
	doc.Chats = classify.Reclassify(doc.Categories, doc.Chats, cache)

	if err := document.Save(out, doc); err != nil {
		return fail("save", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Categories have been reassigned. Updated file written to: %s\n", out)
	return nil
}
