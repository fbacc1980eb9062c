package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/classify"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add an empty category",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoryAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a category, keeping its keywords and position",
		Args:  cobra.ExactArgs(2),
		RunE:  runCategoryRename,
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a category and its keywords",
		Long:    "Remove a category and its keywords. Chats keep the tag until the next reclassify.",
		Args:    cobra.ExactArgs(1),
		RunE:    runCategoryRm,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories with keywords and chat counts",
		Args:  cobra.NoArgs,
		RunE:  runCategoryList,
	})

	RootCmd.AddCommand(cmd)
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	return e.finish(cmd, e.sess.AddCategory(cmd.Context(), args[0]))
}

func runCategoryRename(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	return e.finish(cmd, e.sess.RenameCategory(cmd.Context(), args[0], args[1]))
}

func runCategoryRm(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	return e.finish(cmd, e.sess.RemoveCategory(cmd.Context(), args[0]))
}

type categoryEntry struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Chats    int      `json:"chats"`
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	reg := e.sess.Registry()
	report := classify.Summarize(reg, e.sess.Chats())

	entries := make([]categoryEntry, 0, reg.Len())
	for _, c := range report.Counts {
		kw := reg.Keywords(c.Category)
		if kw == nil {
			kw = []string{}
		}
		entries = append(entries, categoryEntry{Name: c.Category, Keywords: kw, Chats: c.Chats})
	}

	if textOutput() {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Name, strconv.Itoa(e.Chats), strings.Join(e.Keywords, ", ")})
		}
		ui.Table([]string{"CATEGORY", "CHATS", "KEYWORDS"}, rows)
		return nil
	}
	printJSON(cmd.OutOrStdout(), entries)
	return nil
}
