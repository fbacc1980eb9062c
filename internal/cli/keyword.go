package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "keyword",
		Short: "Manage category keywords",
		Long: "Manage the keywords of a category. A keyword wrapped in slashes, like /^intj/,\n" +
			"is a case-insensitive regular expression; anything else is a literal substring.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <category> <keyword>",
		Short: "Add a keyword to a category",
		Args:  cobra.ExactArgs(2),
		RunE:  runKeywordAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <category> <old> <new>",
		Short: "Replace a keyword in place",
		Args:  cobra.ExactArgs(3),
		RunE:  runKeywordRename,
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <category> <keyword>",
		Aliases: []string{"remove"},
		Short:   "Remove a keyword from a category",
		Args:    cobra.ExactArgs(2),
		RunE:    runKeywordRm,
	})

	RootCmd.AddCommand(cmd)
}

func runKeywordAdd(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	return e.finish(cmd, e.sess.AddKeyword(cmd.Context(), args[0], args[1]))
}

func runKeywordRename(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	return e.finish(cmd, e.sess.RenameKeyword(cmd.Context(), args[0], args[1], args[2]))
}

func runKeywordRm(cmd *cobra.Command, args []string) error {
	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	return e.finish(cmd, e.sess.RemoveKeyword(cmd.Context(), args[0], args[1]))
}
