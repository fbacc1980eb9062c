package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search stored chats by text",
		Long:  "Search chat titles and messages for a case-insensitive substring, directly in the store.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().StringP("category", "c", "", "Only chats tagged with this category")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:    query,
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		return fail("search", err)
	}

	if textOutput() {
		printChats(results)
		return nil
	}
	if results == nil {
		results = []model.Chat{}
	}
	printJSON(cmd.OutOrStdout(), results)
	return nil
}
