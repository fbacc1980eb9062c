package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/filter"
	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/registry"
	"github.com/rcliao/chatsort/internal/ui"
)

// modeFlags are the filter flag names; each is also a filter.ParseMode alias.
var modeFlags = []string{"require", "any", "exclude", "exclude-always"}

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chats that pass the category and keyword filters",
		Long: "List chats. Category filters take comma-separated names:\n" +
			"  --exclude, --exclude-always  hide chats with any of the terms\n" +
			"  --require                    keep chats with all of the terms\n" +
			"  --any                        keep chats with at least one of the terms\n" +
			"The --kw- variants match keywords against chat text instead of tags. They take\n" +
			"one keyword per flag, repeated as needed, so /regex/ keywords may contain commas.",
		Args: cobra.NoArgs,
		RunE: runList,
	}

	for _, name := range modeFlags {
		cmd.Flags().StringSlice(name, nil, "Category filter: "+name+" (comma-separated)")
		cmd.Flags().StringArray("kw-"+name, nil, "Keyword filter: "+name+" (repeatable)")
	}
	cmd.Flags().StringP("search", "s", "", "Case-insensitive text search over title and messages")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("urls-only", false, "Only output chat URLs")

	RootCmd.AddCommand(cmd)
}

// filterStates builds category and keyword filter states from the list flags.
func filterStates(cmd *cobra.Command) (filter.State, filter.State, error) {
	cats, kws := filter.State{}, filter.State{}
	for _, name := range modeFlags {
		mode, err := filter.ParseMode(name)
		if err != nil {
			return nil, nil, err
		}
		catTerms, _ := cmd.Flags().GetStringSlice(name)
		for _, t := range nonEmpty(catTerms) {
			cats = cats.Set(t, cats.Get(t).With(mode, true))
		}
		kwTerms, _ := cmd.Flags().GetStringArray("kw-" + name)
		for _, t := range nonEmpty(kwTerms) {
			t = registry.Term(t)
			kws = kws.Set(t, kws.Get(t).With(mode, true))
		}
	}
	return cats, kws, nil
}

func runList(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")
	urlsOnly, _ := cmd.Flags().GetBool("urls-only")

	cats, kws, err := filterStates(cmd)
	if err != nil {
		return fail("filters", err)
	}

	e, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	e.sess.SetFilters(cats, kws)
	chats := e.sess.Search(query)
	if limit > 0 && len(chats) > limit {
		chats = chats[:limit]
	}

	out := cmd.OutOrStdout()
	if urlsOnly {
		for _, c := range chats {
			fmt.Fprintln(out, c.URL)
		}
		return nil
	}
	if textOutput() {
		if cats.Active() || kws.Active() {
			ui.Info(describeFilters(cats, kws))
		}
		printChats(chats)
		return nil
	}
	if chats == nil {
		chats = []model.Chat{}
	}
	printJSON(out, chats)
	return nil
}

func printChats(chats []model.Chat) {
	rows := make([][]string, 0, len(chats))
	for _, c := range chats {
		rows = append(rows, []string{c.Title, strings.Join(c.Categories, ", "), ui.Dim(c.URL)})
	}
	ui.Table([]string{"TITLE", "CATEGORIES", "URL"}, rows)
}

// describeFilters renders the active filter terms by flag name, such as
// "require: Coding; kw-any: intj".
func describeFilters(cats, kws filter.State) string {
	var parts []string
	for _, prefix := range []string{"", "kw-"} {
		s := cats
		if prefix != "" {
			s = kws
		}
		for _, name := range modeFlags {
			mode, _ := filter.ParseMode(name)
			if terms := s.Terms(mode); len(terms) > 0 {
				parts = append(parts, fmt.Sprintf("%s%s: %s", prefix, name, strings.Join(terms, ", ")))
			}
		}
	}
	return strings.Join(parts, "; ")
}
