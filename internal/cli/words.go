package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/document"
	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/ui"
	"github.com/rcliao/chatsort/internal/wordfreq"
)

func init() {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Mine word frequencies to find new keywords",
	}
	cmd.PersistentFlags().StringP("input", "i", "", "Read a JSON document instead of the store")
	cmd.PersistentFlags().IntP("threshold", "t", 0, "Categories a word must appear in to be common (default: words.threshold)")

	cmd.AddCommand(&cobra.Command{
		Use:   "common",
		Short: "Words shared by many categories",
		Args:  cobra.NoArgs,
		RunE:  runWordsCommon,
	})

	top := &cobra.Command{
		Use:   "top",
		Short: "Top words per category, excluding common words",
		Args:  cobra.NoArgs,
		RunE:  runWordsTop,
	}
	top.Flags().IntP("top", "n", 0, "Words per category (default: words.top)")
	cmd.AddCommand(top)

	RootCmd.AddCommand(cmd)
}

func wordsDocument(cmd *cobra.Command) (model.Document, error) {
	in, _ := cmd.Flags().GetString("input")
	if in != "" {
		doc, err := document.Load(in)
		if err != nil {
			return doc, fail("load", err)
		}
		return doc, nil
	}

	s, err := openStore()
	if err != nil {
		return model.Document{}, fail("open store", err)
	}
	defer s.Close()

	doc, err := s.Load(cmd.Context())
	if err != nil {
		return doc, fail("load", err)
	}
	return doc, nil
}

func threshold(cmd *cobra.Command) int {
	t, _ := cmd.Flags().GetInt("threshold")
	if t <= 0 {
		t = cfg.Words.Threshold
	}
	return t
}

func runWordsCommon(cmd *cobra.Command, args []string) error {
	doc, err := wordsDocument(cmd)
	if err != nil {
		return err
	}

	common := wordfreq.Common(doc, threshold(cmd))
	if common == nil {
		common = []wordfreq.CommonWord{}
	}

	if textOutput() {
		rows := make([][]string, 0, len(common))
		for _, w := range common {
			parts := make([]string, len(w.Counts))
			for i, c := range w.Counts {
				parts[i] = fmt.Sprintf("%s: %d", c.Category, c.Count)
			}
			rows = append(rows, []string{w.Word, fmt.Sprint(w.Total), strings.Join(parts, ", ")})
		}
		ui.Table([]string{"WORD", "TOTAL", "PER CATEGORY"}, rows)
		return nil
	}
	printJSON(cmd.OutOrStdout(), common)
	return nil
}

func runWordsTop(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("top")
	if n <= 0 {
		n = cfg.Words.Top
	}

	doc, err := wordsDocument(cmd)
	if err != nil {
		return err
	}

	exclude := wordfreq.Words(wordfreq.Common(doc, threshold(cmd)))
	top := wordfreq.Top(doc, exclude, n)

	if textOutput() {
		for _, cw := range top {
			fmt.Fprintln(ui.Stdout, ui.Header("Category: "+cw.Category))
			rows := make([][]string, 0, len(cw.Words))
			for _, w := range cw.Words {
				rows = append(rows, []string{w.Word, fmt.Sprint(w.Count)})
			}
			ui.Table([]string{"WORD", "COUNT"}, rows)
			fmt.Fprintln(ui.Stdout)
		}
		return nil
	}
	printJSON(cmd.OutOrStdout(), top)
	return nil
}
