package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/document"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the archive as a JSON document",
		Long:  "Write the stored archive in the chats document format, to stdout or to -o.",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")

	s, err := openStore()
	if err != nil {
		return fail("open store", err)
	}
	defer s.Close()

	doc, err := s.Load(cmd.Context())
	if err != nil {
		return fail("export", err)
	}

	if out != "" {
		if err := document.Save(out, doc); err != nil {
			return fail("export", err)
		}
		return nil
	}
	if err := document.Encode(cmd.OutOrStdout(), doc); err != nil {
		return fail("export", err)
	}
	return nil
}
