package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/chatsort/internal/config"
	"github.com/rcliao/chatsort/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	RootCmd.AddCommand(cmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := config.Path(configPath)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fail("stat config", err)
	}

	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return err
	}
	ui.Success("wrote " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := cfg
	shown.DB = getDBPath()
	b, err := yaml.Marshal(shown)
	if err != nil {
		return fail("encode config", err)
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}
