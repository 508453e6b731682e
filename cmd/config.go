package cmd

import (
	"fmt"
	"os"

	"github.com/dukerupert/remote/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage remote configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the current configuration to the user config file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the effective configuration",
	RunE:  runConfigView,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := arg(args, 0)
	if path == "" {
		p, err := config.UserPath()
		if err != nil {
			return err
		}
		path = p
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s, use --force to overwrite", path)
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}
	logger.Successf("Config written to %s", path)
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
