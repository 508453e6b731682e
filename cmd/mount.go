package cmd

import (
	"github.com/spf13/cobra"
)

var mountCmd = &cobra.Command{
	Use:   "mount <name>",
	Short: "Mount a remote file system via sshfs",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd).Mount(cmd.Context(), arg(args, 0))
	},
}

var unmountCmd = &cobra.Command{
	Use:   "unmount <name>",
	Short: "Unmount a previously mounted file system",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd).Unmount(cmd.Context(), arg(args, 0))
	},
}

func init() {
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(unmountCmd)
}
