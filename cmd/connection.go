package cmd

import (
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <name> [ssh_key_path]",
	Short: "Create a new SSH connection",
	Long: `Prompt for login, address, and password, verify that they work, and save
the connection under name. Optionally send an SSH public key to the server.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd).New(cmd.Context(), arg(args, 0), arg(args, 1))
	},
}

var connCmd = &cobra.Command{
	Use:   "conn <name>",
	Short: "Connect to an existing SSH connection",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd).Conn(cmd.Context(), arg(args, 0))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved SSH connections",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd).List(noHide)
	},
}

var sendKeyCmd = &cobra.Command{
	Use:   "send-key <name> [ssh_key_path]",
	Short: "Send an SSH key to a remote server",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd).SendKey(cmd.Context(), arg(args, 0), arg(args, 1))
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(connCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(sendKeyCmd)
}
