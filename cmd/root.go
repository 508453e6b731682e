package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukerupert/remote/internal/app"
	"github.com/dukerupert/remote/internal/config"
	"github.com/dukerupert/remote/internal/logging"
	"github.com/dukerupert/remote/internal/mount"
	"github.com/dukerupert/remote/internal/prompt"
	"github.com/dukerupert/remote/internal/remote"
	"github.com/dukerupert/remote/tui"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"

	cfgFile  string
	logLevel string
	noHide   bool

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage saved SSH connections",
	Long: `Remote saves SSH connection profiles and uses them to open sessions,
deploy public keys, and mount remote file systems with sshfs.`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

// Execute runs the command line and exits with the resulting status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	// Command errors have already been logged.
	var appErr *app.Error
	if !errors.As(err, &appErr) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
	}
	return app.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is remote.yaml beside the binary or in the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	// Accepted anywhere on the command line; only list reads it.
	rootCmd.PersistentFlags().BoolVar(&noHide, "no-hide", false, "Show passwords in the list")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c
	logger = logging.New(cmd.OutOrStdout(), cfg.LogLevel)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		logger.Errorf("Command not found.")
		_ = cmd.Help()
		return &app.Error{Kind: app.KindValidation, Code: 2, Err: fmt.Errorf("unknown command %q", args[0])}
	}
	printBanner(cmd.OutOrStdout())
	return nil
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, tui.BannerStyle.Render("remote "+Version))
	fmt.Fprintln(w, "Saved SSH connections. Run 'remote --help' to list commands.")
}

// newApp builds the dispatcher for one invocation.
var newApp = func(cmd *cobra.Command) *app.App {
	a := &app.App{
		Store:      app.OpenStore(cfg.StorePath, logger),
		Remote:     remote.NewService(cfg.ConnectTimeout),
		Shell:      remote.NewTerminal(cfg.SSHBinary),
		Mounts:     mount.New(cfg, mount.NewExecRunner()),
		Input:      prompt.New(),
		Log:        logger,
		Out:        cmd.OutOrStdout(),
		DefaultKey: cfg.SSHKey,
	}
	if cfg.Clipboard {
		a.Clipboard = app.SystemClipboard{}
	}
	return a
}

// arg returns the i-th positional argument, or "" when absent.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
