package cmd

import (
	"errors"
	"fmt"

	"github.com/dukerupert/remote/internal/store"
	"github.com/dukerupert/remote/tui"
	"github.com/dukerupert/remote/tui/picker"
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a connection and an action interactively",
	Args:  cobra.ArbitraryArgs,
	RunE:  runPick,
}

// runPicker shows the picker over entries and returns the user's choice.
var runPicker = func(entries []store.Entry) (tui.Choice, error) {
	return tui.Run(picker.New(entries))
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)
	entries, err := a.Store.List(false)
	if errors.Is(err, store.ErrNoConnections) {
		a.Log.Warnf("No connections found.")
		return nil
	}
	if err != nil {
		return err
	}

	choice, err := runPicker(entries)
	if err != nil {
		return fmt.Errorf("running picker: %w", err)
	}

	ctx := cmd.Context()
	switch choice.Action {
	case tui.ActionConnect:
		return a.Conn(ctx, choice.Name)
	case tui.ActionMount:
		return a.Mount(ctx, choice.Name)
	case tui.ActionUnmount:
		return a.Unmount(ctx, choice.Name)
	case tui.ActionSendKey:
		return a.SendKey(ctx, choice.Name, "")
	}
	return nil
}
