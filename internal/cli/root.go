// Package cli wires the mtd commands: local item management, the sync
// client, and the sync server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mtd-cli/internal/store"
	"mtd-cli/internal/tdlist"
)

type App struct {
	ConfigDir string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "mtd",
		Short:        "My ToDo: a todo/task tracker with encrypted sync",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.ConfigDir != "" {
			// store resolves every path through this variable.
			return os.Setenv("MTD_CONFIG_DIR", app.ConfigDir)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("MTD_CONFIG_DIR", ""), "Path to the config dir (default: ~/.mtd)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newServerCmd(app))
	cmd.AddCommand(newHistoryCmd(app))

	return cmd
}

// loadState loads the config and the persisted replica. A missing replica
// file yields a fresh client-role list; a missing config is an error telling
// the user to run `mtd init`.
func loadState(app *App) (*store.Config, *tdlist.TdList, string, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	path, err := cfg.ReplicaPath()
	if err != nil {
		return nil, nil, "", err
	}
	list, err := store.LoadList(path, false)
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, list, path, nil
}

func parseItemType(s string) (string, error) {
	switch s {
	case "todo", "task":
		return s, nil
	}
	return "", fmt.Errorf("invalid item type %q (want todo or task)", s)
}

func parseWeekdays(args []string) ([]tdlist.Weekday, error) {
	var out []tdlist.Weekday
	for _, a := range args {
		wd, err := tdlist.ParseWeekday(a)
		if err != nil {
			return nil, err
		}
		out = append(out, wd)
	}
	return out, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
