package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mtd-cli/internal/netmgr"
	"mtd-cli/internal/store"
)

func newSyncCmd(app *App) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize with the configured server (or locally with --local)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, list, path, err := loadState(app)
			if err != nil {
				return err
			}

			if local || cfg.Addr == "" || list.IsServer() {
				// A server-role replica is synced by its own `mtd server`
				// exchanges; locally we just commit tombstones and
				// renumber ids.
				list.SelfSync()
				if err := store.SaveList(path, list); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "self-sync complete")
				return nil
			}

			client := &netmgr.Client{
				Addr:     cfg.Addr,
				Password: []byte(cfg.Password),
				Timeout:  cfg.Timeout(),
			}
			if err := client.Sync(cmd.Context(), list); err != nil {
				return fmt.Errorf("sync with %s failed: %w", cfg.Addr, err)
			}
			// Only a confirmed merge reaches disk.
			if err := store.SaveList(path, list); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced with %s (%d todos, %d tasks)\n",
				cfg.Addr, len(list.Todos()), len(list.Tasks()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Self-sync without contacting a server")

	return cmd
}
