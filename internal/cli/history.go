package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mtd-cli/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync exchanges handled by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.SyncLogPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("no sync history at %s (only `mtd server` writes it)", path)
			}

			syncLog, err := store.OpenSyncLog(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer syncLog.Close()

			entries, err := syncLog.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no sync exchanges recorded")
				return nil
			}
			for _, e := range entries {
				when := e.When.Local().Format("2006-01-02 15:04:05")
				if e.Status == "ok" {
					fmt.Fprintf(out, "%s  %-21s  ok     %d todos, %d tasks\n", when, e.Remote, e.Todos, e.Tasks)
				} else {
					fmt.Fprintf(out, "%s  %-21s  error  %s\n", when, e.Remote, e.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")

	return cmd
}
