package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mtd-cli/internal/netmgr"
	"mtd-cli/internal/store"
	"mtd-cli/internal/tdlist"
)

func newServerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the sync server on the configured address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, list, path, err := loadState(app)
			if err != nil {
				return err
			}
			if !list.IsServer() {
				return errors.New("replica has client role; run `mtd init --server` on the server machine")
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logPath, err := store.SyncLogPath()
			if err != nil {
				return err
			}
			syncLog, err := store.OpenSyncLog(ctx, logPath)
			if err != nil {
				return err
			}
			defer syncLog.Close()

			srv := &netmgr.Server{
				Addr:     cfg.Addr,
				Password: []byte(cfg.Password),
				Timeout:  cfg.Timeout(),
				Logger:   logger,
				List:     list,
				Save: func(l *tdlist.TdList) error {
					return store.SaveList(path, l)
				},
				Record: func(e netmgr.Exchange) {
					entry := store.SyncLogEntry{
						When:   e.When,
						Remote: e.Remote,
						Status: "ok",
						Todos:  e.Todos,
						Tasks:  e.Tasks,
					}
					if e.Err != nil {
						entry.Status = "error"
						entry.Error = e.Err.Error()
					}
					if err := syncLog.Append(ctx, entry); err != nil {
						logger.Warn("sync log append failed", zap.Error(err))
					}
				},
			}

			err = srv.ListenAndServe(ctx)
			if err == nil || errors.Is(err, context.Canceled) {
				fmt.Fprintln(cmd.OutOrStdout(), "server stopped")
				return nil
			}
			return err
		},
	}
	return cmd
}
