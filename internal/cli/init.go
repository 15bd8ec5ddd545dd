package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mtd-cli/internal/store"
)

func newInitCmd(app *App) *cobra.Command {
	var (
		server       bool
		addr         string
		password     string
		timeoutSecs  int
		saveLocation string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the initial config and an empty item list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := store.LoadConfig(); err == nil {
				path, _ := store.ConfigPath()
				return fmt.Errorf("already initialized (%s exists)", path)
			} else if !errors.Is(err, store.ErrNotInitialized) {
				return err
			}

			cfg := store.DefaultConfig()
			cfg.Addr = addr
			cfg.Password = password
			cfg.TimeoutSeconds = timeoutSecs
			cfg.SaveLocation = saveLocation
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}

			path, err := cfg.ReplicaPath()
			if err != nil {
				return err
			}
			list, err := store.LoadList(path, server)
			if err != nil {
				return err
			}
			if err := store.SaveList(path, list); err != nil {
				return err
			}

			role := "client"
			if server {
				role = "server"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s replica at %s\n", role, path)
			return nil
		},
	}

	def := store.DefaultConfig()
	cmd.Flags().BoolVar(&server, "server", false, "Initialize a server-role replica (for the machine running `mtd server`)")
	cmd.Flags().StringVar(&addr, "addr", def.Addr, "Sync server address (dialed by `mtd sync`, listened on by `mtd server`)")
	cmd.Flags().StringVar(&password, "password", envOr("MTD_PASSWORD", ""), "Shared sync password")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", def.TimeoutSeconds, "Socket I/O timeout in seconds (0 disables)")
	cmd.Flags().StringVar(&saveLocation, "save-location", "", "Replica file path (default: <config-dir>/todos.json)")

	return cmd
}
