package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mtd-cli/internal/store"
)

func newRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <todo|task> <id>",
		Short: "Remove an item by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemType, err := parseItemType(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}

			_, list, path, err := loadState(app)
			if err != nil {
				return err
			}

			if itemType == "todo" {
				err = list.RemoveTodo(id)
			} else {
				err = list.RemoveTask(id)
			}
			if err != nil {
				return err
			}

			if err := store.SaveList(path, list); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s %d\n", itemType, id)
			return nil
		},
	}
	return cmd
}
