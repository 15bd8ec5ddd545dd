package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mtd-cli/internal/store"
	"mtd-cli/internal/tdlist"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <todo|task> <body> [weekday...]",
		Short: "Add a new item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemType, err := parseItemType(args[0])
			if err != nil {
				return err
			}
			body := args[1]
			weekdays, err := parseWeekdays(args[2:])
			if err != nil {
				return err
			}

			_, list, path, err := loadState(app)
			if err != nil {
				return err
			}

			switch itemType {
			case "todo":
				if len(weekdays) > 1 {
					return fmt.Errorf("a todo takes at most one weekday")
				}
				t := tdlist.NewTodo(body)
				if len(weekdays) == 1 {
					t = tdlist.NewDatedTodo(body, weekdays[0])
				}
				list.AddTodo(t)
				fmt.Fprintf(cmd.OutOrStdout(), "added todo: %s\n", t)
			case "task":
				t, err := tdlist.NewTask(body, weekdays)
				if err != nil {
					return err
				}
				list.AddTask(t)
				fmt.Fprintf(cmd.OutOrStdout(), "added task: %s\n", t)
			}

			if err := store.SaveList(path, list); err != nil {
				return err
			}
			return nil
		},
	}
	return cmd
}
