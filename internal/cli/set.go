package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mtd-cli/internal/store"
	"mtd-cli/internal/tdlist"
)

func newSetCmd(app *App) *cobra.Command {
	var (
		body     string
		weekdays []string
		done     bool
		undone   bool
	)

	cmd := &cobra.Command{
		Use:   "set <todo|task> <id>",
		Short: "Change the body, weekday(s) or done state of an item",
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
			if done && undone {
				return fmt.Errorf("--done and --undone are mutually exclusive")
			}
			wds, err := parseWeekdays(weekdays)
			if err != nil {
				return err
			}

			_, list, path, err := loadState(app)
			if err != nil {
				return err
			}

			setBody := cmd.Flags().Changed("body")
			switch itemType {
			case "todo":
				t, ok := list.Todo(id)
				if !ok {
					return tdlist.NoSuchItemError{Kind: "todo", ID: id}
				}
				if len(wds) > 1 {
					return fmt.Errorf("a todo takes at most one weekday")
				}
				if setBody {
					t.SetBody(body)
				}
				if len(wds) == 1 {
					t.SetWeekday(wds[0])
				}
				if done || undone {
					t.SetDone(done)
				}
			case "task":
				t, ok := list.Task(id)
				if !ok {
					return tdlist.NoSuchItemError{Kind: "task", ID: id}
				}
				if setBody {
					t.SetBody(body)
				}
				if len(wds) > 0 {
					t.SetWeekdays(wds)
				}
				if done || undone {
					t.SetDone(done, tdlist.Today())
				}
			}

			if err := store.SaveList(path, list); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "New body text")
	cmd.Flags().StringSliceVarP(&weekdays, "weekday", "w", nil, "New weekday(s); repeatable")
	cmd.Flags().BoolVar(&done, "done", false, "Mark the item done for today")
	cmd.Flags().BoolVar(&undone, "undone", false, "Mark the item not done")

	return cmd
}
