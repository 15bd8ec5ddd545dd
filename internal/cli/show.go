package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mtd-cli/internal/tdlist"
)

var (
	dayHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	sectionStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

var weekdayTitles = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func newShowCmd(app *App) *cobra.Command {
	var (
		itemType string
		weekday  string
		week     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show items for today, a weekday, or the whole week",
		RunE: func(cmd *cobra.Command, args []string) error {
			if weekday != "" && week {
				return fmt.Errorf("--weekday and --week are mutually exclusive")
			}
			if itemType != "" {
				if _, err := parseItemType(itemType); err != nil {
					return err
				}
			}

			_, list, _, err := loadState(app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case week:
				date := tdlist.Today()
				for i := 0; i < 7; i++ {
					showDay(out, list, date, itemType)
					date = date.Next()
				}
			case weekday != "":
				wd, err := tdlist.ParseWeekday(weekday)
				if err != nil {
					return err
				}
				showDay(out, list, wd.NextOccurrence(), itemType)
			default:
				showDay(out, list, tdlist.Today(), itemType)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&itemType, "type", "t", "", "Show only one item type (todo|task)")
	cmd.Flags().StringVarP(&weekday, "weekday", "w", "", "Show the given weekday instead of today")
	cmd.Flags().BoolVar(&week, "week", false, "Show the whole week starting from today")

	return cmd
}

// showDay prints one day's items: undone first, then done rendered faint.
func showDay(w io.Writer, list *tdlist.TdList, date tdlist.Date, itemType string) {
	fmt.Fprintln(w, dayHeaderStyle.Render(fmt.Sprintf("%s %s", weekdayTitles[date.Weekday()], date)))

	if itemType != "task" {
		undone := list.UndoneTodosForDate(date)
		done := list.DoneTodosForDate(date)
		if len(undone)+len(done) > 0 {
			fmt.Fprintln(w, sectionStyle.Render("  Todos:"))
			for _, t := range undone {
				fmt.Fprintf(w, "    %s\n", t)
			}
			for _, t := range done {
				fmt.Fprintf(w, "    %s\n", doneStyle.Render(t.String()))
			}
		}
	}

	if itemType != "todo" {
		undone := list.UndoneTasksForDate(date)
		done := list.DoneTasksForDate(date)
		if len(undone)+len(done) > 0 {
			fmt.Fprintln(w, sectionStyle.Render("  Tasks:"))
			for _, t := range undone {
				fmt.Fprintf(w, "    %s\n", t)
			}
			for _, t := range done {
				fmt.Fprintf(w, "    %s\n", doneStyle.Render(t.String()))
			}
		}
	}
}
