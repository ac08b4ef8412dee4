package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mvidal/gymbuddy/internal/history"
	"github.com/mvidal/gymbuddy/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse finished workouts",
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List finished workouts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListRun()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one finished workout in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyShowRun(args[0])
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyListRun() error {
	app, err := getApp()
	if err != nil {
		return err
	}

	workouts := app.History.List()
	if len(workouts) == 0 {
		ui.Info("No finished workouts yet. Play one with 'gymbuddy workout start'.")
		return nil
	}
	if historyLimit > 0 && len(workouts) > historyLimit {
		workouts = workouts[:historyLimit]
	}

	table := ui.Table([]string{"Id", "Routine", "Finished", "Sets", "Volume"})
	for _, w := range workouts {
		completed, total, volume := history.Stats(w)
		finished := ""
		if w.FinishedAt != nil {
			finished = w.FinishedAt.Local().Format("02 Jan 15:04")
		}
		table.Append([]string{
			output.Dim(w.ID),
			output.Cyan(w.RoutineName),
			finished,
			fmt.Sprintf("%d/%d", completed, total),
			fmt.Sprintf("%g %s", volume, weightUnit()),
		})
	}
	table.Render()
	return nil
}

func historyShowRun(id string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	w, err := app.History.Get(id)
	if err != nil {
		return err
	}

	completed, total, volume := history.Stats(w)
	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(w.RoutineName), output.Dim(w.StartedAt.Local().Format("02 Jan 2006 15:04")))
	fmt.Fprintf(ui.Out, "%d/%d sets done · %g %s lifted\n", completed, total, volume, weightUnit())

	for i, item := range w.Items {
		fmt.Fprintf(ui.Out, "\n%s %s  %s\n", strconv.Itoa(i+1)+".", item.Name, output.Dim(item.BodyPart))
		for j, s := range item.Sets {
			fmt.Fprintf(ui.Out, "  %s %d) %d reps @ %g %s\n",
				output.DoneMark(s.Done), j+1, s.Reps, s.Weight, weightUnit())
		}
	}
	return nil
}
