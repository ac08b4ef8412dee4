package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvidal/gymbuddy/internal/engine"
	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/output"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Play a routine as a workout session",
}

var workoutStartCmd = &cobra.Command{
	Use:   "start [routine]",
	Short: "Start an interactive workout session",
	Long: `Start a workout from a routine snapshot and play it interactively.

The session lives in memory only; nothing is written until you finish.
Commands at the prompt:
  n / next          move to the next exercise
  p / prev          move to the previous exercise
  t <set>           toggle a set done (1-based within the exercise)
  r <set> <reps>    adjust live repetitions
  w <set> <value>   adjust live weight
  s / status        show session progress
  f / finish        finish and record to history
  q / quit          abandon the session (nothing recorded)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return workoutStartRun(name, cmd.InOrStdin())
	},
}

func init() {
	workoutCmd.AddCommand(workoutStartCmd)
	rootCmd.AddCommand(workoutCmd)
}

func workoutStartRun(routineName string, in io.Reader) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, err := resolveRoutineArg(app, routineName)
	if err != nil {
		return err
	}

	sess, err := app.Engine.Start(r)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyRoutine) {
			return fmt.Errorf("%s has no exercises yet — add some with 'gymbuddy routine exercise add' first", r.Name)
		}
		return err
	}

	ui.Success("Workout started: %s (%d exercises)", output.Cyan(sess.RoutineName), len(sess.Items))
	printCurrentItem(app)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(ui.Out, "> ")
		if !scanner.Scan() {
			// Input closed mid-session: abandon, nothing recorded.
			app.Engine.Abort()
			ui.Warning("Input closed, workout abandoned.")
			return scanner.Err()
		}

		done, err := runPlayCommand(app, scanner.Text())
		if err != nil {
			ui.Error("%v", err)
			continue
		}
		if done {
			return nil
		}
	}
}

// runPlayCommand executes one line of the play loop. Returns done=true
// when the session ended (finished or abandoned).
func runPlayCommand(app *App, line string) (bool, error) {
	verb, args := parsePlayLine(line)

	switch verb {
	case "":
		return false, nil

	case "n", "next":
		if err := app.Engine.Navigate(1); err != nil {
			return false, err
		}
		printCurrentItem(app)

	case "p", "prev":
		if err := app.Engine.Navigate(-1); err != nil {
			return false, err
		}
		printCurrentItem(app)

	case "t":
		set, err := currentSetArg(app, args, 1)
		if err != nil {
			return false, err
		}
		if err := app.Engine.ToggleSet(set.ID); err != nil {
			return false, err
		}
		printCurrentItem(app)

	case "r":
		set, err := currentSetArg(app, args, 2)
		if err != nil {
			return false, err
		}
		reps, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("invalid rep count: %q", args[1])
		}
		if err := app.Engine.EditSetReps(set.ID, reps); err != nil {
			return false, err
		}
		printCurrentItem(app)

	case "w":
		set, err := currentSetArg(app, args, 2)
		if err != nil {
			return false, err
		}
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return false, fmt.Errorf("invalid weight: %q", args[1])
		}
		if err := app.Engine.EditSetWeight(set.ID, weight); err != nil {
			return false, err
		}
		printCurrentItem(app)

	case "s", "status":
		printSessionStatus(app)

	case "f", "finish":
		sess, err := app.Engine.Finish(context.Background())
		if err != nil {
			return false, err
		}
		ui.Success("Workout recorded: %s", output.Cyan(sess.RoutineName))
		return true, nil

	case "q", "quit":
		app.Engine.Abort()
		ui.Warning("Workout abandoned, nothing recorded.")
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q (n/p/t/r/w/s/f/q)", verb)
	}
	return false, nil
}

func parsePlayLine(line string) (verb string, args []string) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// currentSetArg resolves a 1-based set position within the current item.
func currentSetArg(app *App, args []string, want int) (*models.SessionSet, error) {
	if len(args) < want {
		return nil, fmt.Errorf("usage: t <set> | r <set> <reps> | w <set> <value>")
	}

	sess := app.Engine.Active()
	if sess == nil {
		return nil, engine.ErrNoSession
	}
	item := sess.CurrentItem()
	if item == nil {
		return nil, fmt.Errorf("session has no exercises")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(item.Sets) {
		return nil, fmt.Errorf("no set %q in %s (1-%d)", args[0], item.Name, len(item.Sets))
	}
	return item.Sets[n-1], nil
}

func printCurrentItem(app *App) {
	sess := app.Engine.Active()
	if sess == nil {
		return
	}
	item := sess.CurrentItem()
	if item == nil {
		return
	}

	fmt.Fprintf(ui.Out, "\n[%d/%d] %s  %s\n",
		sess.CurrentIndex+1, len(sess.Items), output.Cyan(item.Name), output.Dim(item.BodyPart))
	for i, s := range item.Sets {
		fmt.Fprintf(ui.Out, "  %s %d) %d reps @ %g %s\n",
			output.DoneMark(s.Done), i+1, s.Reps, s.Weight, weightUnit())
	}
	if len(item.Sets) == 0 {
		fmt.Fprintf(ui.Out, "  %s\n", output.Dim("no sets planned"))
	}
}

func printSessionStatus(app *App) {
	sess := app.Engine.Active()
	if sess == nil {
		return
	}
	completed, total := sess.Counts()
	fmt.Fprintf(ui.Out, "%s  %d/%d sets done  %s\n",
		output.Cyan(sess.RoutineName), completed, total, output.ProgressColor(app.Engine.Progress()))
}
