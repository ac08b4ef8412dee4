package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/output"
	"github.com/mvidal/gymbuddy/internal/repo"
)

var (
	setReps   int
	setWeight float64
)

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Manage workout routines",
	Long:  "Create, list, show, and edit workout routine templates.",
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new routine",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineAddRun(strings.Join(args, " "))
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineListRun()
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a routine with its exercises and sets",
	Long:  "Show a routine. Without an argument, shows the last-opened routine.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return routineShowRun(name)
	},
}

var routineRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a routine",
	Long:    "Delete a routine template. Finished workouts in history keep their own snapshot and are unaffected.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineRemoveRun(args[0])
	},
}

var routineOpenCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Mark a routine as last opened",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineOpenRun(args[0])
	},
}

var routineExerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Manage exercises within a routine",
}

var routineExerciseAddCmd = &cobra.Command{
	Use:   "add <routine> <exercise-id>",
	Short: "Add a catalog exercise to a routine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineExerciseAddRun(args[0], args[1])
	},
}

var routineExerciseRemoveCmd = &cobra.Command{
	Use:     "remove <routine> <slot>",
	Aliases: []string{"rm"},
	Short:   "Remove an exercise slot (1-based position) from a routine",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineExerciseRemoveRun(args[0], args[1])
	},
}

var routineSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage planned sets within a routine exercise",
}

var routineSetAddCmd = &cobra.Command{
	Use:   "add <routine> <slot>",
	Short: "Append a planned set to an exercise slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineSetAddRun(args[0], args[1])
	},
}

var routineSetRemoveCmd = &cobra.Command{
	Use:     "remove <routine> <slot> <set>",
	Aliases: []string{"rm"},
	Short:   "Remove a planned set (1-based position)",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineSetRemoveRun(args[0], args[1], args[2])
	},
}

var routineSetRepsCmd = &cobra.Command{
	Use:   "reps <routine> <slot> <set> <count>",
	Short: "Set the planned repetitions of a set",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineSetRepsRun(args[0], args[1], args[2], args[3])
	},
}

var routineSetWeightCmd = &cobra.Command{
	Use:   "weight <routine> <slot> <set> <value>",
	Short: "Set the planned weight of a set",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routineSetWeightRun(args[0], args[1], args[2], args[3])
	},
}

func init() {
	routineSetAddCmd.Flags().IntVar(&setReps, "reps", 0, "Planned repetitions")
	routineSetAddCmd.Flags().Float64Var(&setWeight, "weight", 0, "Planned weight")

	routineExerciseCmd.AddCommand(routineExerciseAddCmd)
	routineExerciseCmd.AddCommand(routineExerciseRemoveCmd)

	routineSetCmd.AddCommand(routineSetAddCmd)
	routineSetCmd.AddCommand(routineSetRemoveCmd)
	routineSetCmd.AddCommand(routineSetRepsCmd)
	routineSetCmd.AddCommand(routineSetWeightCmd)

	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routineListCmd)
	routineCmd.AddCommand(routineShowCmd)
	routineCmd.AddCommand(routineRemoveCmd)
	routineCmd.AddCommand(routineOpenCmd)
	routineCmd.AddCommand(routineExerciseCmd)
	routineCmd.AddCommand(routineSetCmd)
	rootCmd.AddCommand(routineCmd)
}

func routineAddRun(name string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, err := app.Repo.CreateRoutine(context.Background(), name)
	if err != nil {
		if errors.Is(err, repo.ErrEmptyName) {
			return fmt.Errorf("routine name must not be empty")
		}
		return err
	}

	ui.Success("Created routine: %s", output.Cyan(r.Name))
	ui.VerboseLog("Id: %s", r.ID)
	return nil
}

func routineListRun() error {
	app, err := getApp()
	if err != nil {
		return err
	}

	routines := app.Repo.List()
	if len(routines) == 0 {
		ui.Info("No routines yet. Use 'gymbuddy routine add <name>' to create one.")
		return nil
	}

	table := ui.Table([]string{"Name", "Exercises", "Sets", "Updated"})
	for _, r := range routines {
		table.Append([]string{
			output.Cyan(r.Name),
			strconv.Itoa(len(r.Exercises)),
			strconv.Itoa(r.TotalSets()),
			r.UpdatedAt.Local().Format("02 Jan 15:04"),
		})
	}
	table.Render()
	return nil
}

func routineShowRun(name string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, err := resolveRoutineArg(app, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(r.Name), output.Dim("updated "+r.UpdatedAt.Local().Format("02 Jan 15:04")))

	if len(r.Exercises) == 0 {
		ui.Info("No exercises yet. Use 'gymbuddy routine exercise add %q <exercise-id>'.", r.Name)
		return nil
	}

	for i, re := range r.Exercises {
		exName := "Unknown exercise"
		detail := ""
		if ex, ok := app.Catalog.Resolve(re.ExerciseRef); ok {
			exName = ex.Name
			detail = ex.BodyPart
			if ex.Equipment != "" {
				detail += " · " + ex.Equipment
			}
		}
		fmt.Fprintf(ui.Out, "\n%d. %s  %s\n", i+1, exName, output.Dim(detail))
		for j, s := range re.Sets {
			fmt.Fprintf(ui.Out, "   %d) %d reps @ %g %s\n", j+1, s.Reps, s.Weight, weightUnit())
		}
		if len(re.Sets) == 0 {
			fmt.Fprintf(ui.Out, "   %s\n", output.Dim("no sets planned"))
		}
	}
	return nil
}

func routineRemoveRun(name string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, err := resolveRoutineArg(app, name)
	if err != nil {
		return err
	}

	if err := app.Repo.DeleteRoutine(context.Background(), r.ID); err != nil {
		return err
	}
	ui.Success("Deleted routine: %s", output.Cyan(r.Name))
	return nil
}

func routineOpenRun(name string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, err := resolveRoutineArg(app, name)
	if err != nil {
		return err
	}

	if err := app.Repo.SetLastOpened(context.Background(), r.ID); err != nil {
		return err
	}
	return routineShowRun(r.Name)
}

func routineExerciseAddRun(routineName, exerciseID string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, err := resolveRoutineArg(app, routineName)
	if err != nil {
		return err
	}

	ref, ok := app.Catalog.RefFor(exerciseID)
	if !ok {
		return fmt.Errorf("no exercise %q in the catalog (try 'gymbuddy exercise search')", exerciseID)
	}

	if _, err := app.Repo.AddExercise(context.Background(), r.ID, ref); err != nil {
		return err
	}

	ex, _ := app.Catalog.Resolve(ref)
	ui.Success("Added %s to %s", output.Cyan(ex.Name), output.Cyan(r.Name))
	return nil
}

func routineExerciseRemoveRun(routineName, slot string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, re, err := resolveSlotArg(app, routineName, slot)
	if err != nil {
		return err
	}

	if err := app.Repo.RemoveExercise(context.Background(), r.ID, re.ID); err != nil {
		return err
	}
	ui.Success("Removed exercise slot %s from %s", slot, output.Cyan(r.Name))
	return nil
}

func routineSetAddRun(routineName, slot string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, re, err := resolveSlotArg(app, routineName, slot)
	if err != nil {
		return err
	}

	s, err := app.Repo.AddSet(context.Background(), r.ID, re.ID, setReps, setWeight)
	if err != nil {
		return err
	}
	ui.Success("Added set: %d reps @ %g %s", s.Reps, s.Weight, weightUnit())
	return nil
}

func routineSetRemoveRun(routineName, slot, setPos string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, re, err := resolveSlotArg(app, routineName, slot)
	if err != nil {
		return err
	}
	s, err := resolveSetArg(re, setPos)
	if err != nil {
		return err
	}

	if err := app.Repo.RemoveSet(context.Background(), r.ID, re.ID, s.ID); err != nil {
		return err
	}
	ui.Success("Removed set %s", setPos)
	return nil
}

func routineSetRepsRun(routineName, slot, setPos, value string) error {
	reps, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid rep count: %q", value)
	}
	return routineSetUpdateRun(routineName, slot, setPos, func(app *App, r *models.Routine, re *models.RoutineExercise, s *models.Set) error {
		return app.Repo.UpdateSetReps(context.Background(), r.ID, re.ID, s.ID, reps)
	})
}

func routineSetWeightRun(routineName, slot, setPos, value string) error {
	weight, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid weight: %q", value)
	}
	return routineSetUpdateRun(routineName, slot, setPos, func(app *App, r *models.Routine, re *models.RoutineExercise, s *models.Set) error {
		return app.Repo.UpdateSetWeight(context.Background(), r.ID, re.ID, s.ID, weight)
	})
}

func routineSetUpdateRun(routineName, slot, setPos string, apply func(*App, *models.Routine, *models.RoutineExercise, *models.Set) error) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	r, re, err := resolveSlotArg(app, routineName, slot)
	if err != nil {
		return err
	}
	s, err := resolveSetArg(re, setPos)
	if err != nil {
		return err
	}

	if err := apply(app, r, re, s); err != nil {
		return err
	}
	ui.Success("Updated set %s: %d reps @ %g %s", setPos, s.Reps, s.Weight, weightUnit())
	return nil
}

// resolveRoutineArg finds a routine by name, falling back to id. An
// empty argument means the last-opened routine.
func resolveRoutineArg(app *App, nameOrID string) (*models.Routine, error) {
	if nameOrID == "" {
		if r := app.Repo.LastOpened(); r != nil {
			return r, nil
		}
		return nil, fmt.Errorf("no routine given and none opened yet")
	}

	r, err := app.Repo.GetByName(nameOrID)
	if err == nil {
		return r, nil
	}
	r, err = app.Repo.Get(nameOrID)
	if err != nil {
		return nil, fmt.Errorf("no routine named %q", nameOrID)
	}
	return r, nil
}

// resolveSlotArg turns a 1-based exercise position into the slot.
func resolveSlotArg(app *App, routineName, slot string) (*models.Routine, *models.RoutineExercise, error) {
	r, err := resolveRoutineArg(app, routineName)
	if err != nil {
		return nil, nil, err
	}

	n, err := strconv.Atoi(slot)
	if err != nil || n < 1 || n > len(r.Exercises) {
		return nil, nil, fmt.Errorf("no exercise slot %q in %s (1-%d)", slot, r.Name, len(r.Exercises))
	}
	return r, r.Exercises[n-1], nil
}

// resolveSetArg turns a 1-based set position into the set.
func resolveSetArg(re *models.RoutineExercise, setPos string) (*models.Set, error) {
	n, err := strconv.Atoi(setPos)
	if err != nil || n < 1 || n > len(re.Sets) {
		return nil, fmt.Errorf("no set %q (1-%d)", setPos, len(re.Sets))
	}
	return re.Sets[n-1], nil
}
