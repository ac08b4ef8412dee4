package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvidal/gymbuddy/internal/catalog"
	"github.com/mvidal/gymbuddy/internal/output"
)

var (
	exerciseBodyPart  string
	exerciseImage     string
	exercisePrimary   string
	exerciseSecondary string
	exerciseEquipment string
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Browse and extend the exercise catalog",
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all catalog exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exerciseSearchRun("")
	},
}

var exerciseSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search exercises by name and body part",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return exerciseSearchRun(query)
	},
}

var exerciseBodyPartsCmd = &cobra.Command{
	Use:   "bodyparts",
	Short: "List distinct body-part labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exerciseBodyPartsRun()
	},
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a custom exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exerciseAddRun(args[0])
	},
}

func init() {
	exerciseSearchCmd.Flags().StringVar(&exerciseBodyPart, "bodypart", "", "Filter by body-part label")

	exerciseAddCmd.Flags().StringVar(&exerciseBodyPart, "bodypart", "", "Body part (default: Uncategorized)")
	exerciseAddCmd.Flags().StringVar(&exerciseImage, "image", "", "Image URL")
	exerciseAddCmd.Flags().StringVar(&exercisePrimary, "primary", "", "Primary muscles")
	exerciseAddCmd.Flags().StringVar(&exerciseSecondary, "secondary", "", "Secondary muscles")
	exerciseAddCmd.Flags().StringVar(&exerciseEquipment, "equipment", "", "Required equipment")

	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseSearchCmd)
	exerciseCmd.AddCommand(exerciseBodyPartsCmd)
	exerciseCmd.AddCommand(exerciseAddCmd)
	rootCmd.AddCommand(exerciseCmd)
}

func exerciseSearchRun(query string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	results := app.Catalog.Search(query, exerciseBodyPart)
	if len(results) == 0 {
		ui.Info("No exercises match.")
		return nil
	}

	table := ui.Table([]string{"Id", "Name", "Body Part", "Equipment"})
	for _, e := range results {
		table.Append([]string{
			output.Dim(e.ID),
			output.Cyan(e.Name),
			e.BodyPart,
			e.Equipment,
		})
	}
	table.Render()
	return nil
}

func exerciseBodyPartsRun() error {
	app, err := getApp()
	if err != nil {
		return err
	}

	for _, bp := range app.Catalog.BodyParts() {
		fmt.Fprintln(ui.Out, bp)
	}
	return nil
}

func exerciseAddRun(name string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	ex, err := app.Catalog.AddCustom(context.Background(), catalog.CustomExercisePayload{
		Name:             name,
		Image:            exerciseImage,
		BodyPart:         exerciseBodyPart,
		PrimaryMuscles:   exercisePrimary,
		SecondaryMuscles: exerciseSecondary,
		Equipment:        exerciseEquipment,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyName) {
			return fmt.Errorf("exercise name must not be empty")
		}
		return err
	}

	ui.Success("Created exercise: %s (%s)", output.Cyan(ex.Name), ex.BodyPart)
	ui.VerboseLog("Id: %s", ex.ID)
	return nil
}
