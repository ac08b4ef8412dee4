package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvidal/gymbuddy/internal/catalog"
	"github.com/mvidal/gymbuddy/internal/engine"
	"github.com/mvidal/gymbuddy/internal/history"
	"github.com/mvidal/gymbuddy/internal/output"
	"github.com/mvidal/gymbuddy/internal/repo"
	"github.com/mvidal/gymbuddy/internal/state"
	"github.com/mvidal/gymbuddy/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui  *output.UI
	gym *App

	verbose bool
)

// App wires the core components over one loaded state tree. Every
// mutating command goes through Repo, Catalog, or Engine so that
// persistence and updatedAt bookkeeping stay consistent.
type App struct {
	Store   store.Store
	Root    *state.Root
	Repo    *repo.Repository
	Catalog *catalog.Catalog
	History *history.Store
	Engine  *engine.Engine
}

var rootCmd = &cobra.Command{
	Use:   "gymbuddy",
	Short: "GymBuddy - on-device workout tracker",
	Long: `gymbuddy tracks workout routines on this device.
Build routines from an exercise catalog, play them as timed sessions
marking sets complete, and keep the finished workouts as history.
All data stays local; nothing leaves the machine.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rootRun(cmd)
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/gymbuddy/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "gymbuddy")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GYMBUDDY")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "gymbuddy")

	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "gymbuddy.db"))
	viper.SetDefault("weight_unit", "kg")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	// The store and state tree are opened lazily — only when commands
	// actually need them. This allows config/version to run without a db.
}

// rootRun handles `gymbuddy` with no subcommand: show the last-opened
// routine, or the routine list.
func rootRun(cmd *cobra.Command) error {
	app, err := getApp()
	if err != nil {
		return cmd.Help()
	}

	if r := app.Repo.LastOpened(); r != nil {
		return routineShowRun(r.Name)
	}
	return routineListRun()
}

// getApp opens the store, loads (and seeds) the state tree, and wires
// the core components. Initialized on first call.
func getApp() (*App, error) {
	if gym != nil {
		return gym, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	seed, err := catalog.Seed()
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	root, err := state.Load(ctx, s, seed)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	cat := catalog.New(root, s)
	hist := history.New(root, s)
	gym = &App{
		Store:   s,
		Root:    root,
		Repo:    repo.New(root, s),
		Catalog: cat,
		History: hist,
		Engine:  engine.New(cat, hist),
	}
	return gym, nil
}

// weightUnit returns the configured display unit ("kg" by default).
// Stored weights are unit-agnostic numbers; this only affects display.
func weightUnit() string {
	return viper.GetString("weight_unit")
}
