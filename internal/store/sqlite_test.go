package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/state"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	err = s.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Running migrate again should be a no-op
	err := s.Migrate(ctx)
	assert.NoError(t, err)
}

func TestLoadState_EmptySlot(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadState(context.Background())
	assert.ErrorIs(t, err, state.ErrNoState)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root := state.NewRoot([]models.Exercise{{ID: "squat", Name: "Barbell Back Squat", BodyPart: "Legs"}})
	root.Routines = append(root.Routines, &models.Routine{
		ID:   "rut_1",
		Name: "Full Body A",
		Exercises: []*models.RoutineExercise{{
			ID:          "rex_1",
			ExerciseRef: models.ExerciseRef{Source: models.RefSeed, ID: "squat"},
			Sets:        []*models.Set{{ID: "set_1", Reps: 10, Weight: 60}},
		}},
	})
	root.LastOpenedRoutineID = "rut_1"

	require.NoError(t, s.SaveState(ctx, root))

	got, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rut_1", got.LastOpenedRoutineID)
	require.Len(t, got.Routines, 1)
	require.Len(t, got.Routines[0].Exercises, 1)
	set := got.Routines[0].Exercises[0].Sets[0]
	assert.Equal(t, 10, set.Reps)
	assert.Equal(t, 60.0, set.Weight)
	assert.Equal(t, models.RefSeed, got.Routines[0].Exercises[0].ExerciseRef.Source)
}

func TestSaveState_OverwritesSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveState(ctx, state.NewRoot(nil)))

	root := state.NewRoot(nil)
	root.LastOpenedRoutineID = "rut_2"
	require.NoError(t, s.SaveState(ctx, root))

	got, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rut_2", got.LastOpenedRoutineID)
}

func TestLoadState_CorruptBlob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO app_state (key, data) VALUES (?, ?)", s.key, "{not json")
	require.NoError(t, err)

	_, err = s.LoadState(ctx)
	assert.ErrorIs(t, err, state.ErrCorruptState)
}
