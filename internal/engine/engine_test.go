package engine_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvidal/gymbuddy/internal/catalog"
	"github.com/mvidal/gymbuddy/internal/engine"
	"github.com/mvidal/gymbuddy/internal/history"
	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/repo"
	"github.com/mvidal/gymbuddy/internal/state"
	"github.com/mvidal/gymbuddy/internal/store"
)

type fixture struct {
	repo    *repo.Repository
	catalog *catalog.Catalog
	history *history.Store
	engine  *engine.Engine
	root    *state.Root
	store   *store.SQLiteStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	seed, err := catalog.Seed()
	require.NoError(t, err)
	root, err := state.Load(context.Background(), s, seed)
	require.NoError(t, err)

	cat := catalog.New(root, s)
	hist := history.New(root, s)
	return &fixture{
		repo:    repo.New(root, s),
		catalog: cat,
		history: hist,
		engine:  engine.New(cat, hist),
		root:    root,
		store:   s,
	}
}

// buildRoutine creates a routine with the given exercise ids, each with
// setsPer sets of 10 reps at 60.
func (f *fixture) buildRoutine(t *testing.T, name string, exerciseIDs []string, setsPer int) *models.Routine {
	t.Helper()
	ctx := context.Background()

	rt, err := f.repo.CreateRoutine(ctx, name)
	require.NoError(t, err)
	for _, id := range exerciseIDs {
		re, err := f.repo.AddExercise(ctx, rt.ID, models.ExerciseRef{Source: models.RefSeed, ID: id})
		require.NoError(t, err)
		for i := 0; i < setsPer; i++ {
			_, err := f.repo.AddSet(ctx, rt.ID, re.ID, 10, 60)
			require.NoError(t, err)
		}
	}
	return rt
}

func TestStart_RefusesEmptyRoutine(t *testing.T) {
	f := newFixture(t)

	rt, err := f.repo.CreateRoutine(context.Background(), "Empty")
	require.NoError(t, err)

	_, err = f.engine.Start(rt)
	assert.ErrorIs(t, err, engine.ErrEmptyRoutine)
	assert.Nil(t, f.engine.Active())
}

func TestStart_SnapshotsRoutine(t *testing.T) {
	f := newFixture(t)
	rt := f.buildRoutine(t, "Legs", []string{"squat", "leg-press"}, 2)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)

	assert.Equal(t, rt.ID, sess.RoutineID)
	assert.Equal(t, 0, sess.CurrentIndex)
	require.Len(t, sess.Items, 2)
	assert.Equal(t, "Barbell Back Squat", sess.Items[0].Name)
	assert.Equal(t, "Legs", sess.Items[0].BodyPart)
	require.Len(t, sess.Items[0].Sets, 2)
	assert.False(t, sess.Items[0].Sets[0].Done)
	assert.Equal(t, 10, sess.Items[0].Sets[0].Reps)
}

func TestStart_SecondSessionRefused(t *testing.T) {
	f := newFixture(t)
	rt := f.buildRoutine(t, "Legs", []string{"squat"}, 1)

	_, err := f.engine.Start(rt)
	require.NoError(t, err)

	_, err = f.engine.Start(rt)
	assert.ErrorIs(t, err, engine.ErrSessionActive)
}

func TestStart_DanglingRefSnapshotsPlaceholder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.repo.CreateRoutine(ctx, "Ghost")
	require.NoError(t, err)
	re, err := f.repo.AddExercise(ctx, rt.ID, models.ExerciseRef{Source: models.RefCustom, ID: "cus_gone"})
	require.NoError(t, err)
	_, err = f.repo.AddSet(ctx, rt.ID, re.ID, 5, 20)
	require.NoError(t, err)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)
	assert.Equal(t, "Unknown exercise", sess.Items[0].Name)
	require.Len(t, sess.Items[0].Sets, 1)
}

func TestSnapshotIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.buildRoutine(t, "Legs", []string{"squat"}, 1)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)

	// Mutate the template after start
	re := rt.Exercises[0]
	require.NoError(t, f.repo.UpdateSetReps(ctx, rt.ID, re.ID, re.Sets[0].ID, 99))
	_, err = f.repo.AddSet(ctx, rt.ID, re.ID, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 10, sess.Items[0].Sets[0].Reps, "session set unaffected by template edit")
	assert.Len(t, sess.Items[0].Sets, 1, "session set count unaffected")
}

func TestNavigate_Clamps(t *testing.T) {
	f := newFixture(t)
	rt := f.buildRoutine(t, "Legs", []string{"squat", "leg-press", "leg-curl"}, 1)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)

	require.NoError(t, f.engine.Navigate(-1))
	assert.Equal(t, 0, sess.CurrentIndex, "saturates at front")

	require.NoError(t, f.engine.Navigate(1))
	require.NoError(t, f.engine.Navigate(1))
	assert.Equal(t, 2, sess.CurrentIndex)

	require.NoError(t, f.engine.Navigate(1))
	assert.Equal(t, 2, sess.CurrentIndex, "saturates at back")
}

func TestNavigate_NoSession(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.engine.Navigate(1), engine.ErrNoSession)
}

func TestToggleSet_CurrentItemOnly(t *testing.T) {
	f := newFixture(t)
	rt := f.buildRoutine(t, "Legs", []string{"squat", "leg-press"}, 1)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)

	setID := sess.Items[0].Sets[0].ID
	require.NoError(t, f.engine.ToggleSet(setID))
	assert.True(t, sess.Items[0].Sets[0].Done)
	assert.False(t, sess.Items[1].Sets[0].Done)

	// Toggle back
	require.NoError(t, f.engine.ToggleSet(setID))
	assert.False(t, sess.Items[0].Sets[0].Done)

	// A set belonging to another item is out of reach from here
	otherID := sess.Items[1].Sets[0].ID
	assert.ErrorIs(t, f.engine.ToggleSet(otherID), engine.ErrNotFound)
}

func TestEditLiveValues_MemoryOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.buildRoutine(t, "Legs", []string{"squat"}, 1)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)

	setID := sess.Items[0].Sets[0].ID
	require.NoError(t, f.engine.EditSetReps(setID, 8))
	require.NoError(t, f.engine.EditSetWeight(setID, 70))
	assert.Equal(t, 8, sess.Items[0].Sets[0].Reps)
	assert.Equal(t, 70.0, sess.Items[0].Sets[0].Weight)

	// Template untouched
	assert.Equal(t, 10, rt.Exercises[0].Sets[0].Reps)
	assert.Equal(t, 60.0, rt.Exercises[0].Sets[0].Weight)

	// Durable state untouched until finish
	reloaded, err := f.store.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Workouts)

	assert.ErrorIs(t, f.engine.EditSetReps(setID, -1), engine.ErrNegativeValue)
}

func TestProgress(t *testing.T) {
	f := newFixture(t)
	rt := f.buildRoutine(t, "Legs", []string{"squat", "leg-press"}, 2)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)

	assert.Equal(t, 0, f.engine.Progress())

	require.NoError(t, f.engine.ToggleSet(sess.Items[0].Sets[0].ID))
	assert.Equal(t, 25, f.engine.Progress(), "1 of 4 sets done")
}

func TestProgress_ZeroSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.repo.CreateRoutine(ctx, "No Sets")
	require.NoError(t, err)
	_, err = f.repo.AddExercise(ctx, rt.ID, models.ExerciseRef{Source: models.RefSeed, ID: "plank"})
	require.NoError(t, err)

	_, err = f.engine.Start(rt)
	require.NoError(t, err)
	assert.Equal(t, 0, f.engine.Progress(), "zero total sets reports 0%")
}

func TestFinish_RecordsHistoryAndReleasesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.buildRoutine(t, "Legs", []string{"squat"}, 1)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)

	done, err := f.engine.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, done.ID)
	require.NotNil(t, done.FinishedAt)
	assert.False(t, done.FinishedAt.Before(done.StartedAt), "finishedAt >= startedAt")

	require.Len(t, f.history.List(), 1)
	assert.Nil(t, f.engine.Active(), "engine released the session")

	_, err = f.engine.Finish(ctx)
	assert.ErrorIs(t, err, engine.ErrNoSession)
}

func TestAbort_RecordsNothing(t *testing.T) {
	f := newFixture(t)
	rt := f.buildRoutine(t, "Legs", []string{"squat"}, 1)

	_, err := f.engine.Start(rt)
	require.NoError(t, err)

	f.engine.Abort()
	assert.Nil(t, f.engine.Active())
	assert.Empty(t, f.history.List())
}

func TestEndToEnd_FullBodyA(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.repo.CreateRoutine(ctx, "Full Body A")
	require.NoError(t, err)
	re, err := f.repo.AddExercise(ctx, rt.ID, models.ExerciseRef{Source: models.RefSeed, ID: "squat"})
	require.NoError(t, err)
	_, err = f.repo.AddSet(ctx, rt.ID, re.ID, 10, 60)
	require.NoError(t, err)

	sess, err := f.engine.Start(rt)
	require.NoError(t, err)
	require.NoError(t, f.engine.ToggleSet(sess.Items[0].Sets[0].ID))

	_, err = f.engine.Finish(ctx)
	require.NoError(t, err)

	// Reload from durable storage and check the recorded workout
	reloaded, err := f.store.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.Workouts, 1)

	w := reloaded.Workouts[0]
	assert.Equal(t, "Full Body A", w.RoutineName)
	require.NotNil(t, w.FinishedAt)
	assert.WithinDuration(t, time.Now().UTC(), *w.FinishedAt, time.Minute)
	require.Len(t, w.Items, 1)
	require.Len(t, w.Items[0].Sets, 1)
	got := w.Items[0].Sets[0]
	assert.Equal(t, 10, got.Reps)
	assert.Equal(t, 60.0, got.Weight)
	assert.True(t, got.Done)
}
