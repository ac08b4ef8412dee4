package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvidal/gymbuddy/internal/history"
	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/state"
	"github.com/mvidal/gymbuddy/internal/store"
)

func newTestHistory(t *testing.T) (*history.Store, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	root, err := state.Load(context.Background(), s, nil)
	require.NoError(t, err)

	return history.New(root, s), s
}

func finishedSession(id string, finishedAt time.Time) *models.WorkoutSession {
	return &models.WorkoutSession{
		ID:          id,
		RoutineID:   "rut_x",
		RoutineName: "Legs",
		StartedAt:   finishedAt.Add(-45 * time.Minute),
		FinishedAt:  &finishedAt,
		Items: []*models.SessionItem{{
			RexID: "rex_1",
			Name:  "Barbell Back Squat",
			Sets: []*models.SessionSet{
				{ID: "set_1", Reps: 10, Weight: 60, Done: true},
				{ID: "set_2", Reps: 10, Weight: 60, Done: false},
			},
		}},
	}
}

func TestAppend_NewestFirst(t *testing.T) {
	h, s := newTestHistory(t)
	ctx := context.Background()

	first := finishedSession("wo_1", time.Now().UTC().Add(-time.Hour))
	second := finishedSession("wo_2", time.Now().UTC())

	require.NoError(t, h.Append(ctx, first))
	require.NoError(t, h.Append(ctx, second))

	list := h.List()
	require.Len(t, list, 2)
	assert.Equal(t, "wo_2", list[0].ID)
	assert.Equal(t, "wo_1", list[1].ID)

	// Persisted write-through
	reloaded, err := s.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.Workouts, 2)
	assert.Equal(t, "wo_2", reloaded.Workouts[0].ID)
}

func TestAppend_RejectsUnfinished(t *testing.T) {
	h, _ := newTestHistory(t)

	sess := finishedSession("wo_1", time.Now().UTC())
	sess.FinishedAt = nil

	assert.ErrorIs(t, h.Append(context.Background(), sess), history.ErrNotFinished)
	assert.Empty(t, h.List())
}

func TestGet(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, finishedSession("wo_1", time.Now().UTC())))

	got, err := h.Get("wo_1")
	require.NoError(t, err)
	assert.Equal(t, "Legs", got.RoutineName)

	_, err = h.Get("wo_missing")
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestStats(t *testing.T) {
	w := finishedSession("wo_1", time.Now().UTC())

	completed, total, volume := history.Stats(w)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 2, total)
	assert.Equal(t, 600.0, volume, "only done sets count toward volume")
}
