// Package engine runs a workout session: it snapshots a routine into a
// live session, tracks per-set completion and the navigation cursor,
// and finalizes the session into history.
//
// Session state is memory-only while playing. Nothing touches the
// durable slot (or the source routine) until Finish.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mvidal/gymbuddy/internal/catalog"
	"github.com/mvidal/gymbuddy/internal/history"
	"github.com/mvidal/gymbuddy/internal/models"
)

var (
	// ErrEmptyRoutine refuses to start a session from a routine with no
	// exercises; the caller routes the user back to template editing.
	ErrEmptyRoutine = errors.New("routine has no exercises")

	// ErrSessionActive refuses a second concurrent session.
	ErrSessionActive = errors.New("a workout session is already active")

	// ErrNoSession is returned by play operations when nothing is active.
	ErrNoSession = errors.New("no active workout session")

	// ErrNotFound is returned for an unknown session set id.
	ErrNotFound = errors.New("set not found in session")

	// ErrNegativeValue rejects negative live edits.
	ErrNegativeValue = errors.New("value must be non-negative")
)

// Engine owns at most one active session at a time.
type Engine struct {
	catalog *catalog.Catalog
	history *history.Store

	active *models.WorkoutSession
}

// New creates an engine wired to the catalog (for snapshot resolution)
// and the history store (for finalization).
func New(c *catalog.Catalog, h *history.Store) *Engine {
	return &Engine{catalog: c, history: h}
}

// Active returns the running session, or nil.
func (e *Engine) Active() *models.WorkoutSession {
	return e.active
}

// Start snapshots the routine into a new active session. Exercise
// display fields are resolved through the catalog now, so later catalog
// or template edits cannot alter the session. Unresolvable references
// snapshot with a placeholder name, a degraded but valid state.
func (e *Engine) Start(routine *models.Routine) (*models.WorkoutSession, error) {
	if e.active != nil {
		return nil, ErrSessionActive
	}
	if len(routine.Exercises) == 0 {
		return nil, ErrEmptyRoutine
	}

	sess := &models.WorkoutSession{
		ID:          models.NewID(models.PrefixWorkout),
		RoutineID:   routine.ID,
		RoutineName: routine.Name,
		StartedAt:   time.Now().UTC(),
	}

	for _, re := range routine.Exercises {
		item := &models.SessionItem{
			RexID:       re.ID,
			ExerciseRef: re.ExerciseRef,
			Name:        "Unknown exercise",
			BodyPart:    models.BodyPartUncategorized,
		}
		if ex, ok := e.catalog.Resolve(re.ExerciseRef); ok {
			item.Name = ex.Name
			item.Image = ex.Image
			item.BodyPart = ex.BodyPart
		}
		for _, s := range re.Sets {
			item.Sets = append(item.Sets, &models.SessionSet{
				ID:     s.ID,
				Reps:   s.Reps,
				Weight: s.Weight,
			})
		}
		sess.Items = append(sess.Items, item)
	}

	e.active = sess
	return sess, nil
}

// Navigate moves the cursor by delta, saturating at either end.
func (e *Engine) Navigate(delta int) error {
	if e.active == nil {
		return ErrNoSession
	}

	idx := e.active.CurrentIndex + delta
	if idx < 0 {
		idx = 0
	}
	if max := len(e.active.Items) - 1; idx > max {
		idx = max
	}
	e.active.CurrentIndex = idx
	return nil
}

// ToggleSet flips completion for exactly one set of the current item.
func (e *Engine) ToggleSet(setID string) error {
	if e.active == nil {
		return ErrNoSession
	}

	item := e.active.CurrentItem()
	if item == nil {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}
	for _, s := range item.Sets {
		if s.ID == setID {
			s.Done = !s.Done
			return nil
		}
	}
	return fmt.Errorf("set %s: %w", setID, ErrNotFound)
}

// EditSetReps updates the live repetition count of one session set.
// Memory-only: the template is never touched by session edits.
func (e *Engine) EditSetReps(setID string, reps int) error {
	if reps < 0 {
		return ErrNegativeValue
	}
	return e.editSet(setID, func(s *models.SessionSet) { s.Reps = reps })
}

// EditSetWeight updates the live weight of one session set.
func (e *Engine) EditSetWeight(setID string, weight float64) error {
	if weight < 0 {
		return ErrNegativeValue
	}
	return e.editSet(setID, func(s *models.SessionSet) { s.Weight = weight })
}

// Progress reports completed sets over total sets as a whole percent.
// A session with zero sets reports 0% (divisor guarded at 1).
func (e *Engine) Progress() int {
	if e.active == nil {
		return 0
	}
	completed, total := e.active.Counts()
	if total < 1 {
		total = 1
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}

// Finish stamps the finish time, appends the session to history, and
// releases it: the engine drops its reference, so the returned entry is
// history-owned and must not be played further.
func (e *Engine) Finish(ctx context.Context) (*models.WorkoutSession, error) {
	if e.active == nil {
		return nil, ErrNoSession
	}

	sess := e.active
	now := time.Now().UTC()
	sess.FinishedAt = &now

	if err := e.history.Append(ctx, sess); err != nil {
		sess.FinishedAt = nil
		return nil, err
	}

	e.active = nil
	return sess, nil
}

// Abort drops the active session without recording anything.
func (e *Engine) Abort() {
	e.active = nil
}

func (e *Engine) editSet(setID string, apply func(*models.SessionSet)) error {
	if e.active == nil {
		return ErrNoSession
	}
	set := e.active.SetByID(setID)
	if set == nil {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}
	apply(set)
	return nil
}
