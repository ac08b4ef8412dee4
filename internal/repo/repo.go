// Package repo owns the routine templates. Every structural mutation
// bumps the routine's UpdatedAt and ends with a full-state persist.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/state"
)

var (
	// ErrNotFound is wrapped by every miss so callers can distinguish
	// "nothing to do" from a bug with errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrEmptyName rejects a routine with a blank name.
	ErrEmptyName = errors.New("routine name is required")

	// ErrNegativeValue rejects negative reps or weight.
	ErrNegativeValue = errors.New("value must be non-negative")
)

// Repository mutates routine templates held by the state root.
type Repository struct {
	root    *state.Root
	gateway state.Gateway
}

// New creates a repository over the given state root.
func New(root *state.Root, g state.Gateway) *Repository {
	return &Repository{root: root, gateway: g}
}

// CreateRoutine adds an empty routine at the front of the collection
// (most-recent-first) and marks it last opened.
func (r *Repository) CreateRoutine(ctx context.Context, name string) (*models.Routine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now().UTC()
	rt := &models.Routine{
		ID:        models.NewID(models.PrefixRoutine),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Exercises: []*models.RoutineExercise{},
	}
	r.root.Routines = append([]*models.Routine{rt}, r.root.Routines...)
	r.root.LastOpenedRoutineID = rt.ID

	if err := r.save(ctx); err != nil {
		return nil, err
	}
	return rt, nil
}

// DeleteRoutine removes a routine. The last-opened marker is cleared
// when it pointed at the deleted routine; in-flight sessions are
// snapshots and play out unaffected.
func (r *Repository) DeleteRoutine(ctx context.Context, routineID string) error {
	idx := -1
	for i, rt := range r.root.Routines {
		if rt.ID == routineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("routine %s: %w", routineID, ErrNotFound)
	}

	r.root.Routines = append(r.root.Routines[:idx], r.root.Routines[idx+1:]...)
	if r.root.LastOpenedRoutineID == routineID {
		r.root.LastOpenedRoutineID = ""
	}
	return r.save(ctx)
}

// AddExercise appends a new exercise slot with an empty set list.
func (r *Repository) AddExercise(ctx context.Context, routineID string, ref models.ExerciseRef) (*models.RoutineExercise, error) {
	rt := r.root.RoutineByID(routineID)
	if rt == nil {
		return nil, fmt.Errorf("routine %s: %w", routineID, ErrNotFound)
	}

	re := &models.RoutineExercise{
		ID:          models.NewID(models.PrefixRoutineExercise),
		ExerciseRef: ref,
		Sets:        []*models.Set{},
	}
	rt.Exercises = append(rt.Exercises, re)
	rt.UpdatedAt = time.Now().UTC()

	if err := r.save(ctx); err != nil {
		return nil, err
	}
	return re, nil
}

// RemoveExercise removes an exercise slot and its sets.
func (r *Repository) RemoveExercise(ctx context.Context, routineID, rexID string) error {
	rt := r.root.RoutineByID(routineID)
	if rt == nil {
		return fmt.Errorf("routine %s: %w", routineID, ErrNotFound)
	}

	idx := -1
	for i, re := range rt.Exercises {
		if re.ID == rexID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("exercise %s: %w", rexID, ErrNotFound)
	}

	rt.Exercises = append(rt.Exercises[:idx], rt.Exercises[idx+1:]...)
	rt.UpdatedAt = time.Now().UTC()
	return r.save(ctx)
}

// AddSet appends a planned set to an exercise slot.
func (r *Repository) AddSet(ctx context.Context, routineID, rexID string, reps int, weight float64) (*models.Set, error) {
	if reps < 0 || weight < 0 {
		return nil, ErrNegativeValue
	}

	rt, re, err := r.findExercise(routineID, rexID)
	if err != nil {
		return nil, err
	}

	set := &models.Set{
		ID:     models.NewID(models.PrefixSet),
		Reps:   reps,
		Weight: weight,
	}
	re.Sets = append(re.Sets, set)
	rt.UpdatedAt = time.Now().UTC()

	if err := r.save(ctx); err != nil {
		return nil, err
	}
	return set, nil
}

// RemoveSet removes a planned set by id.
func (r *Repository) RemoveSet(ctx context.Context, routineID, rexID, setID string) error {
	rt, re, err := r.findExercise(routineID, rexID)
	if err != nil {
		return err
	}

	idx := -1
	for i, s := range re.Sets {
		if s.ID == setID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}

	re.Sets = append(re.Sets[:idx], re.Sets[idx+1:]...)
	rt.UpdatedAt = time.Now().UTC()
	return r.save(ctx)
}

// UpdateSetReps replaces a set's repetition count.
func (r *Repository) UpdateSetReps(ctx context.Context, routineID, rexID, setID string, reps int) error {
	if reps < 0 {
		return ErrNegativeValue
	}
	return r.updateSet(ctx, routineID, rexID, setID, func(s *models.Set) { s.Reps = reps })
}

// UpdateSetWeight replaces a set's weight.
func (r *Repository) UpdateSetWeight(ctx context.Context, routineID, rexID, setID string, weight float64) error {
	if weight < 0 {
		return ErrNegativeValue
	}
	return r.updateSet(ctx, routineID, rexID, setID, func(s *models.Set) { s.Weight = weight })
}

// Get returns a routine by id.
func (r *Repository) Get(routineID string) (*models.Routine, error) {
	rt := r.root.RoutineByID(routineID)
	if rt == nil {
		return nil, fmt.Errorf("routine %s: %w", routineID, ErrNotFound)
	}
	return rt, nil
}

// GetByName returns a routine by exact name, most recent first on ties.
func (r *Repository) GetByName(name string) (*models.Routine, error) {
	for _, rt := range r.root.Routines {
		if rt.Name == name {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("routine %q: %w", name, ErrNotFound)
}

// List returns all routines, most recently created first.
func (r *Repository) List() []*models.Routine {
	return r.root.Routines
}

// SetLastOpened records the routine the user is working in.
func (r *Repository) SetLastOpened(ctx context.Context, routineID string) error {
	if r.root.RoutineByID(routineID) == nil {
		return fmt.Errorf("routine %s: %w", routineID, ErrNotFound)
	}
	r.root.LastOpenedRoutineID = routineID
	return r.save(ctx)
}

// LastOpened returns the last-opened routine, or nil when unset or the
// routine no longer exists.
func (r *Repository) LastOpened() *models.Routine {
	if r.root.LastOpenedRoutineID == "" {
		return nil
	}
	return r.root.RoutineByID(r.root.LastOpenedRoutineID)
}

func (r *Repository) updateSet(ctx context.Context, routineID, rexID, setID string, apply func(*models.Set)) error {
	rt, re, err := r.findExercise(routineID, rexID)
	if err != nil {
		return err
	}

	set := re.SetByID(setID)
	if set == nil {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}

	apply(set)
	rt.UpdatedAt = time.Now().UTC()
	return r.save(ctx)
}

func (r *Repository) findExercise(routineID, rexID string) (*models.Routine, *models.RoutineExercise, error) {
	rt := r.root.RoutineByID(routineID)
	if rt == nil {
		return nil, nil, fmt.Errorf("routine %s: %w", routineID, ErrNotFound)
	}
	re := rt.ExerciseByID(rexID)
	if re == nil {
		return nil, nil, fmt.Errorf("exercise %s: %w", rexID, ErrNotFound)
	}
	return rt, re, nil
}

func (r *Repository) save(ctx context.Context) error {
	if err := r.gateway.SaveState(ctx, r.root); err != nil {
		return fmt.Errorf("save routines: %w", err)
	}
	return nil
}
