// Package state holds the single process-wide aggregate that every
// command mutates and the persistence gateway serializes as one blob.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvidal/gymbuddy/internal/models"
)

// ErrNoState is returned by a gateway when the durable slot is empty.
var ErrNoState = errors.New("no saved state")

// ErrCorruptState is returned by a gateway when the slot exists but
// cannot be decoded. Recovered by starting fresh, never fatal.
var ErrCorruptState = errors.New("corrupt saved state")

// Gateway persists the whole state tree to a durable slot. There is no
// partial persistence: every save rewrites the full tree.
type Gateway interface {
	LoadState(ctx context.Context) (*Root, error)
	SaveState(ctx context.Context, root *Root) error
}

// Root is the state tree: routine templates, finished workouts, the
// exercise library, and user-created exercises. JSON field names match
// the v1 on-device blob format.
type Root struct {
	Routines            []*models.Routine        `json:"routines"`
	Workouts            []*models.WorkoutSession `json:"workouts"`
	Library             []models.Exercise        `json:"library"`
	CustomExercises     []models.Exercise        `json:"customExercises"`
	LastOpenedRoutineID string                   `json:"lastOpenedRoutineId"`
}

// NewRoot builds a fresh default root with the seed library populated.
func NewRoot(seed []models.Exercise) *Root {
	return &Root{
		Routines:        []*models.Routine{},
		Workouts:        []*models.WorkoutSession{},
		Library:         append([]models.Exercise{}, seed...),
		CustomExercises: []models.Exercise{},
	}
}

// RoutineByID returns the routine with the given id, or nil.
func (r *Root) RoutineByID(id string) *models.Routine {
	for _, rt := range r.Routines {
		if rt.ID == id {
			return rt
		}
	}
	return nil
}

// MergeSeed appends seed entries whose id is not yet in the library.
// Existing entries are never overwritten, so a user's copy that has
// diverged from a shipped catalog keeps its data. Reports whether the
// library changed. Idempotent.
func (r *Root) MergeSeed(seed []models.Exercise) bool {
	byID := make(map[string]struct{}, len(r.Library))
	for _, e := range r.Library {
		byID[e.ID] = struct{}{}
	}
	changed := false
	for _, e := range seed {
		if _, ok := byID[e.ID]; !ok {
			r.Library = append(r.Library, e)
			byID[e.ID] = struct{}{}
			changed = true
		}
	}
	return changed
}

// Load reads the durable slot and returns a ready-to-use root. A missing
// or corrupt slot yields a fresh default root. The shipped seed catalog
// is merged into the library on every load so it can grow across
// versions. Note that Load always writes the slot back — the merged (or
// fresh) tree is persisted before returning.
func Load(ctx context.Context, g Gateway, seed []models.Exercise) (*Root, error) {
	root, err := g.LoadState(ctx)
	switch {
	case err == nil:
		root.MergeSeed(seed)
	case errors.Is(err, ErrNoState) || errors.Is(err, ErrCorruptState):
		root = NewRoot(seed)
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	if err := g.SaveState(ctx, root); err != nil {
		return nil, fmt.Errorf("persist loaded state: %w", err)
	}
	return root, nil
}
