// Package history is the append-only record of finished workout
// sessions, newest first. Entries are immutable once stored.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/state"
)

// ErrNotFinished rejects a session without a finish timestamp; only the
// engine's Finish hands sessions here.
var ErrNotFinished = errors.New("session is not finished")

// ErrNotFound is returned when a history entry id is unknown.
var ErrNotFound = errors.New("workout not found")

// Store appends finished sessions to the state root and reads them back.
type Store struct {
	root    *state.Root
	gateway state.Gateway
}

// New creates a history store over the given state root.
func New(root *state.Root, g state.Gateway) *Store {
	return &Store{root: root, gateway: g}
}

// Append prepends a finished session and persists.
func (h *Store) Append(ctx context.Context, w *models.WorkoutSession) error {
	if w.FinishedAt == nil {
		return ErrNotFinished
	}

	h.root.Workouts = append([]*models.WorkoutSession{w}, h.root.Workouts...)
	if err := h.gateway.SaveState(ctx, h.root); err != nil {
		return fmt.Errorf("save workout history: %w", err)
	}
	return nil
}

// List returns all finished sessions, newest first.
func (h *Store) List() []*models.WorkoutSession {
	return h.root.Workouts
}

// Get returns a history entry by id.
func (h *Store) Get(id string) (*models.WorkoutSession, error) {
	for _, w := range h.root.Workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, fmt.Errorf("workout %s: %w", id, ErrNotFound)
}

// Stats summarizes a session: completed/total sets and lifted volume
// (sum of reps x weight over completed sets).
func Stats(w *models.WorkoutSession) (completed, total int, volume float64) {
	for _, item := range w.Items {
		for _, s := range item.Sets {
			total++
			if s.Done {
				completed++
				volume += float64(s.Reps) * s.Weight
			}
		}
	}
	return completed, total, volume
}
