package models

import "time"

// SessionSet is a Set copied into a live session, plus completion state.
type SessionSet struct {
	ID     string  `json:"id"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Done   bool    `json:"done"`
}

// SessionItem is a denormalized snapshot of one RoutineExercise taken
// when the session started. Display fields are copied so that later
// edits to the routine or catalog cannot alter an in-flight or
// historical session.
type SessionItem struct {
	RexID       string        `json:"rexId"`
	ExerciseRef ExerciseRef   `json:"exerciseRef"`
	Name        string        `json:"name"`
	Image       string        `json:"image,omitempty"`
	BodyPart    string        `json:"bodyPart"`
	Sets        []*SessionSet `json:"sets"`
}

// WorkoutSession is a live or finished execution of a routine.
// FinishedAt is nil while the session is active.
type WorkoutSession struct {
	ID           string         `json:"id"`
	RoutineID    string         `json:"routineId"`
	RoutineName  string         `json:"routineName"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   *time.Time     `json:"finishedAt"`
	CurrentIndex int            `json:"currentIndex"`
	Items        []*SessionItem `json:"items"`
}

// SetByID finds a session set anywhere in the session, or nil.
func (w *WorkoutSession) SetByID(id string) *SessionSet {
	for _, item := range w.Items {
		for _, s := range item.Sets {
			if s.ID == id {
				return s
			}
		}
	}
	return nil
}

// CurrentItem returns the item at the navigation cursor, or nil for an
// empty session.
func (w *WorkoutSession) CurrentItem() *SessionItem {
	if len(w.Items) == 0 {
		return nil
	}
	return w.Items[w.CurrentIndex]
}

// Counts returns completed and total set counts across all items.
func (w *WorkoutSession) Counts() (completed, total int) {
	for _, item := range w.Items {
		for _, s := range item.Sets {
			total++
			if s.Done {
				completed++
			}
		}
	}
	return completed, total
}
