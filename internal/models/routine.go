package models

import "time"

// Set is one planned unit of work within a routine exercise.
type Set struct {
	ID     string  `json:"id"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// RoutineExercise is an exercise slot within a routine: a catalog
// reference plus its ordered planned sets. Owned by exactly one Routine.
type RoutineExercise struct {
	ID          string      `json:"id"`
	ExerciseRef ExerciseRef `json:"exerciseRef"`
	Sets        []*Set      `json:"sets"`
}

// SetByID returns the set with the given id, or nil.
func (re *RoutineExercise) SetByID(id string) *Set {
	for _, s := range re.Sets {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Routine is a reusable workout template. UpdatedAt is refreshed on every
// structural mutation and serves as the template's dirty marker.
type Routine struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Exercises []*RoutineExercise `json:"exercises"`
}

// ExerciseByID returns the routine exercise with the given id, or nil.
func (r *Routine) ExerciseByID(id string) *RoutineExercise {
	for _, re := range r.Exercises {
		if re.ID == id {
			return re
		}
	}
	return nil
}

// TotalSets counts planned sets across all exercises.
func (r *Routine) TotalSets() int {
	n := 0
	for _, re := range r.Exercises {
		n += len(re.Sets)
	}
	return n
}
