package models

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID prefixes, one per entity kind, so ids are self-describing in logs
// and in the serialized state blob.
const (
	PrefixRoutine         = "rut"
	PrefixRoutineExercise = "rex"
	PrefixSet             = "set"
	PrefixCustomExercise  = "cus"
	PrefixWorkout         = "wo"
)

// Monotonic entropy keeps ids unique even when two are generated within
// the same millisecond. The core is single-threaded, so no locking.
var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// NewID generates a prefixed ULID string, e.g. "rut_01HX5K...".
// Unique within a running process; not coordinated across devices.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, ulid.MustNew(ulid.Timestamp(time.Now()), entropy))
}
