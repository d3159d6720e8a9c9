package Tables

import (
	"errors"
	"fmt"
)

// Fatal build failures. Once an engine returns one of these the table
// instance is not recoverable; duplicate and sentinel keys are reported
// through return values instead.
var (
	ErrProbingCycle    = errors.New("detected cycle during probing, all buckets along the way are full")
	ErrMaxProbingSteps = errors.New("maximum probing step count exceeded")
	ErrKickCycleLimit  = errors.New("maximum kick cycle length reached")
	ErrSelfCycle       = errors.New("insertion failed, infinite loop detected")
)

// BuildError identifies the engine whose build failed. Match the cause with
// errors.Is against the sentinel values above.
type BuildError struct {
	Table string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building %s failed: %v", e.Table, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
