package HMDS

import (
	"fmt"
)

// ShapeMismatchError reports a matrix or point set whose dimensions disagree with the problem size.
// Cols is zero for vectors.
type ShapeMismatchError struct {
	Name       string
	Rows, Cols int
	Want       int
}

func (e *ShapeMismatchError) Error() string {
	if e.Cols == 0 {
		return fmt.Sprintf("shape mismatch: %s has length %d, expected %d", e.Name, e.Rows, e.Want)
	}
	return fmt.Sprintf("shape mismatch: %s is %d x %d, expected %d x %d", e.Name, e.Rows, e.Cols, e.Want, e.Want)
}

// InvalidMatrixError reports the first element (I,J) of D or W that fails validation
type InvalidMatrixError struct {
	Name   string
	I, J   int
	Reason string
}

func (e *InvalidMatrixError) Error() string {
	return fmt.Sprintf("invalid matrix %s at (%d,%d): %s", e.Name, e.I, e.J, e.Reason)
}

// SingularSystemError is returned when the damped system for point Index cannot be solved, Index is -1 for the batch system
type SingularSystemError struct {
	Index int
	Err   error
}

func (e *SingularSystemError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("singular batch system: %v", e.Err)
	}
	return fmt.Sprintf("singular system for point %d: %v", e.Index, e.Err)
}

func (e *SingularSystemError) Unwrap() error { return e.Err }

// DiskViolationError reports an updated point on or outside the unit circle, or NaN
type DiskViolationError struct {
	Index int
	Point complex128
}

func (e *DiskViolationError) Error() string {
	return fmt.Sprintf("point %d left the open unit disk: %v", e.Index, e.Point)
}

// DegenerateDistanceError wraps geometryH2.ErrDegenerate with the offending pair
type DegenerateDistanceError struct {
	I, J int
	Err  error
}

func (e *DegenerateDistanceError) Error() string {
	return fmt.Sprintf("degenerate distance between points %d and %d: %v", e.I, e.J, e.Err)
}

func (e *DegenerateDistanceError) Unwrap() error { return e.Err }
