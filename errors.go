package hwio

// Error types returned by the register access port. Failures are always
// returned to the caller, the package never prints and carries on.

import (
	"errors"
	"fmt"
)

var (
	ErrOpenDenied   = errors.New("hwio: cannot open memory device")
	ErrMapFailed    = errors.New("hwio: cannot map register block")
	ErrOutOfBounds  = errors.New("hwio: register index out of bounds")
	ErrInvalidField = errors.New("hwio: invalid field selector")
	ErrRegionClosed = errors.New("hwio: region is closed")
)

type ResourceErrorKind int

const (
	OpenDenied ResourceErrorKind = iota
	MapFailed
)

func (k ResourceErrorKind) String() string {
	switch k {
	case OpenDenied:
		return "open denied"
	case MapFailed:
		return "map failed"
	}
	return ""
}

// ResourceError is returned when the privileged device or the mapping
// cannot be acquired. Nothing acquired on the way is left open.
type ResourceError struct {
	Kind ResourceErrorKind
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hwio: %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("hwio: %s: %s", e.Path, e.Kind)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func (e *ResourceError) Is(target error) bool {
	switch target {
	case ErrOpenDenied:
		return e.Kind == OpenDenied
	case ErrMapFailed:
		return e.Kind == MapFailed
	}
	return false
}

type RangeErrorKind int

const (
	OutOfBounds RangeErrorKind = iota
	InvalidField
)

func (k RangeErrorKind) String() string {
	switch k {
	case OutOfBounds:
		return "out of bounds"
	case InvalidField:
		return "invalid field"
	}
	return ""
}

// RangeError reports a field selector or register index that does not fit.
// Index is the offending value and Limit the bound it was checked against.
type RangeError struct {
	Kind  RangeErrorKind
	Index int
	Limit int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("hwio: %s: %d (limit %d)", e.Kind, e.Index, e.Limit)
}

func (e *RangeError) Is(target error) bool {
	switch target {
	case ErrOutOfBounds:
		return e.Kind == OutOfBounds
	case ErrInvalidField:
		return e.Kind == InvalidField
	}
	return false
}
