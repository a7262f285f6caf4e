package hwrap

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/hwrap/ndarray"
)

var (
	ErrUnsupportedElementType = errors.New("hwrap: unsupported element type")
	ErrNilArray               = errors.New("hwrap: nil array")
	ErrMalformedDebugString   = errors.New("hwrap: malformed debug string")
)

// UnsupportedElementTypeError is returned by Wrap for arrays whose elements
// have no stable byte representation.
type UnsupportedElementTypeError struct {
	DType ndarray.DType
}

func (e *UnsupportedElementTypeError) Error() string {
	return fmt.Sprintf("hwrap: element type %s has no fixed-width byte representation", e.DType)
}

func (e *UnsupportedElementTypeError) Is(target error) bool {
	return target == ErrUnsupportedElementType
}
