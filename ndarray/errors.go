package ndarray

import "errors"

var (
	ErrInvalidShape    = errors.New("ndarray: invalid shape")
	ErrShapeMismatch   = errors.New("ndarray: data length does not match shape")
	ErrReadOnly        = errors.New("ndarray: array is read-only")
	ErrIndexOutOfRange = errors.New("ndarray: index out of range")
	ErrTypeMismatch    = errors.New("ndarray: value type does not match dtype")
	ErrNotFixedWidth   = errors.New("ndarray: dtype has no fixed-width byte representation")
	ErrUnknownDType    = errors.New("ndarray: unknown dtype")
	ErrItemSize        = errors.New("ndarray: invalid item size")
	ErrOverflow        = errors.New("ndarray: value does not fit dtype")
	ErrTimeOutOfRange  = errors.New("ndarray: time outside the int64 nanosecond range")
)
