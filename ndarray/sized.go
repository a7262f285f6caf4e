package ndarray

import (
	"fmt"
)

// FromByteStrings builds a Bytes array wide enough for the longest value.
// Shorter values are NUL padded, and At trims trailing NULs again.
func FromByteStrings(data [][]byte, shape ...int) (*Array, error) {
	width := 1
	for _, b := range data {
		width = max(width, len(b))
	}
	return fillSized(Bytes, width, len(data), shape, func(i int) any { return data[i] })
}

// FromStrings builds a Str array of UTF-8 strings, wide enough for the
// longest value in bytes.
func FromStrings(data []string, shape ...int) (*Array, error) {
	width := 1
	for _, s := range data {
		width = max(width, len(s))
	}
	return fillSized(Str, width, len(data), shape, func(i int) any { return data[i] })
}

// FromRecords builds a Void array of opaque records that are all exactly
// itemSize bytes long.
func FromRecords(data [][]byte, itemSize int, shape ...int) (*Array, error) {
	return fillSized(Void, itemSize, len(data), shape, func(i int) any { return data[i] })
}

func fillSized(dtype DType, itemSize, n int, shape []int, at func(int) any) (*Array, error) {
	if shape == nil {
		shape = []int{n}
	}
	a, err := NewSized(dtype, itemSize, shape...)
	if err != nil {
		return nil, err
	}
	if a.Size() != n {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, n, shape)
	}
	for i := range n {
		if err := a.setSized(at(i), a.elemBytes(i)); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// setSized writes value into one NUL padded element of a sized dtype.
func (a *Array) setSized(value any, dst []byte) error {
	var src []byte
	switch v := value.(type) {
	case []byte:
		if a.dtype == Str {
			return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, value, a.DTypeName())
		}
		src = v
	case string:
		if a.dtype == Void {
			return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, value, a.DTypeName())
		}
		src = []byte(v)
	default:
		return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, value, a.DTypeName())
	}
	if len(src) > len(dst) || (a.dtype == Void && len(src) != len(dst)) {
		return fmt.Errorf("%w: %d bytes into %s", ErrItemSize, len(src), a.DTypeName())
	}
	clear(dst)
	copy(dst, src)
	return nil
}
