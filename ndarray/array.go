// Package ndarray is a small strided n-dimensional array over a flat
// little-endian byte buffer.
//
// It provides only what hashing and comparison need: shape, dtype, strides,
// canonical row-major bytes, element access, a cooperative read-only flag
// and a numpy-like text rendering. There is no arithmetic.
package ndarray

import (
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"time"
)

// buffer is shared by an array and every view derived from it, so freezing
// one freezes them all.
type buffer struct {
	data     []byte
	objects  []any
	readOnly atomic.Bool
}

// Array is a strided view over a buffer. Strides and offset count elements,
// not bytes.
type Array struct {
	dtype    DType
	itemSize int
	shape    []int
	strides  []int
	offset   int
	buf      *buffer
}

var (
	minTime = time.Unix(0, math.MinInt64)
	maxTime = time.Unix(0, math.MaxInt64)
)

// unixNanos is t.UnixNano for the instants it is defined on.
func unixNanos(t time.Time) (int64, error) {
	if t.Before(minTime) || t.After(maxTime) {
		return 0, fmt.Errorf("%w: %s", ErrTimeOutOfRange, t.Format(time.RFC3339))
	}
	return t.UnixNano(), nil
}

func sizeOf(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension %d in %v", ErrInvalidShape, d, shape)
		}
		n *= d
	}
	return n, nil
}

func cStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= max(shape[i], 1)
	}
	return strides
}

func newArray(dtype DType, itemSize int, shape []int, buf *buffer) *Array {
	shape = slices.Clone(shape)
	return &Array{
		dtype:    dtype,
		itemSize: itemSize,
		shape:    shape,
		strides:  cStrides(shape),
		buf:      buf,
	}
}

func alloc(dtype DType, itemSize int, shape []int) (*Array, error) {
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	buf := &buffer{}
	if dtype == Object {
		buf.objects = make([]any, n)
	} else {
		buf.data = make([]byte, n*itemSize)
	}
	return newArray(dtype, itemSize, shape, buf), nil
}

// New returns a zero-filled, writable array. Sized dtypes need NewSized.
func New(dtype DType, shape ...int) (*Array, error) {
	if dtype == Invalid || int(dtype) >= len(dtypes) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDType, dtype)
	}
	if dtype.Sized() {
		return nil, fmt.Errorf("%w: %s needs an item size", ErrItemSize, dtype)
	}
	return alloc(dtype, dtype.Size(), shape)
}

// NewSized returns a zero-filled Bytes, Str or Void array whose elements
// are itemSize bytes wide.
func NewSized(dtype DType, itemSize int, shape ...int) (*Array, error) {
	if !dtype.Sized() {
		return nil, fmt.Errorf("%w: %s has a fixed item size", ErrItemSize, dtype)
	}
	if itemSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrItemSize, itemSize)
	}
	return alloc(dtype, itemSize, shape)
}

// FromSlice copies data into a new array of the given shape. A nil shape
// means a 1-d array of len(data).
func FromSlice[T Element](data []T, shape ...int) (*Array, error) {
	if shape == nil {
		shape = []int{len(data)}
	}
	a, err := New(DTypeOf[T](), shape...)
	if err != nil {
		return nil, err
	}
	if n := a.Size(); n != len(data) {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(data), shape)
	}
	sz := a.itemSize
	for i, v := range data {
		encodeElement(a.dtype, v, a.buf.data[i*sz:(i+1)*sz])
	}
	return a, nil
}

// Scalar returns a 0-d array holding v.
func Scalar[T Element](v T) *Array {
	a, _ := FromSlice([]T{v}, []int{}...)
	return a
}

// FromTimes builds a DateTime array. Instants outside the int64 nanosecond
// range (years 1678 to 2262) are rejected with ErrTimeOutOfRange.
func FromTimes(data []time.Time, shape ...int) (*Array, error) {
	nanos := make([]int64, len(data))
	for i, t := range data {
		n, err := unixNanos(t)
		if err != nil {
			return nil, err
		}
		nanos[i] = n
	}
	a, err := FromSlice(nanos, shape...)
	if err != nil {
		return nil, err
	}
	a.dtype = DateTime
	return a, nil
}

// FromDurations builds a TimeDelta array.
func FromDurations(data []time.Duration, shape ...int) (*Array, error) {
	a, err := FromSlice(data, shape...)
	if err != nil {
		return nil, err
	}
	a.dtype = TimeDelta
	return a, nil
}

// FromObjects builds an Object array. The values are referenced, not copied.
func FromObjects(data []any, shape ...int) (*Array, error) {
	if shape == nil {
		shape = []int{len(data)}
	}
	a, err := New(Object, shape...)
	if err != nil {
		return nil, err
	}
	if a.Size() != len(data) {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(data), shape)
	}
	copy(a.buf.objects, data)
	return a, nil
}

// FromBytes wraps raw little-endian element bytes of an unsized dtype
// without copying. The caller keeps an alias to data; writing through it
// bypasses the read-only flag.
func FromBytes(dtype DType, data []byte, shape ...int) (*Array, error) {
	if !dtype.FixedWidth() {
		return nil, fmt.Errorf("%w: %s", ErrNotFixedWidth, dtype)
	}
	if dtype.Sized() {
		return nil, fmt.Errorf("%w: %s needs an item size", ErrItemSize, dtype)
	}
	if shape == nil {
		shape = []int{len(data) / dtype.Size()}
	}
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if n*dtype.Size() != len(data) {
		return nil, fmt.Errorf("%w: %d bytes for %d %s elements", ErrShapeMismatch, len(data), n, dtype)
	}
	return newArray(dtype, dtype.Size(), shape, &buffer{data: data}), nil
}

func (a *Array) DType() DType { return a.dtype }

// ItemSize is the width of one element in bytes, 0 for Object.
func (a *Array) ItemSize() int { return a.itemSize }

// DTypeName is DType.Name with this array's item size.
func (a *Array) DTypeName() string { return a.dtype.Name(a.itemSize) }

func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Strides are in elements.
func (a *Array) Strides() []int { return slices.Clone(a.strides) }

func (a *Array) NDim() int { return len(a.shape) }

func (a *Array) Size() int {
	n, _ := sizeOf(a.shape)
	return n
}

// SetReadOnly clears the writable flag of the backing buffer. It is a
// cooperative flag: Set and SetBytes honour it, aliases obtained through
// FromBytes do not.
func (a *Array) SetReadOnly() { a.buf.readOnly.Store(true) }

func (a *Array) Writable() bool { return !a.buf.readOnly.Load() }

// IsContiguous reports whether the elements are laid out in row-major order
// starting at the view's offset.
func (a *Array) IsContiguous() bool {
	if a.Size() == 0 {
		return true
	}
	want := cStrides(a.shape)
	for i, d := range a.shape {
		if d > 1 && a.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// offsetOf maps a row-major flat index onto a buffer element offset.
func (a *Array) offsetOf(flat int) int {
	off := a.offset
	for d := len(a.shape) - 1; d >= 0; d-- {
		n := a.shape[d]
		off += (flat % n) * a.strides[d]
		flat /= n
	}
	return off
}

func (a *Array) offsetAt(index []int) (int, error) {
	if len(index) != len(a.shape) {
		return 0, fmt.Errorf("%w: %d indices for %d dimensions", ErrIndexOutOfRange, len(index), len(a.shape))
	}
	off := a.offset
	for d, i := range index {
		if i < 0 || i >= a.shape[d] {
			return 0, fmt.Errorf("%w: index %d on axis %d of size %d", ErrIndexOutOfRange, i, d, a.shape[d])
		}
		off += i * a.strides[d]
	}
	return off, nil
}

func (a *Array) elemBytes(off int) []byte {
	sz := a.itemSize
	return a.buf.data[off*sz : (off+1)*sz]
}

// At returns the element at index as a Go value: bool, intN, uintN,
// floatN, complexN, time.Time, time.Duration, []byte (Bytes with trailing
// NULs trimmed, Void), string (Str) or the stored object.
func (a *Array) At(index ...int) (any, error) {
	off, err := a.offsetAt(index)
	if err != nil {
		return nil, err
	}
	if a.dtype == Object {
		return a.buf.objects[off], nil
	}
	return decodeElement(a.dtype, a.elemBytes(off)), nil
}

// Set writes value at index. It fails with ErrReadOnly once the array has
// been frozen. Integer values of any Go integer type are accepted by
// integer dtypes and fail with ErrOverflow when they do not fit.
func (a *Array) Set(value any, index ...int) error {
	if !a.Writable() {
		return ErrReadOnly
	}
	off, err := a.offsetAt(index)
	if err != nil {
		return err
	}
	switch a.dtype {
	case Object:
		a.buf.objects[off] = value
		return nil
	case DateTime:
		t, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, value, a.dtype)
		}
		n, err := unixNanos(t)
		if err != nil {
			return err
		}
		encodeElement(Int64, n, a.elemBytes(off))
		return nil
	case TimeDelta:
		d, ok := value.(time.Duration)
		if !ok {
			return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, value, a.dtype)
		}
		encodeElement(Int64, d, a.elemBytes(off))
		return nil
	case Bytes, Str, Void:
		return a.setSized(value, a.elemBytes(off))
	}
	if isIntegerDType(a.dtype) {
		narrowed, err := narrowInteger(a.dtype, value)
		if err != nil {
			return err
		}
		value = narrowed
	}
	if !matchesDType(a.dtype, value) {
		return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, value, a.dtype)
	}
	encodeElement(a.dtype, value, a.elemBytes(off))
	return nil
}

// SetBytes overwrites one element with its raw little-endian bytes.
func (a *Array) SetBytes(b []byte, index ...int) error {
	if !a.Writable() {
		return ErrReadOnly
	}
	if !a.dtype.FixedWidth() {
		return fmt.Errorf("%w: %s", ErrNotFixedWidth, a.dtype)
	}
	if len(b) != a.itemSize {
		return fmt.Errorf("%w: %d bytes for %s", ErrTypeMismatch, len(b), a.DTypeName())
	}
	off, err := a.offsetAt(index)
	if err != nil {
		return err
	}
	copy(a.elemBytes(off), b)
	return nil
}

// ToSlice returns the elements in row-major order. T must map onto the
// array's dtype (int64 for DateTime, time.Duration or int64 for TimeDelta).
func ToSlice[T Element](a *Array) ([]T, error) {
	want := DTypeOf[T]()
	got := a.dtype
	if got == DateTime || got == TimeDelta {
		got = Int64
	}
	if want != got {
		return nil, fmt.Errorf("%w: %s as %T", ErrTypeMismatch, a.DTypeName(), *new(T))
	}
	out := make([]T, a.Size())
	for i := range out {
		out[i] = decodeAs[T](got, a.elemBytes(a.offsetOf(i)))
	}
	return out, nil
}

// ContiguousBytes returns the element bytes in row-major order. A writable
// contiguous array returns a slice of its backing buffer; frozen arrays and
// strided views always return a copy, so the result never aliases data
// guarded by the read-only flag.
func (a *Array) ContiguousBytes() ([]byte, error) {
	if !a.dtype.FixedWidth() {
		return nil, fmt.Errorf("%w: %s", ErrNotFixedWidth, a.dtype)
	}
	sz := a.itemSize
	n := a.Size()
	if a.IsContiguous() {
		b := a.buf.data[a.offset*sz : (a.offset+n)*sz]
		if a.Writable() {
			return b, nil
		}
		return slices.Clone(b), nil
	}
	out := make([]byte, 0, n*sz)
	for i := range n {
		out = append(out, a.elemBytes(a.offsetOf(i))...)
	}
	return out, nil
}

// Copy returns a writable, row-major deep copy.
func (a *Array) Copy() *Array {
	out, _ := alloc(a.dtype, a.itemSize, a.shape)
	n := a.Size()
	if a.dtype == Object {
		for i := range n {
			out.buf.objects[i] = a.buf.objects[a.offsetOf(i)]
		}
		return out
	}
	b, _ := a.ContiguousBytes()
	copy(out.buf.data, b)
	return out
}

// Reshape returns a view with a new shape sharing the buffer. Non-contiguous
// arrays are copied first. At most one dimension may be -1 and is inferred.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	shape = slices.Clone(shape)
	n := a.Size()
	infer := -1
	known := 1
	for i, d := range shape {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d < 0:
			return nil, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if known == 0 || n%known != 0 {
			return nil, fmt.Errorf("%w: cannot infer %v from %d elements", ErrInvalidShape, shape, n)
		}
		shape[infer] = n / known
		known = n
	}
	if known != n {
		return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrShapeMismatch, a.shape, shape)
	}
	src := a
	if !a.IsContiguous() {
		src = a.Copy()
		if !a.Writable() {
			src.SetReadOnly()
		}
	}
	view := newArray(a.dtype, a.itemSize, shape, src.buf)
	view.offset = src.offset
	return view, nil
}

// Transpose returns a view with the axes reversed, sharing the buffer.
func (a *Array) Transpose() *Array {
	shape := slices.Clone(a.shape)
	strides := slices.Clone(a.strides)
	slices.Reverse(shape)
	slices.Reverse(strides)
	return &Array{
		dtype:    a.dtype,
		itemSize: a.itemSize,
		shape:    shape,
		strides:  strides,
		offset:   a.offset,
		buf:      a.buf,
	}
}

// ShapeUint64 converts the shape for hashing and encoding. Dimensions are
// never negative.
func (a *Array) ShapeUint64() []uint64 {
	out := make([]uint64, len(a.shape))
	for i, d := range a.shape {
		out[i] = uint64(d)
	}
	return out
}
