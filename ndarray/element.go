package ndarray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"

	"fortio.org/safecast"
	"golang.org/x/exp/constraints"
)

// Element is the set of Go types FromSlice accepts.
type Element interface {
	~bool | constraints.Integer | constraints.Float | constraints.Complex
}

var le = binary.LittleEndian

func matchesDType(dt DType, value any) bool {
	if value == nil {
		return false
	}
	return dtypeOfKind(reflect.ValueOf(value).Kind()) == dt
}

// encodeElement writes v, whose reflect kind must match dt, into dst.
func encodeElement(dt DType, v any, dst []byte) {
	rv := reflect.ValueOf(v)
	switch dt {
	case Bool:
		dst[0] = 0
		if rv.Bool() {
			dst[0] = 1
		}
	case Int8:
		dst[0] = byte(rv.Int())
	case Int16:
		le.PutUint16(dst, uint16(rv.Int()))
	case Int32:
		le.PutUint32(dst, uint32(rv.Int()))
	case Int64, DateTime, TimeDelta:
		le.PutUint64(dst, uint64(rv.Int()))
	case Uint8:
		dst[0] = byte(rv.Uint())
	case Uint16:
		le.PutUint16(dst, uint16(rv.Uint()))
	case Uint32:
		le.PutUint32(dst, uint32(rv.Uint()))
	case Uint64:
		le.PutUint64(dst, rv.Uint())
	case Float32:
		le.PutUint32(dst, math.Float32bits(float32(rv.Float())))
	case Float64:
		le.PutUint64(dst, math.Float64bits(rv.Float()))
	case Complex64:
		c := rv.Complex()
		le.PutUint32(dst, math.Float32bits(float32(real(c))))
		le.PutUint32(dst[4:], math.Float32bits(float32(imag(c))))
	case Complex128:
		c := rv.Complex()
		le.PutUint64(dst, math.Float64bits(real(c)))
		le.PutUint64(dst[8:], math.Float64bits(imag(c)))
	}
}

func decodeElement(dt DType, b []byte) any {
	switch dt {
	case Bool:
		return b[0] != 0
	case Int8:
		return int8(b[0])
	case Int16:
		return int16(le.Uint16(b))
	case Int32:
		return int32(le.Uint32(b))
	case Int64:
		return int64(le.Uint64(b))
	case Uint8:
		return b[0]
	case Uint16:
		return le.Uint16(b)
	case Uint32:
		return le.Uint32(b)
	case Uint64:
		return le.Uint64(b)
	case Float32:
		return math.Float32frombits(le.Uint32(b))
	case Float64:
		return math.Float64frombits(le.Uint64(b))
	case Complex64:
		return complex(math.Float32frombits(le.Uint32(b)), math.Float32frombits(le.Uint32(b[4:])))
	case Complex128:
		return complex(math.Float64frombits(le.Uint64(b)), math.Float64frombits(le.Uint64(b[8:])))
	case DateTime:
		return time.Unix(0, int64(le.Uint64(b))).UTC()
	case TimeDelta:
		return time.Duration(int64(le.Uint64(b)))
	case Bytes:
		return slices.Clone(bytes.TrimRight(b, "\x00"))
	case Str:
		return string(bytes.TrimRight(b, "\x00"))
	case Void:
		return slices.Clone(b)
	}
	return nil
}

func isIntegerDType(dt DType) bool {
	switch dt {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// narrowInteger converts a Go integer of any width onto the integer dtype
// dt. Non-integer values are returned unchanged.
func narrowInteger(dt DType, value any) (any, error) {
	rv := reflect.ValueOf(value)
	var (
		out any
		err error
	)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out, err = narrowSigned(dt, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		out, err = narrowUnsigned(dt, rv.Uint())
	default:
		return value, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v into %s: %w", ErrOverflow, value, dt, err)
	}
	return out, nil
}

func narrowSigned(dt DType, v int64) (out any, err error) {
	switch dt {
	case Int8:
		out, err = safecast.Conv[int8](v)
	case Int16:
		out, err = safecast.Conv[int16](v)
	case Int32:
		out, err = safecast.Conv[int32](v)
	case Int64:
		out = v
	case Uint8:
		out, err = safecast.Conv[uint8](v)
	case Uint16:
		out, err = safecast.Conv[uint16](v)
	case Uint32:
		out, err = safecast.Conv[uint32](v)
	case Uint64:
		out, err = safecast.Conv[uint64](v)
	}
	return out, err
}

func narrowUnsigned(dt DType, v uint64) (out any, err error) {
	switch dt {
	case Int8:
		out, err = safecast.Conv[int8](v)
	case Int16:
		out, err = safecast.Conv[int16](v)
	case Int32:
		out, err = safecast.Conv[int32](v)
	case Int64:
		out, err = safecast.Conv[int64](v)
	case Uint8:
		out, err = safecast.Conv[uint8](v)
	case Uint16:
		out, err = safecast.Conv[uint16](v)
	case Uint32:
		out, err = safecast.Conv[uint32](v)
	case Uint64:
		out = v
	}
	return out, err
}

func decodeAs[T Element](dt DType, b []byte) T {
	v := decodeElement(dt, b)
	if t, ok := v.(T); ok {
		return t
	}
	return reflect.ValueOf(v).Convert(reflect.TypeFor[T]()).Interface().(T)
}

// elementBytesEqual compares two encoded elements with numeric semantics:
// NaN is never equal and negative zero equals positive zero.
func elementBytesEqual(dt DType, x, y []byte) bool {
	switch dt {
	case Float32:
		return math.Float32frombits(le.Uint32(x)) == math.Float32frombits(le.Uint32(y))
	case Float64:
		return math.Float64frombits(le.Uint64(x)) == math.Float64frombits(le.Uint64(y))
	case Complex64:
		return elementBytesEqual(Float32, x[:4], y[:4]) && elementBytesEqual(Float32, x[4:], y[4:])
	case Complex128:
		return elementBytesEqual(Float64, x[:8], y[:8]) && elementBytesEqual(Float64, x[8:], y[8:])
	case Bool:
		return (x[0] != 0) == (y[0] != 0)
	}
	return bytes.Equal(x, y)
}

// ElementEqual compares the i-th row-major elements of a and b, which must
// share a dtype.
func ElementEqual(a, b *Array, i int) bool {
	if a.dtype != b.dtype || a.itemSize != b.itemSize {
		return false
	}
	oa, ob := a.offsetOf(i), b.offsetOf(i)
	if a.dtype == Object {
		return reflect.DeepEqual(a.buf.objects[oa], b.buf.objects[ob])
	}
	return elementBytesEqual(a.dtype, a.elemBytes(oa), b.elemBytes(ob))
}

// ArrayEqual reports whether a and b have the same dtype, item size and
// shape and all elements compare equal in row-major order.
func ArrayEqual(a, b *Array) bool {
	if a.dtype != b.dtype || a.itemSize != b.itemSize || !sameShape(a.shape, b.shape) {
		return false
	}
	for i := range a.Size() {
		if !ElementEqual(a, b, i) {
			return false
		}
	}
	return true
}

func sameShape(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
