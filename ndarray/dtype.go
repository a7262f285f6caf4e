package ndarray

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// DType discriminates the element type of an Array.
type DType uint8

const (
	Invalid DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128
	DateTime  // time.Time stored as int64 unix nanoseconds
	TimeDelta // time.Duration stored as int64 nanoseconds
	Bytes     // fixed-length byte strings, NUL padded
	Str       // fixed-length UTF-8 strings, NUL padded
	Void      // fixed-length opaque records
	Object    // arbitrary Go values; no byte representation
)

// Kind groups element types coarsely.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindNumber
	KindDateTime
	KindTimeDelta
	KindBytes
	KindStr
	KindVoid
	KindObject
)

// dtypeInfo.size is 0 for sized dtypes, whose item size belongs to the
// array, and for Object.
type dtypeInfo struct {
	name  string
	size  int
	kind  Kind
	sized bool
}

var dtypes = [...]dtypeInfo{
	Invalid:    {"invalid", 0, KindInvalid, false},
	Bool:       {"bool", 1, KindBool, false},
	Int8:       {"int8", 1, KindNumber, false},
	Int16:      {"int16", 2, KindNumber, false},
	Int32:      {"int32", 4, KindNumber, false},
	Int64:      {"int64", 8, KindNumber, false},
	Uint8:      {"uint8", 1, KindNumber, false},
	Uint16:     {"uint16", 2, KindNumber, false},
	Uint32:     {"uint32", 4, KindNumber, false},
	Uint64:     {"uint64", 8, KindNumber, false},
	Float32:    {"float32", 4, KindNumber, false},
	Float64:    {"float64", 8, KindNumber, false},
	Complex64:  {"complex64", 8, KindNumber, false},
	Complex128: {"complex128", 16, KindNumber, false},
	DateTime:   {"datetime", 8, KindDateTime, false},
	TimeDelta:  {"timedelta", 8, KindTimeDelta, false},
	Bytes:      {"bytes", 0, KindBytes, true},
	Str:        {"str", 0, KindStr, true},
	Void:       {"void", 0, KindVoid, true},
	Object:     {"object", 0, KindObject, false},
}

func (d DType) info() dtypeInfo {
	if int(d) >= len(dtypes) {
		return dtypes[Invalid]
	}
	return dtypes[d]
}

func (d DType) String() string {
	if int(d) >= len(dtypes) {
		return "dtype(" + strconv.Itoa(int(d)) + ")"
	}
	return d.info().name
}

// Size is the number of bytes one element occupies. It is 0 for Object and
// for sized dtypes (Bytes, Str, Void); see Array.ItemSize.
func (d DType) Size() int { return d.info().size }

func (d DType) Kind() Kind { return d.info().kind }

// Sized reports whether the item size is chosen per array.
func (d DType) Sized() bool { return d.info().sized }

// FixedWidth reports whether elements have a stable, constant-size byte
// representation.
func (d DType) FixedWidth() bool { return d.info().size > 0 || d.info().sized }

// Name renders the dtype with its item size when the dtype is sized,
// e.g. "bytes8".
func (d DType) Name(itemSize int) string {
	if d.Sized() {
		return d.String() + strconv.Itoa(itemSize)
	}
	return d.String()
}

// ParseDTypeName is the inverse of DType.Name. The item size of unsized
// dtypes is their Size.
func ParseDTypeName(name string) (DType, int, error) {
	for i, info := range dtypes {
		if i == int(Invalid) {
			continue
		}
		if !info.sized {
			if info.name == name {
				return DType(i), info.size, nil
			}
			continue
		}
		digits, ok := strings.CutPrefix(name, info.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 {
			return Invalid, 0, fmt.Errorf("%w: %q", ErrUnknownDType, name)
		}
		return DType(i), n, nil
	}
	return Invalid, 0, fmt.Errorf("%w: %q", ErrUnknownDType, name)
}

// ParseDType accepts both DType.String and DType.Name forms.
func ParseDType(name string) (DType, error) {
	if dt, _, err := ParseDTypeName(name); err == nil {
		return dt, nil
	}
	for i, info := range dtypes {
		if i != int(Invalid) && info.name == name {
			return DType(i), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownDType, name)
}

// dtypeOfKind maps a Go reflect kind onto the matching fixed-width dtype.
func dtypeOfKind(k reflect.Kind) DType {
	switch k {
	case reflect.Bool:
		return Bool
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Int:
		if strconv.IntSize == 32 {
			return Int32
		}
		return Int64
	case reflect.Uint8:
		return Uint8
	case reflect.Uint16:
		return Uint16
	case reflect.Uint32:
		return Uint32
	case reflect.Uint64:
		return Uint64
	case reflect.Uint, reflect.Uintptr:
		if strconv.IntSize == 32 {
			return Uint32
		}
		return Uint64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Complex64:
		return Complex64
	case reflect.Complex128:
		return Complex128
	}
	return Invalid
}

// DTypeOf returns the dtype FromSlice uses for elements of type T.
func DTypeOf[T Element]() DType {
	return dtypeOfKind(reflect.TypeFor[T]().Kind())
}
