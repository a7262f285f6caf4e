package hwrap

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/on-the-ground/hwrap/ndarray"
)

const (
	// DebugElemLimit is the element count past which DebugString
	// summarizes long axes.
	DebugElemLimit = 64
	// DebugDataLimit caps the rendered data of DebugString, in runes.
	DebugDataLimit = 512
)

// Handle is an immutable, hashable view of an ndarray.Array.
//
// Wrap freezes the array's buffer; the hash over dtype, shape and row-major
// content is computed once and reused. Callers must not keep writing through
// aliases that bypass the read-only flag (ndarray.FromBytes buffers); doing
// so leaves the cached hash stale. Use WithDefensiveCopy when that cannot be
// guaranteed.
//
// A Handle must not be copied; pass *Handle.
type Handle struct {
	data *ndarray.Array

	once   sync.Once
	hashed atomic.Bool
	hash   uint64
}

// Wrap freezes a and returns a handle over it.
func Wrap(a *ndarray.Array, opts ...Option) (*Handle, error) {
	if a == nil {
		return nil, ErrNilArray
	}
	if !a.DType().FixedWidth() {
		return nil, &UnsupportedElementTypeError{DType: a.DType()}
	}
	cfg := newConfig(opts)
	if cfg.defensiveCopy {
		a = a.Copy()
	}
	a.SetReadOnly()
	h := &Handle{data: a}
	if cfg.eagerHash {
		h.Hash64()
	}
	return h, nil
}

// MustWrap is Wrap that panics on error.
func MustWrap(a *ndarray.Array, opts ...Option) *Handle {
	h, err := Wrap(a, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// Hash64 returns the xxhash64 of the dtype, item size and shape followed
// by the canonical element bytes.
func (h *Handle) Hash64() uint64 {
	h.once.Do(func() {
		d := xxhash.New()
		_, _ = d.Write(header(h.data))
		_, _ = d.Write(canonicalBytes(h.data))
		h.hash = d.Sum64()
		h.hashed.Store(true)
	})
	return h.hash
}

// Equals reports value equality: same dtype and item size, same shape and every element
// equal in row-major order. NaN elements never compare equal, except that a
// handle always equals itself.
func (h *Handle) Equals(other any) bool {
	o, ok := other.(*Handle)
	if !ok || o == nil || h == nil {
		return false
	}
	if h == o {
		return true
	}
	if h.hashed.Load() && o.hashed.Load() && h.hash != o.hash {
		return false
	}
	return ndarray.ArrayEqual(h.data, o.data)
}

// Key returns the canonical encoding hashed by Hash64. Equal handles
// without NaN elements have identical keys.
func (h *Handle) Key() string {
	var sb strings.Builder
	sb.Write(header(h.data))
	sb.Write(canonicalBytes(h.data))
	return sb.String()
}

func (h *Handle) Shape() []int { return h.data.Shape() }

func (h *Handle) DType() ndarray.DType { return h.data.DType() }

// ItemSize is the per-element width in bytes; for bytes, str and void it
// is the declared fixed width rather than a property of the dtype.
func (h *Handle) ItemSize() int { return h.data.ItemSize() }

// Array returns the wrapped array itself, not a copy. It is read-only:
// Set fails with ndarray.ErrReadOnly.
func (h *Handle) Array() *ndarray.Array { return h.data }

// Copy returns a writable copy of the wrapped array.
func (h *Handle) Copy() *ndarray.Array { return h.data.Copy() }

func (h *Handle) String() string {
	body := ndarray.Format(h.data, 1000)
	return "hwrap<\n  " + strings.ReplaceAll(body, "\n", "\n  ") + "\n>"
}

// DebugString is a bounded one-line description.
func (h *Handle) DebugString() string {
	body := strings.Join(strings.Fields(ndarray.Format(h.data, DebugElemLimit)), " ")
	if r := []rune(body); len(r) > DebugDataLimit {
		body = string(r[:DebugDataLimit]) + "..."
	}
	return fmt.Sprintf("hwrap.Handle(shape=%s, dtype=%s, data=%s)",
		ndarray.FormatShape(h.data.Shape()), h.data.DTypeName(), body)
}

func (h *Handle) GoString() string { return h.DebugString() }

var debugHeader = regexp.MustCompile(`^hwrap\.Handle\(shape=(\([0-9, ]*\)), dtype=([a-z0-9]+), data=`)

// DebugHeader is the metadata prefix of a DebugString.
type DebugHeader struct {
	Shape    []int
	DType    ndarray.DType
	ItemSize int
}

// ParseDebugHeader recovers the shape, dtype and item size from a
// DebugString.
func ParseDebugHeader(s string) (DebugHeader, error) {
	m := debugHeader.FindStringSubmatch(s)
	if m == nil {
		return DebugHeader{}, fmt.Errorf("%w: %q", ErrMalformedDebugString, s)
	}
	shape, err := ndarray.ParseShape(m[1])
	if err != nil {
		return DebugHeader{}, fmt.Errorf("%w: %w", ErrMalformedDebugString, err)
	}
	dt, size, err := ndarray.ParseDTypeName(m[2])
	if err != nil {
		return DebugHeader{}, fmt.Errorf("%w: %w", ErrMalformedDebugString, err)
	}
	return DebugHeader{Shape: shape, DType: dt, ItemSize: size}, nil
}
