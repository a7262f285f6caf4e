package hwrap

import (
	"encoding/binary"

	"github.com/on-the-ground/hwrap/ndarray"
)

// header encodes the identity of an array that is not in its bytes: the
// dtype discriminator, the item size, the number of dimensions and every
// dimension.
func header(a *ndarray.Array) []byte {
	dims := a.ShapeUint64()
	out := make([]byte, 0, 1+8*(len(dims)+2))
	out = append(out, byte(a.DType()))
	out = binary.LittleEndian.AppendUint64(out, uint64(a.ItemSize()))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(dims)))
	for _, d := range dims {
		out = binary.LittleEndian.AppendUint64(out, d)
	}
	return out
}

// canonicalBytes returns the row-major element bytes rewritten so that
// arrays which compare equal also encode equally: floating point negative
// zero becomes positive zero and every non-zero bool byte becomes 1.
func canonicalBytes(a *ndarray.Array) []byte {
	// Wrap admits fixed-width dtypes only, and a frozen array hands back a
	// private copy that is safe to rewrite.
	b, _ := a.ContiguousBytes()
	var (
		width int
		fix   func([]byte)
	)
	switch a.DType() {
	case ndarray.Bool:
		width, fix = 1, fixBool
	case ndarray.Float32, ndarray.Complex64:
		width, fix = 4, fixNegZero32
	case ndarray.Float64, ndarray.Complex128:
		width, fix = 8, fixNegZero64
	default:
		return b
	}
	for i := 0; i+width <= len(b); i += width {
		fix(b[i : i+width])
	}
	return b
}

const (
	negZero32 = 1 << 31
	negZero64 = 1 << 63
)

func fixBool(b []byte) {
	if b[0] > 1 {
		b[0] = 1
	}
}

func fixNegZero32(b []byte) {
	if binary.LittleEndian.Uint32(b) == negZero32 {
		clear(b)
	}
}

func fixNegZero64(b []byte) {
	if binary.LittleEndian.Uint64(b) == negZero64 {
		clear(b)
	}
}
