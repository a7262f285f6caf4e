package ndarray_test

import (
	"math"
	"testing"
	"time"

	"github.com/on-the-ground/hwrap/ndarray"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice_ShapeAndDType(t *testing.T) {
	a, err := ndarray.FromSlice([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, ndarray.Int32, a.DType())
	assert.Equal(t, []int{2, 3}, a.Shape())
	assert.Equal(t, []int{3, 1}, a.Strides())
	assert.Equal(t, 6, a.Size())
	assert.True(t, a.IsContiguous())

	v, err := a.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(6), v)
}

func TestFromSlice_DefaultsTo1D(t *testing.T) {
	a, err := ndarray.FromSlice([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, a.Shape())
}

func TestFromSlice_ShapeErrors(t *testing.T) {
	_, err := ndarray.FromSlice([]int8{1, 2, 3}, 2, 2)
	assert.ErrorIs(t, err, ndarray.ErrShapeMismatch)

	_, err = ndarray.FromSlice([]int8{1, 2}, -1, 2)
	assert.ErrorIs(t, err, ndarray.ErrInvalidShape)
}

func TestScalarIsZeroDimensional(t *testing.T) {
	s := ndarray.Scalar(int64(7))
	assert.Equal(t, 0, s.NDim())
	assert.Equal(t, 1, s.Size())
	v, err := s.At()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestSetReadOnly(t *testing.T) {
	a, err := ndarray.FromSlice([]int32{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, a.Set(int32(9), 0))
	v, _ := a.At(0)
	assert.Equal(t, int32(9), v)

	view := a.Transpose()
	a.SetReadOnly()
	assert.False(t, a.Writable())
	assert.False(t, view.Writable(), "views share the frozen buffer")

	assert.ErrorIs(t, a.Set(int32(1), 0), ndarray.ErrReadOnly)
	assert.ErrorIs(t, view.SetBytes([]byte{0, 0, 0, 0}, 0), ndarray.ErrReadOnly)

	cp := a.Copy()
	assert.True(t, cp.Writable())
	require.NoError(t, cp.Set(int32(5), 0))
	v, _ = a.At(0)
	assert.Equal(t, int32(9), v)
}

func TestSet_Errors(t *testing.T) {
	a, err := ndarray.FromSlice([]int32{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Set(1.5, 0, 0), ndarray.ErrTypeMismatch)
	assert.ErrorIs(t, a.Set(int32(1), 2, 0), ndarray.ErrIndexOutOfRange)
	assert.ErrorIs(t, a.Set(int32(1), 0), ndarray.ErrIndexOutOfRange)
}

func TestTranspose_ContiguousBytesCanonicalizes(t *testing.T) {
	a, err := ndarray.FromSlice([]int16{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	tr := a.Transpose()
	assert.Equal(t, []int{3, 2}, tr.Shape())
	assert.False(t, tr.IsContiguous())

	direct, err := ndarray.FromSlice([]int16{1, 4, 2, 5, 3, 6}, 3, 2)
	require.NoError(t, err)

	got, err := tr.ContiguousBytes()
	require.NoError(t, err)
	want, err := direct.ContiguousBytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, ndarray.ArrayEqual(tr, direct))
	assert.True(t, ndarray.ArrayEqual(tr.Copy(), direct))
}

func TestReshape(t *testing.T) {
	a, err := ndarray.FromSlice([]uint8{1, 2, 3, 4})
	require.NoError(t, err)

	b, err := a.Reshape(2, -1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, b.Shape())

	require.NoError(t, b.Set(uint8(9), 1, 1))
	v, _ := a.At(3)
	assert.Equal(t, uint8(9), v, "reshape of a contiguous array is a view")

	_, err = a.Reshape(3, -1)
	assert.ErrorIs(t, err, ndarray.ErrInvalidShape)
	_, err = a.Reshape(3)
	assert.ErrorIs(t, err, ndarray.ErrShapeMismatch)

	// non-contiguous input is copied but stays frozen
	a.SetReadOnly()
	c, err := b.Transpose().Reshape(4)
	require.NoError(t, err)
	assert.False(t, c.Writable())
	vals, err := ndarray.ToSlice[uint8](c)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 3, 2, 9}, vals)
}

func TestArrayEqual_NumericSemantics(t *testing.T) {
	z, _ := ndarray.FromSlice([]float64{0, 1})
	nz, _ := ndarray.FromSlice([]float64{math.Copysign(0, -1), 1})
	assert.True(t, ndarray.ArrayEqual(z, nz))

	nan, _ := ndarray.FromSlice([]float64{math.NaN()})
	assert.False(t, ndarray.ArrayEqual(nan, nan))

	i, _ := ndarray.FromSlice([]int64{1, 2})
	f, _ := ndarray.FromSlice([]float64{1, 2})
	assert.False(t, ndarray.ArrayEqual(i, f))
}

func TestObjectsHaveNoBytes(t *testing.T) {
	o, err := ndarray.FromObjects([]any{[]int{1}, "x"})
	require.NoError(t, err)
	assert.False(t, o.DType().FixedWidth())

	_, err = o.ContiguousBytes()
	assert.ErrorIs(t, err, ndarray.ErrNotFixedWidth)

	assert.True(t, ndarray.ArrayEqual(o, o.Copy()))
}

func TestTimesAndDurations(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)
	a, err := ndarray.FromTimes([]time.Time{ts})
	require.NoError(t, err)
	assert.Equal(t, ndarray.DateTime, a.DType())
	v, _ := a.At(0)
	assert.True(t, ts.Equal(v.(time.Time)))

	d, err := ndarray.FromDurations([]time.Duration{time.Second, time.Minute})
	require.NoError(t, err)
	assert.Equal(t, ndarray.TimeDelta, d.DType())
	require.NoError(t, d.Set(time.Hour, 1))
	vals, err := ndarray.ToSlice[time.Duration](d)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, time.Hour}, vals)

	assert.ErrorIs(t, d.Set(int64(5), 0), ndarray.ErrTypeMismatch)
}

func TestTimesOutOfRange(t *testing.T) {
	early := time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := ndarray.FromTimes([]time.Time{early})
	assert.ErrorIs(t, err, ndarray.ErrTimeOutOfRange)
	_, err = ndarray.FromTimes([]time.Time{late})
	assert.ErrorIs(t, err, ndarray.ErrTimeOutOfRange)

	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a, err := ndarray.FromTimes([]time.Time{ts})
	require.NoError(t, err)
	assert.ErrorIs(t, a.Set(late, 0), ndarray.ErrTimeOutOfRange)
	v, _ := a.At(0)
	assert.True(t, ts.Equal(v.(time.Time)))

	edge := time.Unix(0, math.MaxInt64)
	require.NoError(t, a.Set(edge, 0))
	v, _ = a.At(0)
	assert.True(t, edge.Equal(v.(time.Time)))
}

func TestSet_IntegerNarrowing(t *testing.T) {
	i8, err := ndarray.New(ndarray.Int8, 2)
	require.NoError(t, err)
	require.NoError(t, i8.Set(100, 0))
	require.NoError(t, i8.Set(uint64(7), 1))
	vals, err := ndarray.ToSlice[int8](i8)
	require.NoError(t, err)
	assert.Equal(t, []int8{100, 7}, vals)

	assert.ErrorIs(t, i8.Set(300, 0), ndarray.ErrOverflow)
	assert.ErrorIs(t, i8.Set(int16(-129), 0), ndarray.ErrOverflow)
	v, _ := i8.At(0)
	assert.Equal(t, int8(100), v)

	u8, err := ndarray.New(ndarray.Uint8, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, u8.Set(-1, 0), ndarray.ErrOverflow)
	require.NoError(t, u8.Set(int64(255), 0))

	i64, err := ndarray.New(ndarray.Int64, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, i64.Set(uint64(math.MaxUint64), 0), ndarray.ErrOverflow)
	require.NoError(t, i64.Set(uint32(math.MaxUint32), 0))

	i32, err := ndarray.New(ndarray.Int32, 1)
	require.NoError(t, err)
	require.NoError(t, i32.Set(7, 0))
	v, _ = i32.At(0)
	assert.Equal(t, int32(7), v)
	assert.ErrorIs(t, i32.Set(float32(7), 0), ndarray.ErrTypeMismatch)
}

func TestContiguousBytes_FrozenReturnsCopy(t *testing.T) {
	a, err := ndarray.FromSlice([]uint8{1, 2, 3})
	require.NoError(t, err)

	live, err := a.ContiguousBytes()
	require.NoError(t, err)
	live[0] = 9
	v, _ := a.At(0)
	assert.Equal(t, uint8(9), v)

	a.SetReadOnly()
	frozen, err := a.ContiguousBytes()
	require.NoError(t, err)
	frozen[0] = 42
	v, _ = a.At(0)
	assert.Equal(t, uint8(9), v)
	again, err := a.ContiguousBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 2, 3}, again)
}

func TestFromBytesAliases(t *testing.T) {
	raw := []byte{1, 0, 2, 0}
	a, err := ndarray.FromBytes(ndarray.Uint16, raw)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, a.Shape())

	raw[0] = 5
	v, _ := a.At(0)
	assert.Equal(t, uint16(5), v)

	_, err = ndarray.FromBytes(ndarray.Uint16, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ndarray.ErrShapeMismatch)
	_, err = ndarray.FromBytes(ndarray.Object, nil)
	assert.ErrorIs(t, err, ndarray.ErrNotFixedWidth)
}

func TestParseDType(t *testing.T) {
	for _, dt := range []ndarray.DType{ndarray.Bool, ndarray.Int32, ndarray.Complex128, ndarray.TimeDelta} {
		got, err := ndarray.ParseDType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}
	_, err := ndarray.ParseDType("string")
	assert.ErrorIs(t, err, ndarray.ErrUnknownDType)

	dt, size, err := ndarray.ParseDTypeName("bytes12")
	require.NoError(t, err)
	assert.Equal(t, ndarray.Bytes, dt)
	assert.Equal(t, 12, size)
	dt, size, err = ndarray.ParseDTypeName("float32")
	require.NoError(t, err)
	assert.Equal(t, ndarray.Float32, dt)
	assert.Equal(t, 4, size)
	for _, bad := range []string{"str0", "void", "bytesx", "int32x"} {
		_, _, err = ndarray.ParseDTypeName(bad)
		assert.ErrorIs(t, err, ndarray.ErrUnknownDType, bad)
	}

	assert.Equal(t, ndarray.KindNumber, ndarray.Uint16.Kind())
	assert.Equal(t, ndarray.KindBool, ndarray.Bool.Kind())
	assert.Equal(t, ndarray.KindDateTime, ndarray.DateTime.Kind())
	assert.Equal(t, ndarray.KindObject, ndarray.Object.Kind())
	assert.Equal(t, ndarray.KindBytes, ndarray.Bytes.Kind())
	assert.Equal(t, ndarray.KindStr, ndarray.Str.Kind())
	assert.Equal(t, ndarray.KindVoid, ndarray.Void.Kind())
	assert.Equal(t, 16, ndarray.Complex128.Size())
	assert.Equal(t, ndarray.Int64, ndarray.DTypeOf[int64]())
}
