package intern_test

import (
	"math"
	"sync"
	"testing"

	"github.com/on-the-ground/hwrap/hwrap"
	"github.com/on-the-ground/hwrap/intern"
	"github.com/on-the-ground/hwrap/ndarray"
	"github.com/on-the-ground/hwrap/shared/helper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func arr[T ndarray.Element](t *testing.T, data []T, shape ...int) *ndarray.Array {
	t.Helper()
	a, err := ndarray.FromSlice(data, shape...)
	require.NoError(t, err)
	return a
}

func TestInterner_ReturnsCanonicalHandle(t *testing.T) {
	in := intern.New(intern.WithLogger(helper.NewConsoleLogger(zapcore.DebugLevel)))

	first, err := in.Wrap(arr(t, []int32{1, 1, 1, 1}, 2, 2))
	require.NoError(t, err)
	second, err := in.Wrap(arr(t, []int32{1, 1, 1, 1}, 2, 2))
	require.NoError(t, err)
	other, err := in.Wrap(arr(t, []int32{1, 1, 1, 1}))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, in.Len())

	got, ok := in.Lookup(hwrap.MustWrap(arr(t, []int32{1, 1, 1, 1}, 2, 2)))
	assert.True(t, ok)
	assert.Same(t, first, got)

	_, ok = in.Lookup(hwrap.MustWrap(arr(t, []int32{0, 1, 1, 1}, 2, 2)))
	assert.False(t, ok)
}

func TestInterner_PropagatesWrapErrors(t *testing.T) {
	in := intern.New()
	o, err := ndarray.FromObjects([]any{struct{}{}})
	require.NoError(t, err)

	_, err = in.Wrap(o)
	assert.ErrorIs(t, err, hwrap.ErrUnsupportedElementType)
	assert.Equal(t, 0, in.Len())
}

func TestInterner_NaNHandlesStayDistinct(t *testing.T) {
	in := intern.New()
	a, err := in.Wrap(arr(t, []float64{math.NaN()}))
	require.NoError(t, err)
	b, err := in.Wrap(arr(t, []float64{math.NaN()}))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Same(t, a, in.Intern(a))
	assert.Equal(t, 2, in.Len())
}

func TestInterner_WrapOptions(t *testing.T) {
	in := intern.New(intern.WithWrapOptions(hwrap.WithDefensiveCopy()))
	src := arr(t, []uint8{1, 2})
	_, err := in.Wrap(src)
	require.NoError(t, err)
	assert.True(t, src.Writable())
}

func TestInterner_Concurrent(t *testing.T) {
	in := intern.New()
	var wg sync.WaitGroup
	results := make([]*hwrap.Handle, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := ndarray.FromSlice([]int64{int64(i % 4), 7})
			if err != nil {
				panic(err)
			}
			h, err := in.Wrap(a)
			if err != nil {
				panic(err)
			}
			results[i] = h
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, in.Len())
	for i, h := range results {
		assert.Same(t, results[i%4], h)
	}
}
