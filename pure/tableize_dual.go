package pure

// TableizeI1O2 memoizes a function returning two values, typically a result
// and an error.
func TableizeI1O2[I1 KeyerOrStringerOrComparable, O1, O2 any](
	pureFn func(I1) (O1, O2),
	maxTableSize uint32,
) func(I1) (O1, O2) {
	tableized := tableizeDualOutput(
		func(args ...KeyerOrStringerOrComparable) (O1, O2) {
			return pureFn(args[0].(I1))
		},
		maxTableSize,
	)
	return func(i1 I1) (O1, O2) {
		return tableized(i1)
	}
}

func TableizeI2O2[I1, I2 KeyerOrStringerOrComparable, O1, O2 any](
	pureFn func(I1, I2) (O1, O2),
	maxTableSize uint32,
) func(I1, I2) (O1, O2) {
	tableized := tableizeDualOutput(
		func(args ...KeyerOrStringerOrComparable) (O1, O2) {
			return pureFn(args[0].(I1), args[1].(I2))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2) (O1, O2) {
		return tableized(i1, i2)
	}
}

type result[O1 any, O2 any] struct {
	O1 O1
	O2 O2
}

func tableizeDualOutput[O1, O2 any](
	pureFn func(...KeyerOrStringerOrComparable) (O1, O2),
	maxTableSize uint32,
) func(...KeyerOrStringerOrComparable) (O1, O2) {
	memo := NewTrie[result[O1, O2]](maxTableSize)
	return func(args ...KeyerOrStringerOrComparable) (O1, O2) {
		keys := tableKeys(args)
		res, ok := memo.Load(keys)
		if !ok {
			v1, v2 := pureFn(args...)
			res = result[O1, O2]{O1: v1, O2: v2}
			memo.Store(keys, res)
		}
		return res.O1, res.O2
	}
}
