package pure

import (
	"fmt"
)

// Keyer is implemented by values identified by a canonical string.
type Keyer interface {
	Key() string
}

// KeyerOrStringerOrComparable documents what Tableize accepts as arguments.
type KeyerOrStringerOrComparable any

// TableKey is a comparable table index derived from an argument.
type TableKey any

type canonicalKey struct {
	typ string
	key string
}

func tableKey(i KeyerOrStringerOrComparable) TableKey {
	switch v := i.(type) {
	case Keyer:
		return canonicalKey{typ: fmt.Sprintf("%T", v), key: v.Key()}
	case fmt.Stringer:
		return v.String()
	}
	return i
}

func tableKeys(args []KeyerOrStringerOrComparable) []TableKey {
	keys := make([]TableKey, len(args))
	for i, arg := range args {
		keys[i] = tableKey(arg)
	}
	return keys
}

func TableizeI1O1[I1 KeyerOrStringerOrComparable, O1 any](
	pureFn func(I1) O1,
	maxTableSize uint32,
) func(I1) O1 {
	tableized := tableize(
		func(args ...KeyerOrStringerOrComparable) O1 {
			return pureFn(args[0].(I1))
		},
		maxTableSize,
	)
	return func(i1 I1) O1 {
		return tableized(i1)
	}
}

func TableizeI2O1[I1, I2 KeyerOrStringerOrComparable, O1 any](
	pureFn func(I1, I2) O1,
	maxTableSize uint32,
) func(I1, I2) O1 {
	tableized := tableize(
		func(args ...KeyerOrStringerOrComparable) O1 {
			return pureFn(args[0].(I1), args[1].(I2))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2) O1 {
		return tableized(i1, i2)
	}
}

func TableizeI3O1[I1, I2, I3 KeyerOrStringerOrComparable, O1 any](
	pureFn func(I1, I2, I3) O1,
	maxTableSize uint32,
) func(I1, I2, I3) O1 {
	tableized := tableize(
		func(args ...KeyerOrStringerOrComparable) O1 {
			return pureFn(args[0].(I1), args[1].(I2), args[2].(I3))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return tableized(i1, i2, i3)
	}
}

func tableize[O any](
	pureFn func(...KeyerOrStringerOrComparable) O,
	maxTableSize uint32,
) func(...KeyerOrStringerOrComparable) O {
	memo := NewTrie[O](maxTableSize)
	return func(args ...KeyerOrStringerOrComparable) O {
		keys := tableKeys(args)
		v, ok := memo.Load(keys)
		if !ok {
			v = pureFn(args...)
			memo.Store(keys, v)
		}
		return v
	}
}
