// Package pure memoizes pure functions by their arguments.
//
// Arguments become table keys in this order of preference: values
// implementing Keyer (such as *hwrap.Handle) are keyed by their canonical
// Key, fmt.Stringer values by String, and anything else by itself, which
// must then be comparable.
//
// The table is a bounded Trie of sync.Maps with two generations: once a
// generation has absorbed maxTableSize stores it becomes the old one and a
// fresh generation takes over, dropping whatever was older still.
//
// WARNING: memoizing an impure function (time, I/O, mutable arguments)
// returns stale results.
package pure
