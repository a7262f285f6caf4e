package pure_test

import (
	"testing"

	"github.com/on-the-ground/hwrap/pure"
	"github.com/stretchr/testify/assert"
)

func TestTrie_BasicUsage(t *testing.T) {
	trie := pure.NewTrie[string](4)

	trie.Store([]pure.TableKey{"a", "b", "c"}, "final")

	val, ok := trie.Load([]pure.TableKey{"a", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "final", val)

	// wrong key path
	_, ok = trie.Load([]pure.TableKey{"a", "b", "x"})
	assert.False(t, ok)
	_, ok = trie.Load([]pure.TableKey{"z", "b", "c"})
	assert.False(t, ok)

	// overwrite existing
	trie.Store([]pure.TableKey{"a", "b", "c"}, "updated")
	val, ok = trie.Load([]pure.TableKey{"a", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "updated", val)
}

func TestTrie_RotationBoundsSize(t *testing.T) {
	trie := pure.NewTrie[int](2)
	trie.Store([]pure.TableKey{1}, 1)
	trie.Store([]pure.TableKey{2}, 2)
	trie.Store([]pure.TableKey{3}, 3) // rotates: {1,2} become the old generation

	for _, k := range []int{1, 2, 3} {
		v, ok := trie.Load([]pure.TableKey{k})
		assert.True(t, ok, k)
		assert.Equal(t, k, v)
	}

	trie.Store([]pure.TableKey{4}, 4)
	trie.Store([]pure.TableKey{5}, 5) // rotates again: {1,2} are dropped

	_, ok := trie.Load([]pure.TableKey{1})
	assert.False(t, ok)
	v, ok := trie.Load([]pure.TableKey{3})
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestTrie_EmptyKeysPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on empty keys, but didn't panic")
		}
	}()
	trie := pure.NewTrie[int](2)
	trie.Load([]pure.TableKey{})
}

func TestTrie_ZeroSizePanics(t *testing.T) {
	assert.Panics(t, func() { pure.NewTrie[int](0) })
}
