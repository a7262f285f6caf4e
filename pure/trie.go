package pure

import (
	"sync"
	"sync/atomic"
)

// Trie is a two-generation memo table indexed by a key path.
type Trie[O any] struct {
	mu      sync.Mutex
	memos   [2]atomic.Pointer[sync.Map]
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	t := &Trie[O]{maxSize: maxSize}
	t.memos[0].Store(&sync.Map{})
	t.memos[1].Store(&sync.Map{})
	return t
}

func (t *Trie[O]) Load(keys []TableKey) (O, bool) {
	head := t.headIdx.Load()
	for _, idx := range [2]uint32{head, 1 - head} {
		if v, ok := lookup(t.memos[idx].Load(), keys); ok {
			o, _ := v.(O)
			return o, true
		}
	}
	var zero O
	return zero, false
}

func (t *Trie[O]) Store(keys []TableKey, value O) {
	if t.size.Add(1) > t.maxSize {
		t.rotate()
	}
	m, k := traverse(t.memos[t.headIdx.Load()].Load(), keys)
	m.Store(k, value)
}

// rotate retires the current generation and starts a fresh one in place of
// the previous old generation.
func (t *Trie[O]) rotate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.size.Load() <= t.maxSize {
		return
	}
	next := 1 - t.headIdx.Load()
	t.memos[next].Store(&sync.Map{})
	t.headIdx.Store(next)
	t.size.Store(1)
}

func lookup(m *sync.Map, keys []TableKey) (any, bool) {
	if len(keys) == 0 {
		panic("lookup: empty keys")
	}
	for _, k := range keys[:len(keys)-1] {
		v, ok := m.Load(k)
		if !ok {
			return nil, false
		}
		m = v.(*sync.Map)
	}
	return m.Load(keys[len(keys)-1])
}

func traverse(m *sync.Map, keys []TableKey) (*sync.Map, TableKey) {
	length := len(keys)
	if length == 0 {
		panic("traverse: empty keys")
	}
	for _, k := range keys[:length-1] {
		v, _ := m.LoadOrStore(k, &sync.Map{})
		m = v.(*sync.Map)
	}
	return m, keys[length-1]
}
