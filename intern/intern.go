// Package intern canonicalizes handles: equal arrays map to one *hwrap.Handle,
// so identity comparison can stand in for value comparison.
package intern

import (
	"sync"

	"github.com/on-the-ground/hwrap/hwrap"
	"github.com/on-the-ground/hwrap/ndarray"
	"github.com/on-the-ground/hwrap/shared/helper"

	"go.uber.org/zap"
)

type Interner struct {
	mu      sync.RWMutex
	buckets map[uint64][]*hwrap.Handle
	size    int
	logger  *zap.Logger
	opts    []hwrap.Option
}

type Option func(*Interner)

func WithLogger(logger *zap.Logger) Option {
	return func(i *Interner) { i.logger = helper.OrNop(logger) }
}

// WithWrapOptions sets the options Wrap passes to hwrap.Wrap.
func WithWrapOptions(opts ...hwrap.Option) Option {
	return func(i *Interner) { i.opts = opts }
}

func New(opts ...Option) *Interner {
	i := &Interner{
		buckets: make(map[uint64][]*hwrap.Handle),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Intern returns the canonical handle equal to h, registering h if none
// exists yet.
func (i *Interner) Intern(h *hwrap.Handle) *hwrap.Handle {
	sum := h.Hash64()

	i.mu.RLock()
	canonical, ok := lookup(i.buckets[sum], h)
	i.mu.RUnlock()
	if ok {
		return canonical
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	bucket := i.buckets[sum]
	if canonical, ok := lookup(bucket, h); ok {
		return canonical
	}
	if len(bucket) > 0 {
		i.logger.Debug("hash collision",
			zap.Uint64("hash", sum),
			zap.Int("bucket_len", len(bucket)),
			zap.String("handle", h.DebugString()))
	}
	i.buckets[sum] = append(bucket, h)
	i.size++
	i.logger.Debug("interned",
		zap.Uint64("hash", sum),
		zap.Int("size", i.size))
	return h
}

// Wrap wraps a and interns the result.
func (i *Interner) Wrap(a *ndarray.Array) (*hwrap.Handle, error) {
	h, err := hwrap.Wrap(a, i.opts...)
	if err != nil {
		return nil, err
	}
	return i.Intern(h), nil
}

// Lookup returns the canonical handle equal to h without registering it.
func (i *Interner) Lookup(h *hwrap.Handle) (*hwrap.Handle, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return lookup(i.buckets[h.Hash64()], h)
}

func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.size
}

func lookup(bucket []*hwrap.Handle, h *hwrap.Handle) (*hwrap.Handle, bool) {
	for _, e := range bucket {
		if e.Equals(h) {
			return e, true
		}
	}
	return nil, false
}
