// Package algebra builds semigroups and monoids whose elements are
// interned handles, so equal products are the same *hwrap.Handle and
// repeated products are served from a bounded cache.
package algebra

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/hwrap/hwrap"
	"github.com/on-the-ground/hwrap/intern"
	"github.com/on-the-ground/hwrap/ndarray"
	"github.com/on-the-ground/hwrap/shared/helper"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

var (
	ErrNonPositivePower = errors.New("algebra: semigroup power must be at least 1")
	ErrNegativePower    = errors.New("algebra: monoid power must be non-negative")
)

// Mult is the associative operation. Its arguments are read-only; it must
// return a new array.
type Mult func(x, y *ndarray.Array) (*ndarray.Array, error)

type config struct {
	cacheSize int64
	logger    *zap.Logger
}

type Option func(*config)

// WithCacheSize bounds the number of cached products. Default 4096.
func WithCacheSize(n int64) Option {
	return func(c *config) { c.cacheSize = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = helper.OrNop(logger) }
}

type Semigroup struct {
	mult     Mult
	elems    *intern.Interner
	products *ristretto.Cache[string, *hwrap.Handle]
	logger   *zap.Logger
}

func NewSemigroup(mult Mult, opts ...Option) (*Semigroup, error) {
	cfg := config{cacheSize: 1 << 12, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cacheSize < 1 {
		return nil, fmt.Errorf("algebra: cache size %d must be positive", cfg.cacheSize)
	}
	products, err := ristretto.NewCache(&ristretto.Config[string, *hwrap.Handle]{
		NumCounters:        10 * cfg.cacheSize,
		MaxCost:            cfg.cacheSize,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("algebra: product cache: %w", err)
	}
	return &Semigroup{
		mult:     mult,
		elems:    intern.New(intern.WithLogger(cfg.logger)),
		products: products,
		logger:   cfg.logger,
	}, nil
}

// Element wraps a and returns the canonical handle for its value.
func (s *Semigroup) Element(a *ndarray.Array) (*hwrap.Handle, error) {
	return s.elems.Wrap(a)
}

// MustElement is Element that panics on error.
func (s *Semigroup) MustElement(a *ndarray.Array) *hwrap.Handle {
	return helper.MustGet(func() (*hwrap.Handle, error) { return s.Element(a) })
}

// Mul returns the canonical handle of x*y.
func (s *Semigroup) Mul(x, y *hwrap.Handle) (*hwrap.Handle, error) {
	x, y = s.elems.Intern(x), s.elems.Intern(y)
	key := x.Key() + y.Key()
	if p, ok := s.products.Get(key); ok {
		return p, nil
	}
	raw, err := s.mult(x.Array(), y.Array())
	if err != nil {
		return nil, fmt.Errorf("algebra: multiply %s by %s: %w", x.DebugString(), y.DebugString(), err)
	}
	p, err := s.elems.Wrap(raw)
	if err != nil {
		return nil, fmt.Errorf("algebra: product: %w", err)
	}
	if !s.products.Set(key, p, 1) {
		s.logger.Debug("product not cached", zap.Uint64("product", p.Hash64()))
	}
	s.products.Wait()
	s.logger.Debug("product computed",
		zap.Uint64("left", x.Hash64()),
		zap.Uint64("right", y.Hash64()),
		zap.Uint64("product", p.Hash64()))
	return p, nil
}

// Pow returns x multiplied by itself n times, n >= 1.
func (s *Semigroup) Pow(x *hwrap.Handle, n int) (*hwrap.Handle, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrNonPositivePower, n)
	}
	base := s.elems.Intern(x)
	var acc *hwrap.Handle
	for {
		if n&1 == 1 {
			if acc == nil {
				acc = base
			} else {
				p, err := s.Mul(acc, base)
				if err != nil {
					return nil, err
				}
				acc = p
			}
		}
		n >>= 1
		if n == 0 {
			return acc, nil
		}
		sq, err := s.Mul(base, base)
		if err != nil {
			return nil, err
		}
		base = sq
	}
}

// Len reports how many distinct elements have been seen.
func (s *Semigroup) Len() int { return s.elems.Len() }

// Close releases the product cache.
func (s *Semigroup) Close() { s.products.Close() }

// Monoid is a Semigroup with an identity element.
type Monoid struct {
	*Semigroup
	identity *hwrap.Handle
}

func NewMonoid(mult Mult, identity *ndarray.Array, opts ...Option) (*Monoid, error) {
	s, err := NewSemigroup(mult, opts...)
	if err != nil {
		return nil, err
	}
	id, err := s.Element(identity)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("algebra: identity: %w", err)
	}
	return &Monoid{Semigroup: s, identity: id}, nil
}

func (m *Monoid) Identity() *hwrap.Handle { return m.identity }

// Pow returns x to the n-th power; the zeroth power is the identity.
func (m *Monoid) Pow(x *hwrap.Handle, n int) (*hwrap.Handle, error) {
	switch {
	case n < 0:
		return nil, fmt.Errorf("%w: %d", ErrNegativePower, n)
	case n == 0:
		return m.identity, nil
	}
	return m.Semigroup.Pow(x, n)
}
