package hwrap

type config struct {
	defensiveCopy bool
	eagerHash     bool
}

// Option configures Wrap.
type Option func(*config)

// WithDefensiveCopy makes Wrap freeze a private copy instead of the caller's
// array, so no alias the caller retains can reach the wrapped data.
func WithDefensiveCopy() Option {
	return func(c *config) { c.defensiveCopy = true }
}

// WithEagerHash computes the hash during Wrap rather than on first use.
func WithEagerHash() Option {
	return func(c *config) { c.eagerHash = true }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
