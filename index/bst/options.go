package bst

// Option configures a tree at construction time.
type Option func(*config)

type config struct {
	nodeLimit int
}

// WithNodeLimit caps the number of live nodes. An Insert that would exceed
// the cap fails with index.ErrAllocation and leaves the tree unchanged.
func WithNodeLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.nodeLimit = n
		}
	}
}

func buildConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
