package cache

import "time"

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL    time.Duration
	sweepInterval time.Duration
	maxEntries    int
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		defaultTTL:    time.Hour,
		sweepInterval: time.Minute,
	}
}

// WithDefaultTTL sets the expiry used when Set is called with a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithSweepInterval sets how often expired entries are removed.
// Zero disables the background sweep. Default: 1 minute.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.sweepInterval = d
	}
}

// WithMaxEntries caps the number of entries. Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}
