package store

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	stride int
	newID  func() string
	now    func() time.Time
}

// Option configures a store
type Option func(*options)

// WithStride sets the index gap used when a split has to renumber tokens
func WithStride(stride int) Option {
	return func(o *options) {
		if stride > 0 {
			o.stride = stride
		}
	}
}

// WithIDGenerator replaces uuid generation for new tokens, projects and comments
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock replaces time.Now for creation timestamps
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		stride: 100,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
