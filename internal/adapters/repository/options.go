package repository

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time. Stores stamp records with it.
type Clock func() time.Time

// IDGen returns a fresh unique id.
type IDGen func() string

// base carries the dependencies every store shares.
type base struct {
	now   Clock
	newID IDGen
}

func defaultBase() base {
	return base{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Option applies a configuration option to a store.
type Option func(*base)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(b *base) {
		if c != nil {
			b.now = c
		}
	}
}

// WithIDGen overrides the id generator.
func WithIDGen(g IDGen) Option {
	return func(b *base) {
		if g != nil {
			b.newID = g
		}
	}
}

func newBase(opts []Option) base {
	b := defaultBase()
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
