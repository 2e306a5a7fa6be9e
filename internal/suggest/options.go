package suggest

import (
	"fmt"
	"math"
)

const (
	DefaultMinPlaces  = 20
	DefaultMatchRatio = 0.7
)

// Options are the tunables interpolated into the prompt.
type Options struct {
	MinPlaces  int
	MatchRatio float64
}

// Option overrides one tunable for a generator or a single call.
type Option func(*Options)

func WithMinPlaces(n int) Option {
	return func(o *Options) { o.MinPlaces = n }
}

func WithMatchRatio(r float64) Option {
	return func(o *Options) { o.MatchRatio = r }
}

// DefaultOptions returns the tunables used when nothing is configured.
func DefaultOptions() Options {
	return Options{MinPlaces: DefaultMinPlaces, MatchRatio: DefaultMatchRatio}
}

func (o Options) apply(opts []Option) Options {
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Validate checks the tunables are usable in a prompt.
func (o Options) Validate() error {
	if o.MinPlaces < 1 {
		return fmt.Errorf("%w: min places must be at least 1, got %d", ErrValidation, o.MinPlaces)
	}
	if math.IsNaN(o.MatchRatio) || o.MatchRatio < 0 || o.MatchRatio > 1 {
		return fmt.Errorf("%w: match ratio must be within [0,1], got %v", ErrValidation, o.MatchRatio)
	}
	return nil
}

// MatchPercent is the match ratio as a whole percentage, truncated (0.7 -> 70, 0.29 -> 28).
func (o Options) MatchPercent() int {
	return int(o.MatchRatio * 100)
}
