package core

import (
	"time"

	"go.uber.org/zap"

	"github.com/comalice/loggerstate"
)

// Publisher receives every transition recorded by a Registry.
type Publisher interface {
	Publish(subsystem string, t loggerstate.Transition, at time.Time) error
}

// Option applies configuration to a Registry.
type Option func(*Registry)

// WithLogger configures the Registry with a logger. A nil logger is ignored.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPublisher configures the Registry with a transition publisher.
func WithPublisher(p Publisher) Option {
	return func(r *Registry) {
		r.publisher = p
	}
}

// WithClock overrides time.Now for snapshot and publish timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}
