package production

import (
	"errors"
	"time"

	"github.com/comalice/loggerstate"
)

var ErrPublisherClosed = errors.New("publisher closed")

// PublishedTransition bundles a transition with the subsystem it happened on.
type PublishedTransition struct {
	Subsystem  string
	Transition loggerstate.Transition
	Timestamp  time.Time
}

// ChannelPublisher forwards transitions to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch      chan<- PublishedTransition
	dropped int
	closed  bool
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedTransition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(subsystem string, t loggerstate.Transition, at time.Time) error {
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.ch <- PublishedTransition{Subsystem: subsystem, Transition: t, Timestamp: at}:
	default:
		p.dropped++
	}
	return nil
}

// Dropped returns how many transitions were lost to a full channel.
func (p *ChannelPublisher) Dropped() int {
	return p.dropped
}

func (p *ChannelPublisher) Close() error {
	if p.closed {
		return ErrPublisherClosed
	}
	p.closed = true
	close(p.ch)
	return nil
}
