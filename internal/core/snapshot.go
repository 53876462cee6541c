package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/comalice/loggerstate"
)

// Snapshot is the serializable view of a Registry.
type Snapshot struct {
	Device     string              `json:"device" yaml:"device"`
	Subsystems []SubsystemSnapshot `json:"subsystems" yaml:"subsystems"`
	Timestamp  time.Time           `json:"timestamp" yaml:"timestamp"`
}

// SubsystemSnapshot is one entry of a Snapshot. Parents always precede
// their children.
type SubsystemSnapshot struct {
	Name     string             `json:"name" yaml:"name"`
	Parent   string             `json:"parent,omitempty" yaml:"parent,omitempty"`
	Status   loggerstate.Status `json:"status" yaml:"status"`
	Previous loggerstate.Status `json:"previous" yaml:"previous"`
}

// Snapshot copies every subsystem in registration order.
func (r *Registry) Snapshot() Snapshot {
	snap := Snapshot{
		Device:     r.device,
		Subsystems: make([]SubsystemSnapshot, 0, len(r.nodes)),
		Timestamp:  r.now(),
	}
	for _, n := range r.nodes {
		snap.Subsystems = append(snap.Subsystems, SubsystemSnapshot{
			Name:     n.name,
			Parent:   r.Name(n.parent),
			Status:   n.state.Status(),
			Previous: n.state.Previous(),
		})
	}
	return snap
}

// Restore builds a Registry from snap. Statuses are set as stored; nothing
// is mirrored and no transition is logged or published.
func Restore(snap Snapshot, opts ...Option) (*Registry, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	r := NewRegistry(snap.Device, opts...)
	for i, sub := range snap.Subsystems {
		parent := NoParent
		if sub.Parent != "" {
			p, err := r.Lookup(sub.Parent)
			if err != nil {
				return nil, fmt.Errorf("subsystem %d (%s) parent: %w", i, sub.Name, err)
			}
			parent = p
		}
		h, err := r.insert(sub.Name, parent)
		if err != nil {
			return nil, fmt.Errorf("subsystem %d: %w", i, err)
		}
		s := &loggerstate.State{}
		s.SetParent(r.stateOf(parent))
		s.Restore(sub.Status, sub.Previous)
		r.nodes[h].state = s
		r.watch(h)
	}
	return r, nil
}

// Validate checks that every status is known and every parent is listed
// before its children.
func (s Snapshot) Validate() error {
	seen := make(map[string]bool, len(s.Subsystems))
	for i, sub := range s.Subsystems {
		if !sub.Status.Valid() || !sub.Previous.Valid() {
			return fmt.Errorf("subsystem %d (%s): %w", i, sub.Name, ErrInvalidState)
		}
		if sub.Parent != "" && !seen[sub.Parent] {
			return fmt.Errorf("subsystem %d (%s) parent %q: %w", i, sub.Name, sub.Parent, ErrNotFound)
		}
		seen[strings.TrimSpace(sub.Name)] = true
	}
	return nil
}
