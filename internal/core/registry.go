// Package core owns the status tree of a device: every subsystem State and
// the parent links between them.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/loggerstate"
)

// Handle identifies a subsystem inside one Registry.
type Handle int

// NoParent is the parent handle of a root subsystem.
const NoParent Handle = -1

var (
	ErrNotFound     = errors.New("subsystem not found")
	ErrDuplicate    = errors.New("subsystem already registered")
	ErrInvalidName  = errors.New("invalid subsystem name")
	ErrInvalidState = errors.New("invalid snapshot")
)

type node struct {
	name   string
	parent Handle
	state  *loggerstate.State
}

// Registry owns the States of one device. Parent links are handles into the
// registry, so a subsystem never holds its parent alive on its own.
// Not safe for concurrent use.
type Registry struct {
	device    string
	nodes     []node
	byName    map[string]Handle
	logger    *zap.SugaredLogger
	publisher Publisher
	now       func() time.Time
}

// NewRegistry creates an empty registry for device.
func NewRegistry(device string, opts ...Option) *Registry {
	r := &Registry{
		device: device,
		byName: make(map[string]Handle),
		logger: zap.NewNop().Sugar(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Device() string {
	return r.device
}

// Len returns the number of registered subsystems.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// Add registers a subsystem in Initialize. A parent other than NoParent is
// mirrored to Initialize, as NewState does.
func (r *Registry) Add(name string, parent Handle) (Handle, error) {
	h, err := r.insert(name, parent)
	if err != nil {
		return NoParent, err
	}
	n := &r.nodes[h]
	n.state = loggerstate.NewState(r.stateOf(parent))
	r.watch(h)
	r.logger.Debugw("Subsystem registered", "subsystem", name, "parent", r.Name(parent))
	return h, nil
}

func (r *Registry) insert(name string, parent Handle) (Handle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoParent, ErrInvalidName
	}
	if _, ok := r.byName[name]; ok {
		return NoParent, fmt.Errorf("%q: %w", name, ErrDuplicate)
	}
	if parent != NoParent && !r.valid(parent) {
		return NoParent, fmt.Errorf("parent %d of %q: %w", parent, name, ErrNotFound)
	}
	h := Handle(len(r.nodes))
	r.nodes = append(r.nodes, node{name: name, parent: parent})
	r.byName[name] = h
	return h, nil
}

// watch hooks the registry's logging and publishing onto the state at h.
func (r *Registry) watch(h Handle) {
	name := r.nodes[h].name
	r.nodes[h].state.OnChange(func(t loggerstate.Transition) {
		r.record(name, t)
	})
}

func (r *Registry) record(name string, t loggerstate.Transition) {
	fields := []any{"subsystem", name, "from", t.From.String(), "to", t.To.String()}
	switch {
	case t.To == loggerstate.Error:
		r.logger.Warnw("Subsystem entered error", append(fields, "propagated", t.Propagated)...)
	case t.Propagated:
		r.logger.Infow("Status mirrored from child", fields...)
	default:
		r.logger.Debugw("Status changed", fields...)
	}

	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(name, t, r.now()); err != nil {
		r.logger.Errorw("Failed to publish transition", append(fields, "error", err)...)
	}
}

// Lookup returns the handle registered under name.
func (r *Registry) Lookup(name string) (Handle, error) {
	h, ok := r.byName[name]
	if !ok {
		return NoParent, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return h, nil
}

// Name returns the subsystem name at h, or "" for an unknown handle.
func (r *Registry) Name(h Handle) string {
	if !r.valid(h) {
		return ""
	}
	return r.nodes[h].name
}

// Parent returns the parent handle of h.
func (r *Registry) Parent(h Handle) (Handle, error) {
	if !r.valid(h) {
		return NoParent, r.notFound(h)
	}
	return r.nodes[h].parent, nil
}

// Children returns the direct children of h in registration order.
func (r *Registry) Children(h Handle) []Handle {
	if h == NoParent {
		return nil
	}
	var out []Handle
	for i, n := range r.nodes {
		if n.parent == h {
			out = append(out, Handle(i))
		}
	}
	return out
}

// Roots returns every subsystem without a parent.
func (r *Registry) Roots() []Handle {
	var out []Handle
	for i, n := range r.nodes {
		if n.parent == NoParent {
			out = append(out, Handle(i))
		}
	}
	return out
}

func (r *Registry) SetToInitialize(h Handle) error {
	s, err := r.state(h)
	if err != nil {
		return err
	}
	s.SetToInitialize()
	return nil
}

// SetToWorking changes h alone; the parent keeps its status.
func (r *Registry) SetToWorking(h Handle) error {
	s, err := r.state(h)
	if err != nil {
		return err
	}
	s.SetToWorking()
	return nil
}

func (r *Registry) SetToError(h Handle) error {
	s, err := r.state(h)
	if err != nil {
		return err
	}
	s.SetToError()
	return nil
}

// Status returns the current status of h.
func (r *Registry) Status(h Handle) (loggerstate.Status, error) {
	s, err := r.state(h)
	if err != nil {
		return 0, err
	}
	return s.Status(), nil
}

// Previous returns the status h held before its last update.
func (r *Registry) Previous(h Handle) (loggerstate.Status, error) {
	s, err := r.state(h)
	if err != nil {
		return 0, err
	}
	return s.Previous(), nil
}

func (r *Registry) state(h Handle) (*loggerstate.State, error) {
	if !r.valid(h) {
		return nil, r.notFound(h)
	}
	return r.nodes[h].state, nil
}

func (r *Registry) stateOf(h Handle) *loggerstate.State {
	if !r.valid(h) {
		return nil
	}
	return r.nodes[h].state
}

func (r *Registry) valid(h Handle) bool {
	return h >= 0 && int(h) < len(r.nodes)
}

func (r *Registry) notFound(h Handle) error {
	return fmt.Errorf("handle %d: %w", h, ErrNotFound)
}
