package loggerstate

// Transition records one status update of a State.
type Transition struct {
	From Status
	To   Status
	// Propagated is set when the update was mirrored from a child.
	Propagated bool
}

// State is the status holder of one subsystem.
type State struct {
	status   Status
	previous Status
	// parent is a back-reference. The child never controls its lifetime.
	parent   *State
	onChange []func(Transition)
}

// NewState creates a State in Initialize. A non-nil parent is attached
// first, so it is mirrored to Initialize as well.
func NewState(parent *State) *State {
	s := &State{parent: parent}
	s.SetToInitialize()
	return s
}

// SetParent attaches parent, or detaches the current one when nil.
// No status changes.
func (s *State) SetParent(parent *State) {
	s.parent = parent
}

func (s *State) Parent() *State {
	return s.parent
}

// Status returns the current status.
func (s *State) Status() Status {
	return s.status
}

// Previous returns the status held before the last update.
func (s *State) Previous() Status {
	return s.previous
}

// OnChange registers fn to run after every update of s, mirrored ones
// included.
func (s *State) OnChange(fn func(Transition)) {
	if fn == nil {
		return
	}
	s.onChange = append(s.onChange, fn)
}

func (s *State) SetToInitialize() {
	s.update(Initialize, false)
	s.mirror(Initialize)
}

// SetToWorking never touches the parent.
func (s *State) SetToWorking() {
	s.update(Working, false)
}

func (s *State) SetToError() {
	s.update(Error, false)
	s.mirror(Error)
}

// mirror updates the parent only; the grandparent is left alone.
func (s *State) mirror(to Status) {
	if s.parent == nil {
		return
	}
	s.parent.update(to, true)
}

func (s *State) update(to Status, propagated bool) {
	t := Transition{From: s.status, To: to, Propagated: propagated}
	s.previous = s.status
	s.status = to
	for _, fn := range s.onChange {
		fn(t)
	}
}

// Restore overwrites both fields as loaded from a snapshot. Hooks do not run
// and nothing is mirrored.
func (s *State) Restore(status, previous Status) {
	s.status = status
	s.previous = previous
}
