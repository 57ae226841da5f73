// Package reducers defines the typed actions of the client and the pure
// state transitions they trigger.
//
// Each concern contributes a named handler map; Root merges them and panics
// on a duplicate action type at composition time (a duplicate registration is
// a programming error, not a recoverable condition). Dispatching an action
// with no registered handler returns the unchanged snapshot pointer, so
// downstream change detection stays a pointer comparison.
package reducers

import (
	"fmt"

	"curio-cli/internal/state"
)

type Action interface {
	// Type is the registration key of the action ("tags.add").
	Type() string
}

// Handler applies one action to a snapshot. It must be pure: either return
// s unchanged, or a new snapshot sharing every untouched slice.
type Handler func(s *state.State, a Action) *state.State

type Root struct {
	handlers map[string]Handler
}

// NewRoot composes every handler map in the package.
func NewRoot() *Root {
	r := &Root{handlers: map[string]Handler{}}
	r.register(tagHandlers())
	r.register(objectHandlers())
	r.register(editedHandlers())
	r.register(tagsUIHandlers())
	r.register(objectsUIHandlers())
	r.register(sessionHandlers())
	return r
}

func (r *Root) register(m map[string]Handler) {
	for typ, h := range m {
		if _, dup := r.handlers[typ]; dup {
			panic(fmt.Sprintf("reducers: duplicate handler for action type %q", typ))
		}
		r.handlers[typ] = h
	}
}

// Apply runs the handler registered for a, if any.
func (r *Root) Apply(s *state.State, a Action) *state.State {
	h, ok := r.handlers[a.Type()]
	if !ok {
		return s
	}
	return h(s, a)
}
