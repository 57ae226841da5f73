package reducers

import (
	"maps"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

type SetAuth struct {
	Auth state.AuthState
}

func (SetAuth) Type() string { return "session.auth" }

type AddUsers struct {
	Users []schema.User
}

func (AddUsers) Type() string { return "session.users.add" }

// SetRedirect requests a one-shot navigation; the shell consumes it with
// ClearRedirect after navigating.
type SetRedirect struct {
	Target string
}

func (SetRedirect) Type() string { return "session.redirect" }

type ClearRedirect struct{}

func (ClearRedirect) Type() string { return "session.redirect.clear" }

func sessionHandlers() map[string]Handler {
	return map[string]Handler{
		SetAuth{}.Type():       applySetAuth,
		AddUsers{}.Type():      applyAddUsers,
		SetRedirect{}.Type():   applySetRedirect,
		ClearRedirect{}.Type(): applyClearRedirect,
	}
}

func applySetAuth(s *state.State, a Action) *state.State {
	act := a.(SetAuth)
	if s.Auth == act.Auth {
		return s
	}
	next := s.Clone()
	next.Auth = act.Auth
	return next
}

func applyAddUsers(s *state.State, a Action) *state.State {
	act := a.(AddUsers)
	if len(act.Users) == 0 {
		return s
	}
	next := s.Clone()
	users := maps.Clone(s.Users)
	for _, u := range act.Users {
		users[u.UserID] = u
	}
	next.Users = users
	return next
}

func applySetRedirect(s *state.State, a Action) *state.State {
	act := a.(SetRedirect)
	if s.RedirectTarget == act.Target {
		return s
	}
	next := s.Clone()
	next.RedirectTarget = act.Target
	return next
}

func applyClearRedirect(s *state.State, a Action) *state.State {
	if s.RedirectTarget == "" {
		return s
	}
	next := s.Clone()
	next.RedirectTarget = ""
	return next
}
