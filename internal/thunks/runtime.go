// Package thunks implements the client's async operations: each thunk runs on
// the caller's goroutine, talks to the backend through the fetch runner, and
// commits results to the store as actions.
//
// Two layers. Data thunks (AddTag, ViewObjects, ...) perform one backend
// operation and merge the response into the data slices; they carry no UI
// state. UI thunks (LoadTagsPage, SaveCurrentObject, ...) wrap data thunks in
// the page protocol: an atomic re-entrancy guard on the page's fetch flag,
// status transitions, and a commit or a recorded fetch error.
//
// Thunks re-read the store after every await point; snapshots captured before
// a network call may be stale.
package thunks

import (
	"log/slog"

	"curio-cli/internal/fetch"
	"curio-cli/internal/store"
)

type Runtime struct {
	Store  *store.Store
	Client *fetch.Runner
	Log    *slog.Logger
}

func NewRuntime(st *store.Store, client *fetch.Runner, log *slog.Logger) *Runtime {
	if log == nil {
		log = slog.Default()
	}
	return &Runtime{Store: st, Client: client, Log: log}
}

func ptr[T any](v T) *T {
	return &v
}

// dedupeIDs preserves first-occurrence order.
func dedupeIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := map[int]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
