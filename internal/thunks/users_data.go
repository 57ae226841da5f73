package thunks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"curio-cli/internal/fetch"
	"curio-cli/internal/reducers"
	"curio-cli/internal/schema"
	"curio-cli/internal/selectors"
)

// ViewUsers fetches public user records (owner names for display).
func (rt *Runtime) ViewUsers(ctx context.Context, userIDs []int) (fetch.Result, []schema.User, error) {
	if len(userIDs) == 0 {
		return fetch.OKEmpty(), nil, nil
	}
	res := rt.Client.Do(ctx, http.MethodPost, "/users/view", map[string]any{"user_ids": userIDs})
	if res.Failed() {
		return res, nil, nil
	}
	var envelope struct {
		Users json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return res, nil, fmt.Errorf("users/view: %w", err)
	}
	users, err := schema.ParseUserList(envelope.Users)
	if err != nil {
		return res, nil, fmt.Errorf("users/view: %w", err)
	}
	rt.Store.Dispatch(reducers.AddUsers{Users: users})
	return res, users, nil
}

func (rt *Runtime) FetchMissingUsers(ctx context.Context, userIDs []int) (fetch.Result, error) {
	missing := selectors.MissingUserIDs(rt.Store.State(), dedupeIDs(userIDs))
	if len(missing) == 0 {
		return fetch.OKEmpty(), nil
	}
	res, _, err := rt.ViewUsers(ctx, missing)
	return res, err
}
