package thunks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"curio-cli/internal/fetch"
	"curio-cli/internal/reducers"
	"curio-cli/internal/schema"
	"curio-cli/internal/selectors"
	"curio-cli/internal/state"
)

type tagAddRequest struct {
	Tag schema.TagAttributes `json:"tag"`
}

type tagUpdateRequest struct {
	Tag tagUpdatePayload `json:"tag"`
}

type tagUpdatePayload struct {
	TagID          int    `json:"tag_id"`
	TagName        string `json:"tag_name"`
	TagDescription string `json:"tag_description"`
	IsPublished    bool   `json:"is_published"`
}

type tagEnvelope struct {
	Tag json.RawMessage `json:"tag"`
}

// AddTag creates a new tag. Client-side preconditions (attribute validation,
// case-insensitive name uniqueness among cached tags) short-circuit to NotRun
// without touching the network. A non-nil error means the backend accepted
// the request but returned a body violating the schema.
func (rt *Runtime) AddTag(ctx context.Context, attrs schema.TagAttributes) (fetch.Result, *schema.Tag, error) {
	attrs.TagName = strings.TrimSpace(attrs.TagName)
	if err := schema.ValidateTagAttributes(attrs); err != nil {
		return fetch.NotRun(err.Error()), nil, nil
	}
	if selectors.TagNameExists(rt.Store.State(), attrs.TagName, 0) {
		return fetch.NotRun("tag name is already taken"), nil, nil
	}

	res := rt.Client.Do(ctx, http.MethodPost, "/tags/add", tagAddRequest{Tag: attrs})
	if res.Failed() {
		return res, nil, nil
	}
	tag, err := parseTagEnvelope(res.Body)
	if err != nil {
		return res, nil, fmt.Errorf("tags/add: %w", err)
	}
	rt.Store.Dispatch(reducers.AddTags{Tags: []schema.Tag{tag}})
	return res, &tag, nil
}

// UpdateTag saves changed attributes of an existing tag. The uniqueness
// pre-check excludes tagID itself so case-only renames go through.
func (rt *Runtime) UpdateTag(ctx context.Context, tagID int, attrs schema.TagAttributes) (fetch.Result, *schema.Tag, error) {
	attrs.TagName = strings.TrimSpace(attrs.TagName)
	if err := schema.ValidateTagAttributes(attrs); err != nil {
		return fetch.NotRun(err.Error()), nil, nil
	}
	if tagID <= 0 {
		return fetch.NotRun("tag id is required for update"), nil, nil
	}
	if selectors.TagNameExists(rt.Store.State(), attrs.TagName, tagID) {
		return fetch.NotRun("tag name is already taken"), nil, nil
	}

	res := rt.Client.Do(ctx, http.MethodPut, "/tags/update", tagUpdateRequest{Tag: tagUpdatePayload{
		TagID:          tagID,
		TagName:        attrs.TagName,
		TagDescription: attrs.TagDescription,
		IsPublished:    attrs.IsPublished,
	}})
	if res.Failed() {
		return res, nil, nil
	}
	tag, err := parseTagEnvelope(res.Body)
	if err != nil {
		return res, nil, fmt.Errorf("tags/update: %w", err)
	}
	rt.Store.Dispatch(reducers.AddTags{Tags: []schema.Tag{tag}})
	return res, &tag, nil
}

// ViewTags fetches full tag records by id and merges them into the store.
func (rt *Runtime) ViewTags(ctx context.Context, tagIDs []int) (fetch.Result, []schema.Tag, error) {
	if len(tagIDs) == 0 {
		return fetch.OKEmpty(), nil, nil
	}
	res := rt.Client.Do(ctx, http.MethodPost, "/tags/view", map[string]any{"tag_ids": tagIDs})
	if res.Failed() {
		return res, nil, nil
	}
	var envelope struct {
		Tags json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return res, nil, fmt.Errorf("tags/view: %w", err)
	}
	tags, err := schema.ParseTagList(envelope.Tags)
	if err != nil {
		return res, nil, fmt.Errorf("tags/view: %w", err)
	}
	rt.Store.Dispatch(reducers.AddTags{Tags: tags})
	return res, tags, nil
}

// DeleteTags deletes tags on the backend and scrubs them locally. A 404 means
// the tags are already gone server-side; the local scrub still runs so the
// client converges, and the original result is returned for reporting.
func (rt *Runtime) DeleteTags(ctx context.Context, tagIDs []int) fetch.Result {
	if len(tagIDs) == 0 {
		return fetch.OKEmpty()
	}
	res := rt.Client.Do(ctx, http.MethodDelete, "/tags/delete", map[string]any{"tag_ids": tagIDs})
	if !res.Failed() || res.Status == http.StatusNotFound {
		rt.Store.Dispatch(reducers.DeleteTags{TagIDs: tagIDs})
	}
	return res
}

type tagsPageRequest struct {
	PaginationInfo tagsPageParams `json:"pagination_info"`
}

type tagsPageParams struct {
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"items_per_page"`
	OrderBy      string `json:"order_by"`
	SortOrder    string `json:"sort_order"`
	FilterText   string `json:"filter_text,omitempty"`
}

// GetPageTagIDs resolves one page of the tags listing to a total count plus
// ordered ids. It does not fetch the tags themselves.
func (rt *Runtime) GetPageTagIDs(ctx context.Context, info state.TagsPaginationInfo) (fetch.Result, int, []int, error) {
	res := rt.Client.Do(ctx, http.MethodPost, "/tags/get_page_tag_ids", tagsPageRequest{PaginationInfo: tagsPageParams{
		Page:         info.Page,
		ItemsPerPage: info.ItemsPerPage,
		OrderBy:      string(info.OrderBy),
		SortOrder:    string(info.SortOrder),
		FilterText:   info.FilterText,
	}})
	if res.Failed() {
		return res, 0, nil, nil
	}
	var page struct {
		TotalItems int   `json:"total_items"`
		TagIDs     []int `json:"tag_ids"`
	}
	if err := json.Unmarshal(res.Body, &page); err != nil {
		return res, 0, nil, fmt.Errorf("tags/get_page_tag_ids: %w", err)
	}
	return res, page.TotalItems, page.TagIDs, nil
}

// FetchMissingTags views only the ids absent from the store. With nothing
// missing it succeeds without a request.
func (rt *Runtime) FetchMissingTags(ctx context.Context, tagIDs []int) (fetch.Result, error) {
	missing := selectors.MissingTagIDs(rt.Store.State(), dedupeIDs(tagIDs))
	if len(missing) == 0 {
		return fetch.OKEmpty(), nil
	}
	res, _, err := rt.ViewTags(ctx, missing)
	return res, err
}

func parseTagEnvelope(body json.RawMessage) (schema.Tag, error) {
	var envelope tagEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return schema.Tag{}, err
	}
	return schema.ParseTag(envelope.Tag)
}
