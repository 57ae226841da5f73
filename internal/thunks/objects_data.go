package thunks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"curio-cli/internal/fetch"
	"curio-cli/internal/reducers"
	"curio-cli/internal/schema"
	"curio-cli/internal/selectors"
	"curio-cli/internal/state"
)

type objectSaveRequest struct {
	Object objectSavePayload `json:"object"`
}

type objectSavePayload struct {
	ObjectID          int               `json:"object_id,omitempty"`
	ObjectType        schema.ObjectType `json:"object_type"`
	ObjectName        string            `json:"object_name"`
	ObjectDescription string            `json:"object_description"`
	IsPublished       bool              `json:"is_published"`
	DisplayInFeed     bool              `json:"display_in_feed"`
	FeedTimestamp     *time.Time        `json:"feed_timestamp"`
	ObjectData        any               `json:"object_data"`
	// AddedTags mixes resolved ids (numbers) and pending names (strings);
	// the backend resolves or creates the named ones.
	AddedTags     []any `json:"added_tags"`
	RemovedTagIDs []int `json:"removed_tag_ids"`
}

// SavedObject is the merged outcome of a successful object save: the
// authoritative attributes plus the tag delta the backend actually applied
// (pending names resolved to ids).
type SavedObject struct {
	Attributes    schema.ObjectAttributes
	AddedTagIDs   []int
	RemovedTagIDs []int
}

// AddObject creates a new object from a draft. Precondition failures
// (validation, name uniqueness among cached objects) return NotRun.
func (rt *Runtime) AddObject(ctx context.Context, draft state.EditedObject) (fetch.Result, *SavedObject, error) {
	payload, precondition := buildSavePayload(draft, false)
	if precondition != "" {
		return fetch.NotRun(precondition), nil, nil
	}
	if selectors.ObjectNameExists(rt.Store.State(), payload.ObjectName, 0) {
		return fetch.NotRun("object name is already taken"), nil, nil
	}
	return rt.saveObject(ctx, http.MethodPost, "/objects/add", draft, payload)
}

// UpdateObject saves an existing object's draft.
func (rt *Runtime) UpdateObject(ctx context.Context, draft state.EditedObject) (fetch.Result, *SavedObject, error) {
	if draft.ObjectID <= 0 {
		return fetch.NotRun("object id is required for update"), nil, nil
	}
	payload, precondition := buildSavePayload(draft, true)
	if precondition != "" {
		return fetch.NotRun(precondition), nil, nil
	}
	if selectors.ObjectNameExists(rt.Store.State(), payload.ObjectName, draft.ObjectID) {
		return fetch.NotRun("object name is already taken"), nil, nil
	}
	return rt.saveObject(ctx, http.MethodPut, "/objects/update", draft, payload)
}

func (rt *Runtime) saveObject(ctx context.Context, method, path string, draft state.EditedObject, payload objectSavePayload) (fetch.Result, *SavedObject, error) {
	res := rt.Client.Do(ctx, method, path, objectSaveRequest{Object: payload})
	if res.Failed() {
		return res, nil, nil
	}

	var envelope struct {
		Object json.RawMessage `json:"object"`
	}
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return res, nil, fmt.Errorf("%s: %w", path, err)
	}
	attrs, err := schema.ParseObjectAttributes(envelope.Object)
	if err != nil {
		return res, nil, fmt.Errorf("%s: %w", path, err)
	}
	var extra struct {
		TagUpdates struct {
			AddedTagIDs   []int `json:"added_tag_ids"`
			RemovedTagIDs []int `json:"removed_tag_ids"`
		} `json:"tag_updates"`
	}
	if err := json.Unmarshal(envelope.Object, &extra); err != nil {
		return res, nil, fmt.Errorf("%s: %w", path, err)
	}

	saved := &SavedObject{
		Attributes:    attrs,
		AddedTagIDs:   extra.TagUpdates.AddedTagIDs,
		RemovedTagIDs: extra.TagUpdates.RemovedTagIDs,
	}

	// The backend echoes attributes only; the accepted payload is the one we
	// sent, so the draft's copy becomes the cached payload.
	rt.Store.Dispatch(reducers.AddObjects{Objects: []schema.ObjectAttributes{attrs}})
	rt.Store.Dispatch(reducers.AddObjectData{Data: []schema.ObjectData{draftObjectData(attrs.ObjectID, draft)}})
	rt.Store.Dispatch(reducers.UpdateObjectsTags{
		ObjectID:      attrs.ObjectID,
		AddedTagIDs:   saved.AddedTagIDs,
		RemovedTagIDs: saved.RemovedTagIDs,
	})
	return res, saved, nil
}

// buildSavePayload validates the draft and shapes it for the wire. The
// returned string is a precondition failure message, empty when valid.
func buildSavePayload(draft state.EditedObject, update bool) (objectSavePayload, string) {
	name := strings.TrimSpace(draft.ObjectName)
	if name == "" {
		return objectSavePayload{}, "object name is required"
	}
	if len(name) > 255 {
		return objectSavePayload{}, "object name is too long (255 characters max)"
	}
	if !schema.ValidObjectType(draft.ObjectType) {
		return objectSavePayload{}, fmt.Sprintf("unknown object type %q", draft.ObjectType)
	}

	var data any
	switch draft.ObjectType {
	case schema.ObjectTypeLink:
		if err := schema.ValidateLink(draft.Link); err != nil {
			return objectSavePayload{}, err.Error()
		}
		data = draft.Link
	case schema.ObjectTypeMarkdown:
		if err := schema.ValidateMarkdown(draft.Markdown); err != nil {
			return objectSavePayload{}, err.Error()
		}
		data = draft.Markdown
	case schema.ObjectTypeToDoList:
		if err := schema.ValidateToDoList(draft.ToDoList); err != nil {
			return objectSavePayload{}, err.Error()
		}
		data = draft.ToDoList
	case schema.ObjectTypeComposite:
		if err := schema.ValidateComposite(draft.Composite); err != nil {
			return objectSavePayload{}, err.Error()
		}
		for _, id := range draft.Composite.SubobjectIDs() {
			if id <= 0 {
				return objectSavePayload{}, "composite references unsaved subobjects"
			}
		}
		data = draft.Composite
	}

	payload := objectSavePayload{
		ObjectType:        draft.ObjectType,
		ObjectName:        name,
		ObjectDescription: draft.ObjectDescription,
		IsPublished:       draft.IsPublished,
		DisplayInFeed:     draft.DisplayInFeed,
		ObjectData:        data,
		AddedTags:         []any{},
		RemovedTagIDs:     draft.RemovedTagIDs,
	}
	if update {
		payload.ObjectID = draft.ObjectID
	}
	if !draft.FeedTimestamp.IsZero() {
		payload.FeedTimestamp = ptr(draft.FeedTimestamp)
	}
	if payload.RemovedTagIDs == nil {
		payload.RemovedTagIDs = []int{}
	}
	for _, ref := range draft.AddedTags {
		if id, ok := ref.Resolved(); ok {
			payload.AddedTags = append(payload.AddedTags, id)
			continue
		}
		if name, ok := ref.PendingName(); ok {
			payload.AddedTags = append(payload.AddedTags, name)
		}
	}
	return payload, ""
}

func draftObjectData(objectID int, draft state.EditedObject) schema.ObjectData {
	d := schema.ObjectData{ObjectID: objectID, ObjectType: draft.ObjectType}
	switch draft.ObjectType {
	case schema.ObjectTypeLink:
		l := draft.Link
		d.Link = &l
	case schema.ObjectTypeMarkdown:
		m := draft.Markdown
		d.Markdown = &m
	case schema.ObjectTypeToDoList:
		l := draft.ToDoList
		d.ToDoList = &l
	case schema.ObjectTypeComposite:
		c := draft.Composite
		d.Composite = &c
	}
	return d
}

// ViewObjects fetches attributes for objectIDs and payloads for
// objectDataIDs, merging both into the store. Either list may be empty.
func (rt *Runtime) ViewObjects(ctx context.Context, objectIDs, objectDataIDs []int) (fetch.Result, error) {
	if len(objectIDs) == 0 && len(objectDataIDs) == 0 {
		return fetch.OKEmpty(), nil
	}
	res := rt.Client.Do(ctx, http.MethodPost, "/objects/view", map[string]any{
		"object_ids":      emptyIfNil(objectIDs),
		"object_data_ids": emptyIfNil(objectDataIDs),
	})
	if res.Failed() {
		return res, nil
	}
	var envelope struct {
		Objects    json.RawMessage `json:"objects"`
		ObjectData json.RawMessage `json:"object_data"`
	}
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return res, fmt.Errorf("objects/view: %w", err)
	}
	var objects []schema.ObjectAttributes
	if len(envelope.Objects) > 0 {
		var err error
		objects, err = schema.ParseObjectAttributesList(envelope.Objects)
		if err != nil {
			return res, fmt.Errorf("objects/view: %w", err)
		}
	}
	var data []schema.ObjectData
	if len(envelope.ObjectData) > 0 {
		var err error
		data, err = schema.ParseObjectDataList(envelope.ObjectData)
		if err != nil {
			return res, fmt.Errorf("objects/view: %w", err)
		}
	}
	rt.Store.Dispatch(reducers.AddObjects{Objects: objects})
	rt.Store.Dispatch(reducers.AddObjectData{Data: data})
	return res, nil
}

// DeleteObjects deletes objects (optionally with composite subobjects) and
// scrubs them locally, treating a 404 as already-gone.
func (rt *Runtime) DeleteObjects(ctx context.Context, objectIDs []int, deleteSubobjects bool) fetch.Result {
	if len(objectIDs) == 0 {
		return fetch.OKEmpty()
	}
	res := rt.Client.Do(ctx, http.MethodDelete, "/objects/delete", map[string]any{
		"object_ids":        objectIDs,
		"delete_subobjects": deleteSubobjects,
	})
	if !res.Failed() || res.Status == http.StatusNotFound {
		rt.Store.Dispatch(reducers.DeleteObjects{ObjectIDs: objectIDs, DeleteSubobjects: deleteSubobjects})
	}
	return res
}

type objectsPageRequest struct {
	PaginationInfo objectsPageParams `json:"pagination_info"`
}

type objectsPageParams struct {
	Page         int                 `json:"page"`
	ItemsPerPage int                 `json:"items_per_page"`
	OrderBy      string              `json:"order_by"`
	SortOrder    string              `json:"sort_order"`
	FilterText   string              `json:"filter_text,omitempty"`
	ObjectTypes  []schema.ObjectType `json:"object_types,omitempty"`
	TagsFilter   []int               `json:"tags_filter,omitempty"`
}

// GetPageObjectIDs resolves one page of the objects listing.
func (rt *Runtime) GetPageObjectIDs(ctx context.Context, info state.ObjectsPaginationInfo) (fetch.Result, int, []int, error) {
	res := rt.Client.Do(ctx, http.MethodPost, "/objects/get_page_object_ids", objectsPageRequest{PaginationInfo: objectsPageParams{
		Page:         info.Page,
		ItemsPerPage: info.ItemsPerPage,
		OrderBy:      string(info.OrderBy),
		SortOrder:    string(info.SortOrder),
		FilterText:   info.FilterText,
		ObjectTypes:  info.ObjectTypes,
		TagsFilter:   info.TagsFilter,
	}})
	if res.Failed() {
		return res, 0, nil, nil
	}
	var page struct {
		TotalItems int   `json:"total_items"`
		ObjectIDs  []int `json:"object_ids"`
	}
	if err := json.Unmarshal(res.Body, &page); err != nil {
		return res, 0, nil, fmt.Errorf("objects/get_page_object_ids: %w", err)
	}
	return res, page.TotalItems, page.ObjectIDs, nil
}

// FetchMissingObjects views only what the store lacks: attributes for ids
// without cached attributes and, with includeData set, payloads for ids
// without a cached payload of their type.
func (rt *Runtime) FetchMissingObjects(ctx context.Context, objectIDs []int, includeData bool) (fetch.Result, error) {
	s := rt.Store.State()
	ids := dedupeIDs(objectIDs)
	missingAttrs := selectors.MissingObjectIDs(s, ids)
	var missingData []int
	if includeData {
		missingData = selectors.MissingObjectDataIDs(s, ids)
	}
	if len(missingAttrs) == 0 && len(missingData) == 0 {
		return fetch.OKEmpty(), nil
	}
	return rt.ViewObjects(ctx, missingAttrs, missingData)
}

func emptyIfNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
