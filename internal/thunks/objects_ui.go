package thunks

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"curio-cli/internal/reducers"
	"curio-cli/internal/schema"
	"curio-cli/internal/selectors"
	"curio-cli/internal/state"
)

// LoadObjectsPage fetches the current objects listing page: ids, then the
// attributes the store lacks. Payloads are not needed for the listing.
func (rt *Runtime) LoadObjectsPage(ctx context.Context) error {
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !s.ObjectsListUI.Fetch.IsFetching
	}, reducers.SetObjectsListFetch{IsFetching: true})
	if !started {
		return nil
	}

	info := rt.Store.State().ObjectsListUI.PaginationInfo
	res, total, ids, err := rt.GetPageObjectIDs(ctx, info)
	if err != nil {
		rt.Store.Dispatch(reducers.SetObjectsListFetch{FetchError: err.Error()})
		return err
	}
	if res.Failed() {
		rt.Store.Dispatch(reducers.SetObjectsListFetch{FetchError: res.Err})
		return nil
	}

	missingRes, err := rt.FetchMissingObjects(ctx, ids, false)
	if err != nil {
		rt.Store.Dispatch(reducers.SetObjectsListFetch{FetchError: err.Error()})
		return err
	}
	if missingRes.Failed() {
		rt.Store.Dispatch(reducers.SetObjectsListFetch{FetchError: missingRes.Err})
		return nil
	}

	// Owner names and tag chips render from these; failures here should not
	// fail the page, the ids still list fine.
	s := rt.Store.State()
	var ownerIDs, tagIDs []int
	for _, id := range ids {
		if o, ok := s.Objects[id]; ok {
			ownerIDs = append(ownerIDs, o.OwnerID)
		}
		tagIDs = append(tagIDs, s.ObjectsTags[id]...)
	}
	if _, err := rt.FetchMissingUsers(ctx, ownerIDs); err != nil {
		rt.Log.Warn("objects page: owner fetch failed", "error", err)
	}
	if _, err := rt.FetchMissingTags(ctx, tagIDs); err != nil {
		rt.Log.Warn("objects page: tag fetch failed", "error", err)
	}

	rt.Store.Dispatch(reducers.SetObjectsPageIDs{TotalItems: total, ObjectIDs: ids})
	rt.Store.Dispatch(reducers.SetObjectsListFetch{})
	return nil
}

func (rt *Runtime) SetObjectsPaginationAndReload(ctx context.Context, patch reducers.ObjectsPaginationPatch) error {
	rt.Store.Dispatch(reducers.SetObjectsPagination{Patch: patch})
	return rt.LoadObjectsPage(ctx)
}

// DeleteSelectedObjects confirms the listing's delete dialog.
func (rt *Runtime) DeleteSelectedObjects(ctx context.Context, deleteSubobjects bool) error {
	ids := rt.Store.State().ObjectsListUI.SelectedObjectIDs
	rt.Store.Dispatch(reducers.SetShowObjectsDeleteDialog{Show: false})
	if len(ids) == 0 {
		return nil
	}
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !s.ObjectsListUI.Fetch.IsFetching
	}, reducers.SetObjectsListFetch{IsFetching: true})
	if !started {
		return nil
	}

	res := rt.DeleteObjects(ctx, ids, deleteSubobjects)
	if res.Failed() && res.Status != http.StatusNotFound {
		rt.Store.Dispatch(reducers.SetObjectsListFetch{FetchError: res.Err})
		return nil
	}
	rt.Store.Dispatch(reducers.SetObjectsListFetch{})
	return nil
}

// OpenObjectsEditPage resets the objects-edit page for objectID and ensures a
// draft exists. New ids (<= 0) take objectType for the default draft and need
// no network. Existing ids load attributes, payload, subobjects of composites,
// and tag names, then clear drafts untouched by the user.
func (rt *Runtime) OpenObjectsEditPage(ctx context.Context, objectID int, objectType schema.ObjectType) error {
	rt.Store.Dispatch(reducers.LoadObjectsEditPage{ObjectID: objectID})
	if objectID <= 0 {
		rt.Store.Dispatch(reducers.LoadEditedObject{ObjectID: objectID, ObjectType: objectType})
		rt.Store.Dispatch(reducers.ClearUnchangedEditedObjects{ExcludeIDs: []int{objectID}})
		return nil
	}

	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !selectors.ObjectsEditFetching(s)
	}, reducers.SetObjectsEditLoadFetch{IsFetching: true})
	if !started {
		return nil
	}

	res, err := rt.FetchMissingObjects(ctx, []int{objectID}, true)
	if err != nil {
		rt.Store.Dispatch(reducers.SetObjectsEditLoadFetch{FetchError: err.Error()})
		return err
	}
	if res.Failed() {
		rt.Store.Dispatch(reducers.SetObjectsEditLoadFetch{FetchError: res.Err})
		return nil
	}

	s := rt.Store.State()
	if _, ok := s.Objects[objectID]; !ok {
		rt.Store.Dispatch(reducers.SetObjectsEditLoadFetch{FetchError: "object not found"})
		return nil
	}

	// A composite is edited together with its subobjects.
	if c, ok := s.Composite[objectID]; ok {
		subRes, err := rt.FetchMissingObjects(ctx, c.SubobjectIDs(), true)
		if err != nil {
			rt.Store.Dispatch(reducers.SetObjectsEditLoadFetch{FetchError: err.Error()})
			return err
		}
		if subRes.Failed() {
			rt.Store.Dispatch(reducers.SetObjectsEditLoadFetch{FetchError: subRes.Err})
			return nil
		}
	}
	if _, err := rt.FetchMissingTags(ctx, rt.Store.State().ObjectsTags[objectID]); err != nil {
		rt.Log.Warn("objects edit: tag fetch failed", "error", err)
	}

	rt.Store.Dispatch(reducers.LoadEditedObject{ObjectID: objectID})
	rt.Store.Dispatch(reducers.ClearUnchangedEditedObjects{ExcludeIDs: []int{objectID}})
	rt.Store.Dispatch(reducers.SetObjectsEditLoadFetch{})
	return nil
}

// SaveCurrentObject saves the objects-edit draft. For composites, new
// subobject drafts (negative ids) are saved first and their references
// remapped to real ids before the parent goes out; a subobject failure aborts
// the whole save with the parent untouched.
func (rt *Runtime) SaveCurrentObject(ctx context.Context) error {
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !selectors.ObjectsEditFetching(s)
	}, reducers.SetObjectsEditSaveFetch{IsFetching: true})
	if !started {
		return nil
	}

	draftID := rt.Store.State().ObjectsEditUI.CurrentObjectID
	draft, ok := rt.Store.State().EditedObjects[draftID]
	if !ok {
		rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: "nothing to save"})
		return nil
	}

	if draft.ObjectType == schema.ObjectTypeComposite {
		for _, subID := range draft.Composite.SubobjectIDs() {
			if subID > 0 {
				continue
			}
			sub, ok := rt.Store.State().EditedObjects[subID]
			if !ok {
				rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: "composite references a missing subobject draft"})
				return nil
			}
			subRes, saved, err := rt.AddObject(ctx, sub)
			if err != nil {
				rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: err.Error()})
				return err
			}
			if subRes.Failed() {
				rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: subRes.Err})
				return nil
			}
			rt.Store.Dispatch(reducers.RemapEditedObjectID{From: subID, To: saved.Attributes.ObjectID})
		}
		// Remaps rewrote the parent's subobject references.
		draft, ok = rt.Store.State().EditedObjects[draftID]
		if !ok {
			rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: "draft disappeared during save"})
			return nil
		}
	}

	var saved *SavedObject
	if draftID > 0 {
		res, s, err := rt.UpdateObject(ctx, draft)
		if err != nil {
			rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: err.Error()})
			return err
		}
		if res.Failed() {
			rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: res.Err})
			return nil
		}
		saved = s
	} else {
		res, s, err := rt.AddObject(ctx, draft)
		if err != nil {
			rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: err.Error()})
			return err
		}
		if res.Failed() {
			rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: res.Err})
			return nil
		}
		saved = s
	}

	// Names for tags the backend created from pending names.
	if _, err := rt.FetchMissingTags(ctx, saved.AddedTagIDs); err != nil {
		rt.Log.Warn("object save: tag fetch failed", "error", err)
	}

	newID := saved.Attributes.ObjectID
	rt.Store.Dispatch(reducers.DropEditedObjects{ObjectIDs: []int{draftID}})
	rt.Store.Dispatch(reducers.LoadEditedObject{ObjectID: newID})
	rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{})
	if draftID <= 0 {
		rt.Store.Dispatch(reducers.SetRedirect{Target: "/objects/edit/" + strconv.Itoa(newID)})
	}
	return nil
}

// DeleteCurrentObject confirms the edit page's delete dialog and navigates
// back to the listing.
func (rt *Runtime) DeleteCurrentObject(ctx context.Context, deleteSubobjects bool) error {
	objectID := rt.Store.State().ObjectsEditUI.CurrentObjectID
	rt.Store.Dispatch(reducers.SetShowObjectsEditDeleteDialog{Show: false})
	if objectID <= 0 {
		// An unsaved draft is discarded locally.
		rt.Store.Dispatch(reducers.DropEditedObjects{ObjectIDs: []int{objectID}})
		rt.Store.Dispatch(reducers.SetRedirect{Target: "/objects/list"})
		return nil
	}
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !selectors.ObjectsEditFetching(s)
	}, reducers.SetObjectsEditSaveFetch{IsFetching: true})
	if !started {
		return nil
	}

	res := rt.DeleteObjects(ctx, []int{objectID}, deleteSubobjects)
	if res.Failed() && res.Status != http.StatusNotFound {
		rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{FetchError: res.Err})
		return nil
	}
	rt.Store.Dispatch(reducers.SetObjectsEditSaveFetch{})
	rt.Store.Dispatch(reducers.SetRedirect{Target: "/objects/list"})
	return nil
}

// SearchObjectTags drives the objects-edit tag dropdown: store the typed
// text, resolve matching tag ids, and commit them only if the text is still
// what the user typed (stale responses are discarded). Dropdown failures are
// silent; an empty input clears the matches.
func (rt *Runtime) SearchObjectTags(ctx context.Context, text string) error {
	rt.Store.Dispatch(reducers.PatchObjectsEditTagInput{
		Text:      ptr(text),
		IsVisible: ptr(strings.TrimSpace(text) != ""),
	})
	if strings.TrimSpace(text) == "" {
		rt.Store.Dispatch(reducers.PatchObjectsEditTagInput{MatchingIDs: ptr([]int{})})
		return nil
	}

	info := state.TagsPaginationInfo{
		Page:         1,
		ItemsPerPage: 10,
		OrderBy:      state.TagsOrderByName,
		SortOrder:    state.SortAsc,
		FilterText:   strings.TrimSpace(text),
	}
	res, _, ids, err := rt.GetPageTagIDs(ctx, info)
	if err != nil {
		return err
	}
	if res.Failed() {
		rt.Log.Debug("tag search failed", "error", res.Err)
		return nil
	}
	if _, err := rt.FetchMissingTags(ctx, ids); err != nil {
		return err
	}

	if rt.Store.State().ObjectsEditUI.TagInput.Text != text {
		return nil
	}
	rt.Store.Dispatch(reducers.PatchObjectsEditTagInput{MatchingIDs: ptr(ids)})
	return nil
}
