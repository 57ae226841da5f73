package thunks

import (
	"context"
	"net/http"
	"strconv"

	"curio-cli/internal/reducers"
	"curio-cli/internal/schema"
	"curio-cli/internal/selectors"
	"curio-cli/internal/state"
)

// LoadTagsPage fetches the current tags listing page: ids first, then the
// tags the store lacks. A page already loading makes this a no-op; the guard
// and the flag set are one atomic store transition.
func (rt *Runtime) LoadTagsPage(ctx context.Context) error {
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !s.TagsListUI.Fetch.IsFetching
	}, reducers.SetTagsListFetch{IsFetching: true})
	if !started {
		return nil
	}

	info := rt.Store.State().TagsListUI.PaginationInfo
	res, total, ids, err := rt.GetPageTagIDs(ctx, info)
	if err != nil {
		rt.Store.Dispatch(reducers.SetTagsListFetch{FetchError: err.Error()})
		return err
	}
	if res.Failed() {
		rt.Store.Dispatch(reducers.SetTagsListFetch{FetchError: res.Err})
		return nil
	}

	missingRes, err := rt.FetchMissingTags(ctx, ids)
	if err != nil {
		rt.Store.Dispatch(reducers.SetTagsListFetch{FetchError: err.Error()})
		return err
	}
	if missingRes.Failed() {
		rt.Store.Dispatch(reducers.SetTagsListFetch{FetchError: missingRes.Err})
		return nil
	}

	rt.Store.Dispatch(reducers.SetTagsPageIDs{TotalItems: total, TagIDs: ids})
	rt.Store.Dispatch(reducers.SetTagsListFetch{})
	return nil
}

// SetTagsPaginationAndReload commits a pagination change (resetting to page 1
// for non-page changes) and reloads the listing.
func (rt *Runtime) SetTagsPaginationAndReload(ctx context.Context, patch reducers.TagsPaginationPatch) error {
	rt.Store.Dispatch(reducers.SetTagsPagination{Patch: patch})
	return rt.LoadTagsPage(ctx)
}

// DeleteSelectedTags confirms the listing's delete dialog: close it, delete
// the selection, and let the delete reducer shrink the page in place (no
// re-fetch).
func (rt *Runtime) DeleteSelectedTags(ctx context.Context) error {
	ids := rt.Store.State().TagsListUI.SelectedTagIDs
	rt.Store.Dispatch(reducers.SetShowTagsDeleteDialog{Show: false})
	if len(ids) == 0 {
		return nil
	}
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !s.TagsListUI.Fetch.IsFetching
	}, reducers.SetTagsListFetch{IsFetching: true})
	if !started {
		return nil
	}

	res := rt.DeleteTags(ctx, ids)
	if res.Failed() && res.Status != http.StatusNotFound {
		rt.Store.Dispatch(reducers.SetTagsListFetch{FetchError: res.Err})
		return nil
	}
	rt.Store.Dispatch(reducers.SetTagsListFetch{})
	return nil
}

// OpenTagsEditPage resets the tags-edit page for tagID (0 for a new tag) and,
// for existing tags, loads the record when it is not cached yet.
func (rt *Runtime) OpenTagsEditPage(ctx context.Context, tagID int) error {
	rt.Store.Dispatch(reducers.LoadTagsEditPage{TagID: tagID})
	if tagID <= 0 {
		return nil
	}
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !selectors.TagsEditFetching(s)
	}, reducers.SetTagsEditLoadFetch{IsFetching: true})
	if !started {
		return nil
	}

	res, err := rt.FetchMissingTags(ctx, []int{tagID})
	if err != nil {
		rt.Store.Dispatch(reducers.SetTagsEditLoadFetch{FetchError: err.Error()})
		return err
	}
	if res.Failed() {
		rt.Store.Dispatch(reducers.SetTagsEditLoadFetch{FetchError: res.Err})
		return nil
	}
	if _, ok := rt.Store.State().Tags[tagID]; !ok {
		rt.Store.Dispatch(reducers.SetTagsEditLoadFetch{FetchError: "tag not found"})
		return nil
	}
	rt.Store.Dispatch(reducers.SetCurrentTagFromStore{TagID: tagID})
	rt.Store.Dispatch(reducers.SetTagsEditLoadFetch{})
	return nil
}

// SaveCurrentTag saves the tags-edit draft, adding or updating depending on
// the draft id. A successful add requests navigation to the new tag's edit
// page; rapid repeat calls collapse into one network operation.
func (rt *Runtime) SaveCurrentTag(ctx context.Context) error {
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !selectors.TagsEditFetching(s)
	}, reducers.SetTagsEditSaveFetch{IsFetching: true})
	if !started {
		return nil
	}

	draft := rt.Store.State().TagsEditUI.CurrentTag
	attrs := schema.TagAttributes{
		TagName:        draft.TagName,
		TagDescription: draft.TagDescription,
		IsPublished:    draft.IsPublished,
	}
	if draft.TagID > 0 {
		r, s, e := rt.UpdateTag(ctx, draft.TagID, attrs)
		if e != nil {
			rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{FetchError: e.Error()})
			return e
		}
		if r.Failed() {
			rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{FetchError: r.Err})
			return nil
		}
		rt.Store.Dispatch(reducers.SetCurrentTagFromStore{TagID: s.TagID})
		rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{})
		return nil
	}

	r, s, e := rt.AddTag(ctx, attrs)
	if e != nil {
		rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{FetchError: e.Error()})
		return e
	}
	if r.Failed() {
		rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{FetchError: r.Err})
		return nil
	}
	rt.Store.Dispatch(reducers.SetCurrentTagFromStore{TagID: s.TagID})
	rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{})
	rt.Store.Dispatch(reducers.SetRedirect{Target: "/tags/edit/" + strconv.Itoa(s.TagID)})
	return nil
}

// DeleteCurrentTag confirms the edit page's delete dialog and navigates back
// to the listing. A 404 counts as success: the tag is gone either way.
func (rt *Runtime) DeleteCurrentTag(ctx context.Context) error {
	tagID := rt.Store.State().TagsEditUI.CurrentTag.TagID
	rt.Store.Dispatch(reducers.SetShowTagsEditDeleteDialog{Show: false})
	if tagID <= 0 {
		return nil
	}
	started := rt.Store.DispatchIf(func(s *state.State) bool {
		return !selectors.TagsEditFetching(s)
	}, reducers.SetTagsEditSaveFetch{IsFetching: true})
	if !started {
		return nil
	}

	res := rt.DeleteTags(ctx, []int{tagID})
	if res.Failed() && res.Status != http.StatusNotFound {
		rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{FetchError: res.Err})
		return nil
	}
	rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{})
	rt.Store.Dispatch(reducers.SetRedirect{Target: "/tags/list"})
	return nil
}
