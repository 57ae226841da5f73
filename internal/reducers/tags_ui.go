package reducers

import (
	"curio-cli/internal/state"
)

// SetTagsPagination merges pagination parameters. Changing any parameter
// other than the page itself resets to page 1; the current page id list is
// always cleared pending re-fetch.
type SetTagsPagination struct {
	Patch TagsPaginationPatch
}

func (SetTagsPagination) Type() string { return "tags.list.pagination" }

type TagsPaginationPatch struct {
	Page         *int
	ItemsPerPage *int
	OrderBy      *state.TagsOrderBy
	SortOrder    *state.SortOrder
	FilterText   *string
}

// SetTagsPageIDs commits a fetched page.
type SetTagsPageIDs struct {
	TotalItems int
	TagIDs     []int
}

func (SetTagsPageIDs) Type() string { return "tags.list.page_ids" }

// ToggleTagSelection flips one id in the selection, keeping the list
// deduplicated and order-preserving.
type ToggleTagSelection struct {
	TagID int
}

func (ToggleTagSelection) Type() string { return "tags.list.toggle_selection" }

type ClearTagSelection struct{}

func (ClearTagSelection) Type() string { return "tags.list.clear_selection" }

type SetTagsListFetch struct {
	IsFetching bool
	FetchError string
}

func (SetTagsListFetch) Type() string { return "tags.list.fetch" }

type SetShowTagsDeleteDialog struct {
	Show bool
}

func (SetShowTagsDeleteDialog) Type() string { return "tags.list.delete_dialog" }

// LoadTagsEditPage resets the tags-edit page for a tag id (0 = new tag),
// seeding the draft from the cached tag when present.
type LoadTagsEditPage struct {
	TagID int
}

func (LoadTagsEditPage) Type() string { return "tags.edit.load" }

// SetCurrentTagFromStore re-seeds the draft from the cached tag (after a
// view fetch or a successful update).
type SetCurrentTagFromStore struct {
	TagID int
}

func (SetCurrentTagFromStore) Type() string { return "tags.edit.seed" }

type PatchCurrentTag struct {
	TagName        *string
	TagDescription *string
	IsPublished    *bool
}

func (PatchCurrentTag) Type() string { return "tags.edit.patch" }

type SetTagsEditLoadFetch struct {
	IsFetching bool
	FetchError string
}

func (SetTagsEditLoadFetch) Type() string { return "tags.edit.load_fetch" }

type SetTagsEditSaveFetch struct {
	IsFetching bool
	FetchError string
}

func (SetTagsEditSaveFetch) Type() string { return "tags.edit.save_fetch" }

type SetShowTagsEditDeleteDialog struct {
	Show bool
}

func (SetShowTagsEditDeleteDialog) Type() string { return "tags.edit.delete_dialog" }

func tagsUIHandlers() map[string]Handler {
	return map[string]Handler{
		SetTagsPagination{}.Type():           applySetTagsPagination,
		SetTagsPageIDs{}.Type():              applySetTagsPageIDs,
		ToggleTagSelection{}.Type():          applyToggleTagSelection,
		ClearTagSelection{}.Type():           applyClearTagSelection,
		SetTagsListFetch{}.Type():            applySetTagsListFetch,
		SetShowTagsDeleteDialog{}.Type():     applySetShowTagsDeleteDialog,
		LoadTagsEditPage{}.Type():            applyLoadTagsEditPage,
		SetCurrentTagFromStore{}.Type():      applySetCurrentTagFromStore,
		PatchCurrentTag{}.Type():             applyPatchCurrentTag,
		SetTagsEditLoadFetch{}.Type():        applySetTagsEditLoadFetch,
		SetTagsEditSaveFetch{}.Type():        applySetTagsEditSaveFetch,
		SetShowTagsEditDeleteDialog{}.Type(): applySetShowTagsEditDeleteDialog,
	}
}

func applySetTagsPagination(s *state.State, a Action) *state.State {
	act := a.(SetTagsPagination)
	p := act.Patch
	ui := s.TagsListUI
	info := ui.PaginationInfo

	nonPageChange := false
	if p.ItemsPerPage != nil && *p.ItemsPerPage != info.ItemsPerPage {
		info.ItemsPerPage = *p.ItemsPerPage
		nonPageChange = true
	}
	if p.OrderBy != nil && *p.OrderBy != info.OrderBy {
		info.OrderBy = *p.OrderBy
		nonPageChange = true
	}
	if p.SortOrder != nil && *p.SortOrder != info.SortOrder {
		info.SortOrder = *p.SortOrder
		nonPageChange = true
	}
	if p.FilterText != nil && *p.FilterText != info.FilterText {
		info.FilterText = *p.FilterText
		nonPageChange = true
	}
	if p.Page != nil {
		info.Page = *p.Page
	}
	if nonPageChange {
		info.Page = 1
	}
	info.CurrentPageTagIDs = nil

	ui.PaginationInfo = info
	next := s.Clone()
	next.TagsListUI = ui
	return next
}

func applySetTagsPageIDs(s *state.State, a Action) *state.State {
	act := a.(SetTagsPageIDs)
	ui := s.TagsListUI
	ui.PaginationInfo.TotalItems = act.TotalItems
	ui.PaginationInfo.CurrentPageTagIDs = append([]int{}, act.TagIDs...)
	next := s.Clone()
	next.TagsListUI = ui
	return next
}

func applyToggleTagSelection(s *state.State, a Action) *state.State {
	act := a.(ToggleTagSelection)
	ui := s.TagsListUI
	ui.SelectedTagIDs = toggleID(ui.SelectedTagIDs, act.TagID)
	next := s.Clone()
	next.TagsListUI = ui
	return next
}

func applyClearTagSelection(s *state.State, a Action) *state.State {
	if len(s.TagsListUI.SelectedTagIDs) == 0 {
		return s
	}
	ui := s.TagsListUI
	ui.SelectedTagIDs = nil
	next := s.Clone()
	next.TagsListUI = ui
	return next
}

func applySetTagsListFetch(s *state.State, a Action) *state.State {
	act := a.(SetTagsListFetch)
	ui := s.TagsListUI
	ui.Fetch = fetchStatus(act.IsFetching, act.FetchError)
	next := s.Clone()
	next.TagsListUI = ui
	return next
}

func applySetShowTagsDeleteDialog(s *state.State, a Action) *state.State {
	act := a.(SetShowTagsDeleteDialog)
	if s.TagsListUI.ShowDeleteDialog == act.Show {
		return s
	}
	ui := s.TagsListUI
	ui.ShowDeleteDialog = act.Show
	next := s.Clone()
	next.TagsListUI = ui
	return next
}

func applyLoadTagsEditPage(s *state.State, a Action) *state.State {
	act := a.(LoadTagsEditPage)
	ui := state.NewTagsEditUI()
	ui.CurrentTag.TagID = act.TagID
	if t, ok := s.Tags[act.TagID]; ok {
		ui.CurrentTag = state.TagDraft{
			TagID:          t.TagID,
			TagName:        t.TagName,
			TagDescription: t.TagDescription,
			IsPublished:    t.IsPublished,
		}
	}
	next := s.Clone()
	next.TagsEditUI = ui
	return next
}

func applySetCurrentTagFromStore(s *state.State, a Action) *state.State {
	act := a.(SetCurrentTagFromStore)
	t, ok := s.Tags[act.TagID]
	if !ok {
		return s
	}
	ui := s.TagsEditUI
	ui.CurrentTag = state.TagDraft{
		TagID:          t.TagID,
		TagName:        t.TagName,
		TagDescription: t.TagDescription,
		IsPublished:    t.IsPublished,
	}
	next := s.Clone()
	next.TagsEditUI = ui
	return next
}

func applyPatchCurrentTag(s *state.State, a Action) *state.State {
	act := a.(PatchCurrentTag)
	ui := s.TagsEditUI
	if act.TagName != nil {
		ui.CurrentTag.TagName = *act.TagName
	}
	if act.TagDescription != nil {
		ui.CurrentTag.TagDescription = *act.TagDescription
	}
	if act.IsPublished != nil {
		ui.CurrentTag.IsPublished = *act.IsPublished
	}
	next := s.Clone()
	next.TagsEditUI = ui
	return next
}

func applySetTagsEditLoadFetch(s *state.State, a Action) *state.State {
	act := a.(SetTagsEditLoadFetch)
	ui := s.TagsEditUI
	ui.LoadFetch = fetchStatus(act.IsFetching, act.FetchError)
	next := s.Clone()
	next.TagsEditUI = ui
	return next
}

func applySetTagsEditSaveFetch(s *state.State, a Action) *state.State {
	act := a.(SetTagsEditSaveFetch)
	ui := s.TagsEditUI
	ui.SaveFetch = fetchStatus(act.IsFetching, act.FetchError)
	next := s.Clone()
	next.TagsEditUI = ui
	return next
}

func applySetShowTagsEditDeleteDialog(s *state.State, a Action) *state.State {
	act := a.(SetShowTagsEditDeleteDialog)
	if s.TagsEditUI.ShowDeleteDialog == act.Show {
		return s
	}
	ui := s.TagsEditUI
	ui.ShowDeleteDialog = act.Show
	next := s.Clone()
	next.TagsEditUI = ui
	return next
}

// fetchStatus builds a FetchStatus that honors the exclusivity invariant:
// a fetch that is in flight never carries an error.
func fetchStatus(isFetching bool, fetchError string) state.FetchStatus {
	if isFetching {
		return state.FetchStatus{IsFetching: true}
	}
	return state.FetchStatus{FetchError: fetchError}
}

func toggleID(ids []int, id int) []int {
	if idx := indexOfInt(ids, id); idx >= 0 {
		return append(append([]int{}, ids[:idx]...), ids[idx+1:]...)
	}
	out := append(append([]int{}, ids...), id)
	return out
}
