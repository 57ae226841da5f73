package reducers

import (
	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

type SetObjectsPagination struct {
	Patch ObjectsPaginationPatch
}

func (SetObjectsPagination) Type() string { return "objects.list.pagination" }

type ObjectsPaginationPatch struct {
	Page         *int
	ItemsPerPage *int
	OrderBy      *state.ObjectsOrderBy
	SortOrder    *state.SortOrder
	FilterText   *string
	ObjectTypes  *[]schema.ObjectType
	TagsFilter   *[]int
}

type SetObjectsPageIDs struct {
	TotalItems int
	ObjectIDs  []int
}

func (SetObjectsPageIDs) Type() string { return "objects.list.page_ids" }

type ToggleObjectSelection struct {
	ObjectID int
}

func (ToggleObjectSelection) Type() string { return "objects.list.toggle_selection" }

type ClearObjectSelection struct{}

func (ClearObjectSelection) Type() string { return "objects.list.clear_selection" }

type SetObjectsListFetch struct {
	IsFetching bool
	FetchError string
}

func (SetObjectsListFetch) Type() string { return "objects.list.fetch" }

type SetShowObjectsDeleteDialog struct {
	Show bool
}

func (SetShowObjectsDeleteDialog) Type() string { return "objects.list.delete_dialog" }

// LoadObjectsEditPage resets the objects-edit page UI for one draft id.
// Draft creation itself is LoadEditedObject; this only swaps the page state.
type LoadObjectsEditPage struct {
	ObjectID int
}

func (LoadObjectsEditPage) Type() string { return "objects.edit.load" }

type SetObjectsEditLoadFetch struct {
	IsFetching bool
	FetchError string
}

func (SetObjectsEditLoadFetch) Type() string { return "objects.edit.load_fetch" }

type SetObjectsEditSaveFetch struct {
	IsFetching bool
	FetchError string
}

func (SetObjectsEditSaveFetch) Type() string { return "objects.edit.save_fetch" }

type SetShowObjectsEditDeleteDialog struct {
	Show bool
}

func (SetShowObjectsEditDeleteDialog) Type() string { return "objects.edit.delete_dialog" }

// PatchObjectsEditTagInput updates the tag-search dropdown.
type PatchObjectsEditTagInput struct {
	IsVisible   *bool
	Text        *string
	MatchingIDs *[]int
}

func (PatchObjectsEditTagInput) Type() string { return "objects.edit.tag_input" }

func objectsUIHandlers() map[string]Handler {
	return map[string]Handler{
		SetObjectsPagination{}.Type():           applySetObjectsPagination,
		SetObjectsPageIDs{}.Type():              applySetObjectsPageIDs,
		ToggleObjectSelection{}.Type():          applyToggleObjectSelection,
		ClearObjectSelection{}.Type():           applyClearObjectSelection,
		SetObjectsListFetch{}.Type():            applySetObjectsListFetch,
		SetShowObjectsDeleteDialog{}.Type():     applySetShowObjectsDeleteDialog,
		LoadObjectsEditPage{}.Type():            applyLoadObjectsEditPage,
		SetObjectsEditLoadFetch{}.Type():        applySetObjectsEditLoadFetch,
		SetObjectsEditSaveFetch{}.Type():        applySetObjectsEditSaveFetch,
		SetShowObjectsEditDeleteDialog{}.Type(): applySetShowObjectsEditDeleteDialog,
		PatchObjectsEditTagInput{}.Type():       applyPatchObjectsEditTagInput,
	}
}

func applySetObjectsPagination(s *state.State, a Action) *state.State {
	act := a.(SetObjectsPagination)
	p := act.Patch
	ui := s.ObjectsListUI
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
	if p.ObjectTypes != nil {
		info.ObjectTypes = append([]schema.ObjectType{}, (*p.ObjectTypes)...)
		nonPageChange = true
	}
	if p.TagsFilter != nil {
		info.TagsFilter = append([]int{}, (*p.TagsFilter)...)
		nonPageChange = true
	}
	if p.Page != nil {
		info.Page = *p.Page
	}
	if nonPageChange {
		info.Page = 1
	}
	info.CurrentPageObjectIDs = nil

	ui.PaginationInfo = info
	next := s.Clone()
	next.ObjectsListUI = ui
	return next
}

func applySetObjectsPageIDs(s *state.State, a Action) *state.State {
	act := a.(SetObjectsPageIDs)
	ui := s.ObjectsListUI
	ui.PaginationInfo.TotalItems = act.TotalItems
	ui.PaginationInfo.CurrentPageObjectIDs = append([]int{}, act.ObjectIDs...)
	next := s.Clone()
	next.ObjectsListUI = ui
	return next
}

func applyToggleObjectSelection(s *state.State, a Action) *state.State {
	act := a.(ToggleObjectSelection)
	ui := s.ObjectsListUI
	ui.SelectedObjectIDs = toggleID(ui.SelectedObjectIDs, act.ObjectID)
	next := s.Clone()
	next.ObjectsListUI = ui
	return next
}

func applyClearObjectSelection(s *state.State, a Action) *state.State {
	if len(s.ObjectsListUI.SelectedObjectIDs) == 0 {
		return s
	}
	ui := s.ObjectsListUI
	ui.SelectedObjectIDs = nil
	next := s.Clone()
	next.ObjectsListUI = ui
	return next
}

func applySetObjectsListFetch(s *state.State, a Action) *state.State {
	act := a.(SetObjectsListFetch)
	ui := s.ObjectsListUI
	ui.Fetch = fetchStatus(act.IsFetching, act.FetchError)
	next := s.Clone()
	next.ObjectsListUI = ui
	return next
}

func applySetShowObjectsDeleteDialog(s *state.State, a Action) *state.State {
	act := a.(SetShowObjectsDeleteDialog)
	if s.ObjectsListUI.ShowDeleteDialog == act.Show {
		return s
	}
	ui := s.ObjectsListUI
	ui.ShowDeleteDialog = act.Show
	next := s.Clone()
	next.ObjectsListUI = ui
	return next
}

func applyLoadObjectsEditPage(s *state.State, a Action) *state.State {
	act := a.(LoadObjectsEditPage)
	ui := state.NewObjectsEditUI()
	ui.CurrentObjectID = act.ObjectID
	next := s.Clone()
	next.ObjectsEditUI = ui
	return next
}

func applySetObjectsEditLoadFetch(s *state.State, a Action) *state.State {
	act := a.(SetObjectsEditLoadFetch)
	ui := s.ObjectsEditUI
	ui.LoadFetch = fetchStatus(act.IsFetching, act.FetchError)
	next := s.Clone()
	next.ObjectsEditUI = ui
	return next
}

func applySetObjectsEditSaveFetch(s *state.State, a Action) *state.State {
	act := a.(SetObjectsEditSaveFetch)
	ui := s.ObjectsEditUI
	ui.SaveFetch = fetchStatus(act.IsFetching, act.FetchError)
	next := s.Clone()
	next.ObjectsEditUI = ui
	return next
}

func applySetShowObjectsEditDeleteDialog(s *state.State, a Action) *state.State {
	act := a.(SetShowObjectsEditDeleteDialog)
	if s.ObjectsEditUI.ShowDeleteDialog == act.Show {
		return s
	}
	ui := s.ObjectsEditUI
	ui.ShowDeleteDialog = act.Show
	next := s.Clone()
	next.ObjectsEditUI = ui
	return next
}

func applyPatchObjectsEditTagInput(s *state.State, a Action) *state.State {
	act := a.(PatchObjectsEditTagInput)
	ui := s.ObjectsEditUI
	if act.IsVisible != nil {
		ui.TagInput.IsVisible = *act.IsVisible
	}
	if act.Text != nil {
		ui.TagInput.Text = *act.Text
	}
	if act.MatchingIDs != nil {
		ui.TagInput.MatchingIDs = append([]int{}, (*act.MatchingIDs)...)
	}
	next := s.Clone()
	next.ObjectsEditUI = ui
	return next
}
