package reducers

import (
	"testing"
	"time"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

var testTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func testTag(id int, name string) schema.Tag {
	return schema.Tag{
		TagID:      id,
		TagName:    name,
		CreatedAt:  testTime,
		ModifiedAt: testTime,
	}
}

type unknownAction struct{}

func (unknownAction) Type() string { return "nobody.handles.this" }

func TestApply_UnhandledActionReturnsSamePointer(t *testing.T) {
	root := NewRoot()
	s := state.New()
	if got := root.Apply(s, unknownAction{}); got != s {
		t.Fatalf("expected identical snapshot pointer for unhandled action")
	}
}

func TestRegister_DuplicateHandlerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	r := &Root{handlers: map[string]Handler{}}
	r.register(tagHandlers())
	r.register(tagHandlers())
}

func TestAddTags_MergesAndSharesUnrelatedSlices(t *testing.T) {
	root := NewRoot()
	s := state.New()
	next := root.Apply(s, AddTags{Tags: []schema.Tag{testTag(1, "books")}})
	if next == s {
		t.Fatalf("expected a new snapshot")
	}
	if next.Tags[1].TagName != "books" {
		t.Fatalf("tag not stored: %v", next.Tags)
	}
	if len(s.Tags) != 0 {
		t.Fatalf("previous snapshot mutated")
	}
}

func TestAddTags_LateBindsDraftNames(t *testing.T) {
	root := NewRoot()
	s := state.New()
	s.EditedObjects = map[int]state.EditedObject{
		7: {ObjectID: 7, AddedTags: []state.TagRef{state.UnresolvedTag("newtag")}},
		8: {ObjectID: 8, AddedTags: []state.TagRef{state.UnresolvedTag("unrelated")}},
	}
	next := root.Apply(s, AddTags{Tags: []schema.Tag{testTag(5, "newtag")}})

	if id, ok := next.EditedObjects[7].AddedTags[0].Resolved(); !ok || id != 5 {
		t.Fatalf("expected draft 7 late-bound to 5; got %+v", next.EditedObjects[7].AddedTags)
	}
	if name, ok := next.EditedObjects[8].AddedTags[0].PendingName(); !ok || name != "unrelated" {
		t.Fatalf("unrelated draft rewritten: %+v", next.EditedObjects[8].AddedTags)
	}
}

func TestDeleteTags_ScrubsEveryBackReference(t *testing.T) {
	root := NewRoot()
	s := state.New()
	s.Tags = map[int]schema.Tag{3: testTag(3, "a"), 4: testTag(4, "b"), 5: testTag(5, "c")}
	s.ObjectsTags = map[int][]int{
		10: {3, 5},
		11: {3, 4},
	}
	s.EditedObjects = map[int]state.EditedObject{
		10: {ObjectID: 10, CurrentTagIDs: []int{3, 5}, AddedTags: []state.TagRef{state.ResolvedTag(4)}, RemovedTagIDs: []int{3}},
	}
	s.TagsListUI.PaginationInfo.CurrentPageTagIDs = []int{3, 4, 5}
	s.TagsListUI.SelectedTagIDs = []int{3, 4}

	next := root.Apply(s, DeleteTags{TagIDs: []int{3, 4}})

	if _, ok := next.Tags[3]; ok {
		t.Fatalf("tag 3 still present")
	}
	if got := next.ObjectsTags[10]; len(got) != 1 || got[0] != 5 {
		t.Fatalf("object 10 tags not scrubbed: %v", got)
	}
	if _, ok := next.ObjectsTags[11]; ok {
		t.Fatalf("empty join entry for object 11 retained")
	}
	draft := next.EditedObjects[10]
	if len(draft.CurrentTagIDs) != 1 || draft.CurrentTagIDs[0] != 5 {
		t.Fatalf("draft current tags not scrubbed: %v", draft.CurrentTagIDs)
	}
	if len(draft.AddedTags) != 0 {
		t.Fatalf("resolved added ref to deleted tag retained: %v", draft.AddedTags)
	}
	if len(draft.RemovedTagIDs) != 0 {
		t.Fatalf("removed delta not scrubbed: %v", draft.RemovedTagIDs)
	}
	if got := next.TagsListUI.PaginationInfo.CurrentPageTagIDs; len(got) != 1 || got[0] != 5 {
		t.Fatalf("current page ids not scrubbed: %v", got)
	}
	if got := next.TagsListUI.SelectedTagIDs; len(got) != 0 {
		t.Fatalf("selection not scrubbed: %v", got)
	}
}

func TestSetTagsPagination_SortChangeResetsPage(t *testing.T) {
	root := NewRoot()
	s := state.New()
	s.TagsListUI.PaginationInfo.Page = 4
	s.TagsListUI.PaginationInfo.CurrentPageTagIDs = []int{1, 2}

	orderBy := state.TagsOrderByModifiedAt
	next := root.Apply(s, SetTagsPagination{Patch: TagsPaginationPatch{OrderBy: &orderBy}})

	info := next.TagsListUI.PaginationInfo
	if info.Page != 1 {
		t.Fatalf("expected page reset to 1; got %d", info.Page)
	}
	if len(info.CurrentPageTagIDs) != 0 {
		t.Fatalf("expected current page ids cleared; got %v", info.CurrentPageTagIDs)
	}
	if info.OrderBy != state.TagsOrderByModifiedAt {
		t.Fatalf("order_by not applied")
	}

	// Page-only change keeps other params and does not reset.
	page := 3
	next2 := root.Apply(next, SetTagsPagination{Patch: TagsPaginationPatch{Page: &page}})
	if next2.TagsListUI.PaginationInfo.Page != 3 {
		t.Fatalf("expected page 3; got %d", next2.TagsListUI.PaginationInfo.Page)
	}
}

func TestFetchFlagExclusivity(t *testing.T) {
	root := NewRoot()
	s := state.New()

	// Setting fetching with a stale error must clear the error.
	s.TagsListUI.Fetch = state.FetchStatus{FetchError: "old failure"}
	next := root.Apply(s, SetTagsListFetch{IsFetching: true, FetchError: "ignored"})
	f := next.TagsListUI.Fetch
	if !f.IsFetching || f.FetchError != "" {
		t.Fatalf("exclusivity violated: %+v", f)
	}

	next = root.Apply(next, SetTagsListFetch{IsFetching: false, FetchError: "boom"})
	f = next.TagsListUI.Fetch
	if f.IsFetching || f.FetchError != "boom" {
		t.Fatalf("terminal failure not recorded: %+v", f)
	}
}

func TestToggleTagSelection_DedupPreservesOrder(t *testing.T) {
	root := NewRoot()
	s := state.New()
	s = root.Apply(s, ToggleTagSelection{TagID: 2})
	s = root.Apply(s, ToggleTagSelection{TagID: 1})
	s = root.Apply(s, ToggleTagSelection{TagID: 2}) // deselect
	s = root.Apply(s, ToggleTagSelection{TagID: 3})
	got := s.TagsListUI.SelectedTagIDs
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected selection: %v", got)
	}
}

func TestAddObjects_SplitsCurrentTagIDsIntoJoin(t *testing.T) {
	root := NewRoot()
	s := state.New()
	next := root.Apply(s, AddObjects{Objects: []schema.ObjectAttributes{{
		ObjectID:      10,
		ObjectType:    schema.ObjectTypeLink,
		ObjectName:    "example",
		CreatedAt:     testTime,
		ModifiedAt:    testTime,
		OwnerID:       1,
		CurrentTagIDs: []int{2, 2, 1},
	}}})
	if got := next.ObjectsTags[10]; len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("join not populated/deduped: %v", got)
	}
	if next.Objects[10].CurrentTagIDs != nil {
		t.Fatalf("stored attributes still carry the wire tag list")
	}
}

func TestDeleteObjects_ScrubsPayloadsAndCompositeRefs(t *testing.T) {
	root := NewRoot()
	s := state.New()
	s.Objects = map[int]schema.ObjectAttributes{
		1: {ObjectID: 1, ObjectType: schema.ObjectTypeComposite, ObjectName: "c", CreatedAt: testTime, ModifiedAt: testTime, OwnerID: 1},
		2: {ObjectID: 2, ObjectType: schema.ObjectTypeLink, ObjectName: "l", CreatedAt: testTime, ModifiedAt: testTime, OwnerID: 1},
		3: {ObjectID: 3, ObjectType: schema.ObjectTypeComposite, ObjectName: "keep", CreatedAt: testTime, ModifiedAt: testTime, OwnerID: 1},
	}
	s.Links = map[int]schema.Link{2: {Link: "https://example.com"}}
	s.Composite = map[int]schema.Composite{
		1: {DisplayMode: schema.CompositeDisplayBasic, Subobjects: []schema.CompositeSubobject{{ObjectID: 2}}},
		3: {DisplayMode: schema.CompositeDisplayBasic, Subobjects: []schema.CompositeSubobject{{ObjectID: 2}}},
	}
	s.ObjectsListUI.PaginationInfo.CurrentPageObjectIDs = []int{1, 2, 3}
	s.ObjectsListUI.SelectedObjectIDs = []int{1, 3}

	next := root.Apply(s, DeleteObjects{ObjectIDs: []int{1}, DeleteSubobjects: true})

	for _, id := range []int{1, 2} {
		if _, ok := next.Objects[id]; ok {
			t.Fatalf("object %d still present", id)
		}
	}
	if _, ok := next.Links[2]; ok {
		t.Fatalf("link payload of deleted subobject retained")
	}
	if got := next.Composite[3].Subobjects; len(got) != 0 {
		t.Fatalf("remaining composite still references deleted object: %v", got)
	}
	if got := next.ObjectsListUI.PaginationInfo.CurrentPageObjectIDs; len(got) != 1 || got[0] != 3 {
		t.Fatalf("page ids not scrubbed: %v", got)
	}
	if got := next.ObjectsListUI.SelectedObjectIDs; len(got) != 1 || got[0] != 3 {
		t.Fatalf("selection not scrubbed: %v", got)
	}
}

func TestEditedLifecycle_LoadPatchClear(t *testing.T) {
	root := NewRoot()
	s := state.New()
	s.Objects = map[int]schema.ObjectAttributes{
		10: {ObjectID: 10, ObjectType: schema.ObjectTypeMarkdown, ObjectName: "notes", CreatedAt: testTime, ModifiedAt: testTime, OwnerID: 1},
	}
	s.Markdown = map[int]schema.Markdown{10: {RawText: "# hi"}}

	s = root.Apply(s, LoadEditedObject{ObjectID: 10})
	if _, ok := s.EditedObjects[10]; !ok {
		t.Fatalf("draft not created")
	}
	// Unchanged drafts are cleared when not excluded.
	s2 := root.Apply(s, ClearUnchangedEditedObjects{})
	if _, ok := s2.EditedObjects[10]; ok {
		t.Fatalf("unchanged draft survived clear")
	}
	// Excluded drafts survive.
	s3 := root.Apply(s, ClearUnchangedEditedObjects{ExcludeIDs: []int{10}})
	if _, ok := s3.EditedObjects[10]; !ok {
		t.Fatalf("excluded draft cleared")
	}

	// Changed drafts survive navigation.
	name := "notes v2"
	s4 := root.Apply(s, PatchEditedObject{ObjectID: 10, Patch: EditedObjectPatch{ObjectName: &name}})
	if s4.Objects[10].ObjectName != "notes" {
		t.Fatalf("server copy touched by draft patch")
	}
	s5 := root.Apply(s4, ClearUnchangedEditedObjects{})
	if _, ok := s5.EditedObjects[10]; !ok {
		t.Fatalf("changed draft cleared")
	}
}

func TestClearUnchanged_ExcludesCompositeSubobjectDrafts(t *testing.T) {
	root := NewRoot()
	s := state.New()
	parent := state.NewEditedObject(-1, schema.ObjectTypeComposite)
	parent.Composite.Subobjects = []schema.CompositeSubobject{{ObjectID: -2}}
	s.EditedObjects = map[int]state.EditedObject{
		-1: parent,
		-2: state.NewEditedObject(-2, schema.ObjectTypeLink),
		-3: state.NewEditedObject(-3, schema.ObjectTypeLink),
	}

	next := root.Apply(s, ClearUnchangedEditedObjects{ExcludeIDs: []int{-1}})
	if _, ok := next.EditedObjects[-1]; !ok {
		t.Fatalf("excluded parent cleared")
	}
	if _, ok := next.EditedObjects[-2]; !ok {
		t.Fatalf("subobject of excluded composite cleared")
	}
	if _, ok := next.EditedObjects[-3]; ok {
		t.Fatalf("unrelated unchanged draft survived")
	}
}

func TestAddRemoveEditedTag(t *testing.T) {
	root := NewRoot()
	s := state.New()
	draft := state.NewEditedObject(10, schema.ObjectTypeLink)
	draft.CurrentTagIDs = []int{1}
	s.EditedObjects = map[int]state.EditedObject{10: draft}

	// Adding a current tag is a no-op.
	if next := root.Apply(s, AddEditedTag{ObjectID: 10, Ref: state.ResolvedTag(1)}); next != s {
		t.Fatalf("adding current tag should be a no-op")
	}

	// Remove a current tag, then re-add restores it.
	s = root.Apply(s, RemoveEditedTag{ObjectID: 10, Ref: state.ResolvedTag(1)})
	if got := s.EditedObjects[10].RemovedTagIDs; len(got) != 1 || got[0] != 1 {
		t.Fatalf("removal delta missing: %v", got)
	}
	s = root.Apply(s, AddEditedTag{ObjectID: 10, Ref: state.ResolvedTag(1)})
	if got := s.EditedObjects[10].RemovedTagIDs; len(got) != 0 {
		t.Fatalf("re-add did not un-remove: %v", got)
	}

	// Name adds deduplicate case-insensitively.
	s = root.Apply(s, AddEditedTag{ObjectID: 10, Ref: state.UnresolvedTag("Reading")})
	s = root.Apply(s, AddEditedTag{ObjectID: 10, Ref: state.UnresolvedTag("reading")})
	if got := s.EditedObjects[10].AddedTags; len(got) != 1 {
		t.Fatalf("case-insensitive dedup failed: %v", got)
	}
	s = root.Apply(s, RemoveEditedTag{ObjectID: 10, Ref: state.UnresolvedTag("READING")})
	if got := s.EditedObjects[10].AddedTags; len(got) != 0 {
		t.Fatalf("name removal failed: %v", got)
	}
}

func TestRemapEditedObjectID(t *testing.T) {
	root := NewRoot()
	s := state.New()
	parent := state.NewEditedObject(-1, schema.ObjectTypeComposite)
	parent.Composite.Subobjects = []schema.CompositeSubobject{{ObjectID: -2}}
	s.EditedObjects = map[int]state.EditedObject{
		-1: parent,
		-2: state.NewEditedObject(-2, schema.ObjectTypeMarkdown),
	}

	next := root.Apply(s, RemapEditedObjectID{From: -2, To: 42})
	if _, ok := next.EditedObjects[-2]; ok {
		t.Fatalf("old draft key retained")
	}
	if draft, ok := next.EditedObjects[42]; !ok || draft.ObjectID != 42 {
		t.Fatalf("draft not remapped: %+v", next.EditedObjects)
	}
	if got := next.EditedObjects[-1].Composite.Subobjects[0].ObjectID; got != 42 {
		t.Fatalf("composite reference not remapped: %d", got)
	}
}
