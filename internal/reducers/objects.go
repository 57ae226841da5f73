package reducers

import (
	"maps"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

// AddObjects merges object attributes by id. Wire attribute sets may carry
// current_tag_ids; those are split off into the objects/tags join so the tag
// list has a single home.
type AddObjects struct {
	Objects []schema.ObjectAttributes
}

func (AddObjects) Type() string { return "objects.add" }

// AddObjectData writes type-specific payloads into their extension stores.
type AddObjectData struct {
	Data []schema.ObjectData
}

func (AddObjectData) Type() string { return "objects.data.add" }

// SetObjectsTags replaces the full tag list of each object. Lists are
// deduplicated preserving order; empty lists drop the join entry.
type SetObjectsTags struct {
	ObjectsTags map[int][]int
}

func (SetObjectsTags) Type() string { return "objects.tags.set" }

// UpdateObjectsTags applies a tag delta to one object (the save-response
// tag_updates shape).
type UpdateObjectsTags struct {
	ObjectID      int
	AddedTagIDs   []int
	RemovedTagIDs []int
}

func (UpdateObjectsTags) Type() string { return "objects.tags.update" }

// DeleteObjects removes objects and scrubs payload stores, the join map,
// drafts, composite subobject references, and the objects list page state.
// With DeleteSubobjects set, subobjects of deleted composites are removed too.
type DeleteObjects struct {
	ObjectIDs        []int
	DeleteSubobjects bool
}

func (DeleteObjects) Type() string { return "objects.delete" }

func objectHandlers() map[string]Handler {
	return map[string]Handler{
		AddObjects{}.Type():        applyAddObjects,
		AddObjectData{}.Type():     applyAddObjectData,
		SetObjectsTags{}.Type():    applySetObjectsTags,
		UpdateObjectsTags{}.Type(): applyUpdateObjectsTags,
		DeleteObjects{}.Type():     applyDeleteObjects,
	}
}

func applyAddObjects(s *state.State, a Action) *state.State {
	act := a.(AddObjects)
	if len(act.Objects) == 0 {
		return s
	}
	next := s.Clone()
	objects := maps.Clone(s.Objects)
	var objectsTags map[int][]int
	for _, o := range act.Objects {
		if o.CurrentTagIDs != nil {
			if objectsTags == nil {
				objectsTags = maps.Clone(s.ObjectsTags)
			}
			setObjectTagList(objectsTags, o.ObjectID, o.CurrentTagIDs)
			o.CurrentTagIDs = nil
		}
		objects[o.ObjectID] = o
	}
	next.Objects = objects
	if objectsTags != nil {
		next.ObjectsTags = objectsTags
	}
	return next
}

func applyAddObjectData(s *state.State, a Action) *state.State {
	act := a.(AddObjectData)
	if len(act.Data) == 0 {
		return s
	}
	next := s.Clone()
	var links map[int]schema.Link
	var markdown map[int]schema.Markdown
	var toDoLists map[int]schema.ToDoList
	var composite map[int]schema.Composite
	for _, d := range act.Data {
		switch {
		case d.Link != nil:
			if links == nil {
				links = maps.Clone(s.Links)
			}
			links[d.ObjectID] = *d.Link
		case d.Markdown != nil:
			if markdown == nil {
				markdown = maps.Clone(s.Markdown)
			}
			markdown[d.ObjectID] = *d.Markdown
		case d.ToDoList != nil:
			if toDoLists == nil {
				toDoLists = maps.Clone(s.ToDoLists)
			}
			toDoLists[d.ObjectID] = *d.ToDoList
		case d.Composite != nil:
			if composite == nil {
				composite = maps.Clone(s.Composite)
			}
			composite[d.ObjectID] = *d.Composite
		}
	}
	if links != nil {
		next.Links = links
	}
	if markdown != nil {
		next.Markdown = markdown
	}
	if toDoLists != nil {
		next.ToDoLists = toDoLists
	}
	if composite != nil {
		next.Composite = composite
	}
	return next
}

func applySetObjectsTags(s *state.State, a Action) *state.State {
	act := a.(SetObjectsTags)
	if len(act.ObjectsTags) == 0 {
		return s
	}
	next := s.Clone()
	objectsTags := maps.Clone(s.ObjectsTags)
	for objectID, tagIDs := range act.ObjectsTags {
		setObjectTagList(objectsTags, objectID, tagIDs)
	}
	next.ObjectsTags = objectsTags
	return next
}

func applyUpdateObjectsTags(s *state.State, a Action) *state.State {
	act := a.(UpdateObjectsTags)
	current := s.ObjectsTags[act.ObjectID]

	removed := make(map[int]bool, len(act.RemovedTagIDs))
	for _, id := range act.RemovedTagIDs {
		removed[id] = true
	}
	merged := make([]int, 0, len(current)+len(act.AddedTagIDs))
	seen := map[int]bool{}
	for _, id := range current {
		if removed[id] || seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}
	for _, id := range act.AddedTagIDs {
		if removed[id] || seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}

	next := s.Clone()
	objectsTags := maps.Clone(s.ObjectsTags)
	setObjectTagList(objectsTags, act.ObjectID, merged)
	next.ObjectsTags = objectsTags
	return next
}

func applyDeleteObjects(s *state.State, a Action) *state.State {
	act := a.(DeleteObjects)
	if len(act.ObjectIDs) == 0 {
		return s
	}
	deleted := make(map[int]bool, len(act.ObjectIDs))
	for _, id := range act.ObjectIDs {
		deleted[id] = true
	}
	if act.DeleteSubobjects {
		for _, id := range act.ObjectIDs {
			if c, ok := s.Composite[id]; ok {
				for _, subID := range c.SubobjectIDs() {
					deleted[subID] = true
				}
			}
		}
	}

	next := s.Clone()

	objects := maps.Clone(s.Objects)
	links := maps.Clone(s.Links)
	markdown := maps.Clone(s.Markdown)
	toDoLists := maps.Clone(s.ToDoLists)
	composite := maps.Clone(s.Composite)
	objectsTags := maps.Clone(s.ObjectsTags)
	drafts := maps.Clone(s.EditedObjects)
	for id := range deleted {
		delete(objects, id)
		delete(links, id)
		delete(markdown, id)
		delete(toDoLists, id)
		delete(composite, id)
		delete(objectsTags, id)
		delete(drafts, id)
	}

	// Remaining composites (and composite drafts) must not reference gone ids.
	for id, c := range composite {
		if filtered, changed := withoutSubobjects(c, deleted); changed {
			composite[id] = filtered
		}
	}
	for id, draft := range drafts {
		if filtered, changed := withoutSubobjects(draft.Composite, deleted); changed {
			draft.Composite = filtered
			drafts[id] = draft
		}
	}

	next.Objects = objects
	next.Links = links
	next.Markdown = markdown
	next.ToDoLists = toDoLists
	next.Composite = composite
	next.ObjectsTags = objectsTags
	next.EditedObjects = drafts

	listUI := s.ObjectsListUI
	listUI.PaginationInfo.CurrentPageObjectIDs = withoutInts(listUI.PaginationInfo.CurrentPageObjectIDs, deleted)
	listUI.SelectedObjectIDs = withoutInts(listUI.SelectedObjectIDs, deleted)
	next.ObjectsListUI = listUI

	return next
}

func withoutSubobjects(c schema.Composite, drop map[int]bool) (schema.Composite, bool) {
	changed := false
	for _, so := range c.Subobjects {
		if drop[so.ObjectID] {
			changed = true
			break
		}
	}
	if !changed {
		return c, false
	}
	kept := make([]schema.CompositeSubobject, 0, len(c.Subobjects))
	for _, so := range c.Subobjects {
		if drop[so.ObjectID] {
			continue
		}
		kept = append(kept, so)
	}
	c.Subobjects = kept
	return c, true
}

func setObjectTagList(objectsTags map[int][]int, objectID int, tagIDs []int) {
	deduped := make([]int, 0, len(tagIDs))
	seen := map[int]bool{}
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		deduped = append(deduped, id)
	}
	if len(deduped) == 0 {
		delete(objectsTags, objectID)
		return
	}
	objectsTags[objectID] = deduped
}
