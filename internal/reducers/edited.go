package reducers

import (
	"maps"
	"strings"
	"time"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

// LoadEditedObject ensures a draft exists for ObjectID: existing drafts are
// kept as-is (unsaved work survives navigation), existing objects are cloned
// from the server copy, and new ids (<= 0) get type defaults.
type LoadEditedObject struct {
	ObjectID   int
	ObjectType schema.ObjectType
}

func (LoadEditedObject) Type() string { return "edited.load" }

// EditedObjectPatch is a shallow merge into one draft; nil fields are left
// untouched.
type EditedObjectPatch struct {
	ObjectType        *schema.ObjectType
	ObjectName        *string
	ObjectDescription *string
	IsPublished       *bool
	DisplayInFeed     *bool
	FeedTimestamp     *time.Time
	Link              *schema.Link
	Markdown          *schema.Markdown
	ToDoList          *schema.ToDoList
	Composite         *schema.Composite
}

type PatchEditedObject struct {
	ObjectID int
	Patch    EditedObjectPatch
}

func (PatchEditedObject) Type() string { return "edited.patch" }

// AddEditedTag records a tag addition on a draft. Adding a tag that is in
// the removed delta un-removes it; adding an already-current or already-added
// tag is a no-op.
type AddEditedTag struct {
	ObjectID int
	Ref      state.TagRef
}

func (AddEditedTag) Type() string { return "edited.tags.add" }

// RemoveEditedTag undoes an added tag, or records removal of a current one.
type RemoveEditedTag struct {
	ObjectID int
	Ref      state.TagRef
}

func (RemoveEditedTag) Type() string { return "edited.tags.remove" }

// ClearUnchangedEditedObjects drops every draft that matches its baseline
// (server copy, or type defaults for new ids), except the excluded ids and,
// for excluded composite drafts, their subobject drafts.
type ClearUnchangedEditedObjects struct {
	ExcludeIDs []int
}

func (ClearUnchangedEditedObjects) Type() string { return "edited.clear_unchanged" }

// DropEditedObjects removes drafts unconditionally (after save or delete).
type DropEditedObjects struct {
	ObjectIDs []int
}

func (DropEditedObjects) Type() string { return "edited.drop" }

// RemapEditedObjectID rewires a draft and every composite reference from a
// temporary (negative) id to the real id assigned by the backend.
type RemapEditedObjectID struct {
	From int
	To   int
}

func (RemapEditedObjectID) Type() string { return "edited.remap_id" }

func editedHandlers() map[string]Handler {
	return map[string]Handler{
		LoadEditedObject{}.Type():            applyLoadEditedObject,
		PatchEditedObject{}.Type():           applyPatchEditedObject,
		AddEditedTag{}.Type():                applyAddEditedTag,
		RemoveEditedTag{}.Type():             applyRemoveEditedTag,
		ClearUnchangedEditedObjects{}.Type(): applyClearUnchangedEditedObjects,
		DropEditedObjects{}.Type():           applyDropEditedObjects,
		RemapEditedObjectID{}.Type():         applyRemapEditedObjectID,
	}
}

func applyLoadEditedObject(s *state.State, a Action) *state.State {
	act := a.(LoadEditedObject)
	if _, exists := s.EditedObjects[act.ObjectID]; exists {
		return s
	}
	var draft state.EditedObject
	if act.ObjectID > 0 {
		stored, ok := state.EditedObjectFromStored(s, act.ObjectID)
		if !ok {
			// Attributes not cached yet; the thunk fetches them first.
			return s
		}
		draft = stored
	} else {
		objectType := act.ObjectType
		if !schema.ValidObjectType(objectType) {
			objectType = schema.ObjectTypeLink
		}
		draft = state.NewEditedObject(act.ObjectID, objectType)
	}
	next := s.Clone()
	drafts := maps.Clone(s.EditedObjects)
	drafts[act.ObjectID] = draft
	next.EditedObjects = drafts
	return next
}

func applyPatchEditedObject(s *state.State, a Action) *state.State {
	act := a.(PatchEditedObject)
	draft, ok := s.EditedObjects[act.ObjectID]
	if !ok {
		return s
	}
	p := act.Patch
	if p.ObjectType != nil {
		draft.ObjectType = *p.ObjectType
	}
	if p.ObjectName != nil {
		draft.ObjectName = *p.ObjectName
	}
	if p.ObjectDescription != nil {
		draft.ObjectDescription = *p.ObjectDescription
	}
	if p.IsPublished != nil {
		draft.IsPublished = *p.IsPublished
	}
	if p.DisplayInFeed != nil {
		draft.DisplayInFeed = *p.DisplayInFeed
	}
	if p.FeedTimestamp != nil {
		draft.FeedTimestamp = *p.FeedTimestamp
	}
	if p.Link != nil {
		draft.Link = *p.Link
	}
	if p.Markdown != nil {
		draft.Markdown = *p.Markdown
	}
	if p.ToDoList != nil {
		draft.ToDoList = *p.ToDoList
	}
	if p.Composite != nil {
		draft.Composite = *p.Composite
	}
	next := s.Clone()
	drafts := maps.Clone(s.EditedObjects)
	drafts[act.ObjectID] = draft
	next.EditedObjects = drafts
	return next
}

func applyAddEditedTag(s *state.State, a Action) *state.State {
	act := a.(AddEditedTag)
	draft, ok := s.EditedObjects[act.ObjectID]
	if !ok || act.Ref.Zero() {
		return s
	}

	if id, resolved := act.Ref.Resolved(); resolved {
		if idx := indexOfInt(draft.RemovedTagIDs, id); idx >= 0 {
			draft.RemovedTagIDs = append(append([]int{}, draft.RemovedTagIDs[:idx]...), draft.RemovedTagIDs[idx+1:]...)
			return replaceDraft(s, act.ObjectID, draft)
		}
		if indexOfInt(draft.CurrentTagIDs, id) >= 0 {
			return s
		}
		for _, ref := range draft.AddedTags {
			if existing, ok := ref.Resolved(); ok && existing == id {
				return s
			}
		}
		draft.AddedTags = append(append([]state.TagRef{}, draft.AddedTags...), act.Ref)
		return replaceDraft(s, act.ObjectID, draft)
	}

	name, _ := act.Ref.PendingName()
	for _, ref := range draft.AddedTags {
		if existing, ok := ref.PendingName(); ok && strings.EqualFold(existing, name) {
			return s
		}
	}
	draft.AddedTags = append(append([]state.TagRef{}, draft.AddedTags...), act.Ref)
	return replaceDraft(s, act.ObjectID, draft)
}

func applyRemoveEditedTag(s *state.State, a Action) *state.State {
	act := a.(RemoveEditedTag)
	draft, ok := s.EditedObjects[act.ObjectID]
	if !ok || act.Ref.Zero() {
		return s
	}

	// An added tag is simply un-added.
	for i, ref := range draft.AddedTags {
		if !tagRefsMatch(ref, act.Ref) {
			continue
		}
		draft.AddedTags = append(append([]state.TagRef{}, draft.AddedTags[:i]...), draft.AddedTags[i+1:]...)
		return replaceDraft(s, act.ObjectID, draft)
	}

	// A current tag moves into the removed delta.
	if id, resolved := act.Ref.Resolved(); resolved {
		if indexOfInt(draft.CurrentTagIDs, id) < 0 || indexOfInt(draft.RemovedTagIDs, id) >= 0 {
			return s
		}
		draft.RemovedTagIDs = append(append([]int{}, draft.RemovedTagIDs...), id)
		return replaceDraft(s, act.ObjectID, draft)
	}
	return s
}

func applyClearUnchangedEditedObjects(s *state.State, a Action) *state.State {
	act := a.(ClearUnchangedEditedObjects)
	if len(s.EditedObjects) == 0 {
		return s
	}
	exclude := map[int]bool{}
	for _, id := range act.ExcludeIDs {
		exclude[id] = true
		if draft, ok := s.EditedObjects[id]; ok && draft.ObjectType == schema.ObjectTypeComposite {
			for _, subID := range draft.Composite.SubobjectIDs() {
				exclude[subID] = true
			}
		}
	}

	var drop []int
	for objectID := range s.EditedObjects {
		if exclude[objectID] {
			continue
		}
		if !state.EditedObjectChanged(s, objectID) {
			drop = append(drop, objectID)
		}
	}
	if len(drop) == 0 {
		return s
	}
	next := s.Clone()
	drafts := maps.Clone(s.EditedObjects)
	for _, id := range drop {
		delete(drafts, id)
	}
	next.EditedObjects = drafts
	return next
}

func applyDropEditedObjects(s *state.State, a Action) *state.State {
	act := a.(DropEditedObjects)
	changed := false
	for _, id := range act.ObjectIDs {
		if _, ok := s.EditedObjects[id]; ok {
			changed = true
			break
		}
	}
	if !changed {
		return s
	}
	next := s.Clone()
	drafts := maps.Clone(s.EditedObjects)
	for _, id := range act.ObjectIDs {
		delete(drafts, id)
	}
	next.EditedObjects = drafts
	return next
}

func applyRemapEditedObjectID(s *state.State, a Action) *state.State {
	act := a.(RemapEditedObjectID)
	if act.From == act.To {
		return s
	}
	next := s.Clone()
	drafts := maps.Clone(s.EditedObjects)
	if draft, ok := drafts[act.From]; ok {
		delete(drafts, act.From)
		draft.ObjectID = act.To
		drafts[act.To] = draft
	}
	for objectID, draft := range drafts {
		changed := false
		subs := append([]schema.CompositeSubobject{}, draft.Composite.Subobjects...)
		for i := range subs {
			if subs[i].ObjectID == act.From {
				subs[i].ObjectID = act.To
				changed = true
			}
		}
		if changed {
			draft.Composite.Subobjects = subs
			drafts[objectID] = draft
		}
	}
	next.EditedObjects = drafts
	return next
}

func replaceDraft(s *state.State, objectID int, draft state.EditedObject) *state.State {
	next := s.Clone()
	drafts := maps.Clone(s.EditedObjects)
	drafts[objectID] = draft
	next.EditedObjects = drafts
	return next
}

func tagRefsMatch(a, b state.TagRef) bool {
	if ida, ok := a.Resolved(); ok {
		idb, okb := b.Resolved()
		return okb && ida == idb
	}
	na, _ := a.PendingName()
	nb, okb := b.PendingName()
	return okb && strings.EqualFold(na, nb)
}

func indexOfInt(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
