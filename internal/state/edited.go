package state

import (
	"reflect"
	"strings"
	"time"

	"curio-cli/internal/schema"
)

// TagRef is a tag reference inside a draft: either a resolved numeric id or
// a pending name awaiting resolution (the tag does not exist yet, or has not
// been looked up). Exactly one of the two is set.
type TagRef struct {
	id   int
	name string
}

func ResolvedTag(id int) TagRef {
	return TagRef{id: id}
}

func UnresolvedTag(name string) TagRef {
	return TagRef{name: strings.TrimSpace(name)}
}

// Resolved returns the tag id when the reference is resolved.
func (r TagRef) Resolved() (int, bool) {
	return r.id, r.id != 0
}

// PendingName returns the pending name when the reference is unresolved.
func (r TagRef) PendingName() (string, bool) {
	return r.name, r.id == 0 && r.name != ""
}

func (r TagRef) Zero() bool {
	return r.id == 0 && r.name == ""
}

// EditedObject is a draft overlay for an object being created or modified.
// It carries the full mutable attribute set plus tag deltas; the server copy
// in State.Objects is untouched until a save succeeds. Negative or zero
// ObjectID marks a new, unsaved object.
type EditedObject struct {
	ObjectID          int
	ObjectType        schema.ObjectType
	ObjectName        string
	ObjectDescription string
	IsPublished       bool
	DisplayInFeed     bool
	FeedTimestamp     time.Time
	OwnerID           int

	// CurrentTagIDs mirrors the server-known tags at draft creation.
	// AddedTags/RemovedTagIDs are the local deltas against it.
	CurrentTagIDs []int
	AddedTags     []TagRef
	RemovedTagIDs []int

	Link      schema.Link
	Markdown  schema.Markdown
	ToDoList  schema.ToDoList
	Composite schema.Composite
}

// NewEditedObject synthesizes the default draft for a brand-new object.
// Payload defaults satisfy the schema layer where a valid default exists.
func NewEditedObject(objectID int, objectType schema.ObjectType) EditedObject {
	return EditedObject{
		ObjectID:      objectID,
		ObjectType:    objectType,
		IsPublished:   false,
		DisplayInFeed: false,
		CurrentTagIDs: []int{},
		AddedTags:     []TagRef{},
		RemovedTagIDs: []int{},
		ToDoList:      schema.NewToDoList(),
		Composite:     schema.NewComposite(),
	}
}

// EditedObjectFromStored clones the server-known attributes, payload and tag
// list of objectID into a fresh draft. Missing payload pieces fall back to
// defaults (partial loads are representable).
func EditedObjectFromStored(s *State, objectID int) (EditedObject, bool) {
	attrs, ok := s.Objects[objectID]
	if !ok {
		return EditedObject{}, false
	}
	draft := NewEditedObject(objectID, attrs.ObjectType)
	draft.ObjectName = attrs.ObjectName
	draft.ObjectDescription = attrs.ObjectDescription
	draft.IsPublished = attrs.IsPublished
	draft.DisplayInFeed = attrs.DisplayInFeed
	draft.FeedTimestamp = attrs.FeedTimestamp
	draft.OwnerID = attrs.OwnerID
	draft.CurrentTagIDs = append([]int{}, s.ObjectsTags[objectID]...)

	if l, ok := s.Links[objectID]; ok {
		draft.Link = l
	}
	if m, ok := s.Markdown[objectID]; ok {
		draft.Markdown = m
	}
	if tdl, ok := s.ToDoLists[objectID]; ok {
		draft.ToDoList = cloneToDoList(tdl)
	}
	if c, ok := s.Composite[objectID]; ok {
		draft.Composite = cloneComposite(c)
	}
	return draft, true
}

// EditedObjectChanged reports whether the draft differs from its baseline:
// the server copy for existing ids, or the type defaults for new ids.
// A missing draft is never "changed".
func EditedObjectChanged(s *State, objectID int) bool {
	draft, ok := s.EditedObjects[objectID]
	if !ok {
		return false
	}
	if len(draft.AddedTags) > 0 || len(draft.RemovedTagIDs) > 0 {
		return true
	}

	var baseline EditedObject
	if objectID > 0 {
		baseline, ok = EditedObjectFromStored(s, objectID)
		if !ok {
			// No server copy to compare against; keep the draft.
			return true
		}
	} else {
		baseline = NewEditedObject(objectID, draft.ObjectType)
	}
	return !editedObjectsEqual(draft, baseline)
}

func editedObjectsEqual(a, b EditedObject) bool {
	if a.ObjectType != b.ObjectType ||
		a.ObjectName != b.ObjectName ||
		a.ObjectDescription != b.ObjectDescription ||
		a.IsPublished != b.IsPublished ||
		a.DisplayInFeed != b.DisplayInFeed ||
		!a.FeedTimestamp.Equal(b.FeedTimestamp) {
		return false
	}
	if !intSlicesEqual(a.CurrentTagIDs, b.CurrentTagIDs) {
		return false
	}
	switch a.ObjectType {
	case schema.ObjectTypeLink:
		return a.Link == b.Link
	case schema.ObjectTypeMarkdown:
		return a.Markdown == b.Markdown
	case schema.ObjectTypeToDoList:
		return reflect.DeepEqual(a.ToDoList, b.ToDoList)
	case schema.ObjectTypeComposite:
		return reflect.DeepEqual(a.Composite, b.Composite)
	}
	return true
}

// ResolveTagRefs rewrites every unresolved reference whose name matches one
// of byName (case-insensitive) to the resolved id, deduplicating against
// references already resolved to that id. Drafts without matches keep their
// map entry untouched. Pure: the input map is not modified.
func ResolveTagRefs(drafts map[int]EditedObject, byName map[string]int) map[int]EditedObject {
	if len(drafts) == 0 || len(byName) == 0 {
		return drafts
	}
	lower := make(map[string]int, len(byName))
	for name, id := range byName {
		lower[strings.ToLower(strings.TrimSpace(name))] = id
	}

	var out map[int]EditedObject
	for objectID, draft := range drafts {
		resolved, changed := resolveRefs(draft.AddedTags, lower)
		if !changed {
			continue
		}
		if out == nil {
			out = make(map[int]EditedObject, len(drafts))
			for k, v := range drafts {
				out[k] = v
			}
		}
		draft.AddedTags = resolved
		out[objectID] = draft
	}
	if out == nil {
		return drafts
	}
	return out
}

func resolveRefs(refs []TagRef, lowerByName map[string]int) ([]TagRef, bool) {
	changed := false
	out := make([]TagRef, 0, len(refs))
	seen := map[int]bool{}
	for _, ref := range refs {
		if id, ok := ref.Resolved(); ok {
			if seen[id] {
				changed = true
				continue
			}
			seen[id] = true
			out = append(out, ref)
			continue
		}
		name, _ := ref.PendingName()
		id, ok := lowerByName[strings.ToLower(name)]
		if !ok {
			out = append(out, ref)
			continue
		}
		changed = true
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, ResolvedTag(id))
	}
	if !changed {
		return refs, false
	}
	return out, true
}

func intSlicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneToDoList(l schema.ToDoList) schema.ToDoList {
	l.Items = append([]schema.ToDoItem{}, l.Items...)
	return l
}

func cloneComposite(c schema.Composite) schema.Composite {
	c.Subobjects = append([]schema.CompositeSubobject{}, c.Subobjects...)
	return c
}
