// Package selectors derives read-only values from a state snapshot.
// Pure functions; linear scans are fine at the expected cardinalities.
package selectors

import (
	"strings"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

// TagsListBlocked reports whether the tags list page should ignore input:
// a fetch is in flight or a dialog is open.
func TagsListBlocked(s *state.State) bool {
	return s.TagsListUI.Fetch.IsFetching || s.TagsListUI.ShowDeleteDialog
}

// TagsEditFetching aggregates the tags-edit page's load and save fetches.
func TagsEditFetching(s *state.State) bool {
	return s.TagsEditUI.LoadFetch.IsFetching || s.TagsEditUI.SaveFetch.IsFetching
}

// TagsEditBlocked additionally accounts for the delete dialog.
func TagsEditBlocked(s *state.State) bool {
	return TagsEditFetching(s) || s.TagsEditUI.ShowDeleteDialog
}

func ObjectsListBlocked(s *state.State) bool {
	return s.ObjectsListUI.Fetch.IsFetching || s.ObjectsListUI.ShowDeleteDialog
}

func ObjectsEditFetching(s *state.State) bool {
	return s.ObjectsEditUI.LoadFetch.IsFetching || s.ObjectsEditUI.SaveFetch.IsFetching
}

func ObjectsEditBlocked(s *state.State) bool {
	return ObjectsEditFetching(s) || s.ObjectsEditUI.ShowDeleteDialog
}

// TagNameExists reports a case-insensitive name collision among cached tags,
// ignoring excludeID (pass 0 to exclude nothing). Update flows pass the tag
// being updated so renaming "foo" to "Foo" succeeds.
func TagNameExists(s *state.State, name string, excludeID int) bool {
	return TagIDByName(s, name, excludeID) != 0
}

// TagIDByName returns the id of the cached tag matching name
// case-insensitively, 0 when absent.
func TagIDByName(s *state.State, name string, excludeID int) int {
	name = strings.TrimSpace(name)
	for id, t := range s.Tags {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(t.TagName, name) {
			return id
		}
	}
	return 0
}

// ObjectNameExists is the object counterpart of TagNameExists.
func ObjectNameExists(s *state.State, name string, excludeID int) bool {
	name = strings.TrimSpace(name)
	for id, o := range s.Objects {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(o.ObjectName, name) {
			return true
		}
	}
	return false
}

// MissingTagIDs returns the requested ids not present in the store,
// preserving request order.
func MissingTagIDs(s *state.State, ids []int) []int {
	var missing []int
	for _, id := range ids {
		if _, ok := s.Tags[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// MissingObjectIDs returns ids without cached attributes.
func MissingObjectIDs(s *state.State, ids []int) []int {
	var missing []int
	for _, id := range ids {
		if _, ok := s.Objects[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// MissingObjectDataIDs returns ids without a cached payload for their type
// (unknown-type ids count as missing; their type arrives with attributes).
func MissingObjectDataIDs(s *state.State, ids []int) []int {
	var missing []int
	for _, id := range ids {
		if !objectDataCached(s, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func objectDataCached(s *state.State, id int) bool {
	o, ok := s.Objects[id]
	if !ok {
		return false
	}
	switch o.ObjectType {
	case schema.ObjectTypeLink:
		_, ok = s.Links[id]
	case schema.ObjectTypeMarkdown:
		_, ok = s.Markdown[id]
	case schema.ObjectTypeToDoList:
		_, ok = s.ToDoLists[id]
	case schema.ObjectTypeComposite:
		_, ok = s.Composite[id]
	default:
		return false
	}
	return ok
}

// MissingUserIDs returns the requested user ids not present in the store.
func MissingUserIDs(s *state.State, ids []int) []int {
	var missing []int
	for _, id := range ids {
		if _, ok := s.Users[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// EditedOrStoredObjectName prefers the draft name over the server copy.
func EditedOrStoredObjectName(s *state.State, objectID int) string {
	if draft, ok := s.EditedObjects[objectID]; ok {
		return draft.ObjectName
	}
	if o, ok := s.Objects[objectID]; ok {
		return o.ObjectName
	}
	return ""
}
