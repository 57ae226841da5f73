package reducers

import (
	"maps"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

// AddTags merges tags by id and runs the name->id late-binding protocol:
// every draft reference pending under one of the added names is rewritten to
// the numeric id in the same transition.
type AddTags struct {
	Tags []schema.Tag
}

func (AddTags) Type() string { return "tags.add" }

// DeleteTags removes tags and scrubs every back-reference: the objects/tags
// join (dropping entries left empty), draft tag lists and deltas, and the
// tags list page/selection.
type DeleteTags struct {
	TagIDs []int
}

func (DeleteTags) Type() string { return "tags.delete" }

func tagHandlers() map[string]Handler {
	return map[string]Handler{
		AddTags{}.Type():    applyAddTags,
		DeleteTags{}.Type(): applyDeleteTags,
	}
}

func applyAddTags(s *state.State, a Action) *state.State {
	act := a.(AddTags)
	if len(act.Tags) == 0 {
		return s
	}
	next := s.Clone()

	tags := maps.Clone(s.Tags)
	byName := make(map[string]int, len(act.Tags))
	for _, t := range act.Tags {
		tags[t.TagID] = t
		byName[t.TagName] = t.TagID
	}
	next.Tags = tags
	next.EditedObjects = state.ResolveTagRefs(s.EditedObjects, byName)
	return next
}

func applyDeleteTags(s *state.State, a Action) *state.State {
	act := a.(DeleteTags)
	if len(act.TagIDs) == 0 {
		return s
	}
	deleted := make(map[int]bool, len(act.TagIDs))
	for _, id := range act.TagIDs {
		deleted[id] = true
	}
	next := s.Clone()

	tags := maps.Clone(s.Tags)
	for id := range deleted {
		delete(tags, id)
	}
	next.Tags = tags

	// Strip deleted ids from the join; drop objects whose list becomes empty.
	objectsTags := make(map[int][]int, len(s.ObjectsTags))
	for objectID, tagIDs := range s.ObjectsTags {
		kept := withoutInts(tagIDs, deleted)
		if len(kept) > 0 {
			objectsTags[objectID] = kept
		}
	}
	next.ObjectsTags = objectsTags

	// Scrub drafts: current lists, resolved added refs, removed deltas.
	if len(s.EditedObjects) > 0 {
		drafts := make(map[int]state.EditedObject, len(s.EditedObjects))
		for objectID, draft := range s.EditedObjects {
			draft.CurrentTagIDs = withoutInts(draft.CurrentTagIDs, deleted)
			draft.RemovedTagIDs = withoutInts(draft.RemovedTagIDs, deleted)
			added := make([]state.TagRef, 0, len(draft.AddedTags))
			for _, ref := range draft.AddedTags {
				if id, ok := ref.Resolved(); ok && deleted[id] {
					continue
				}
				added = append(added, ref)
			}
			draft.AddedTags = added
			drafts[objectID] = draft
		}
		next.EditedObjects = drafts
	}

	// Delete-then-list-refresh: the current page and selection shrink without
	// an extra page fetch.
	listUI := s.TagsListUI
	listUI.PaginationInfo.CurrentPageTagIDs = withoutInts(listUI.PaginationInfo.CurrentPageTagIDs, deleted)
	listUI.SelectedTagIDs = withoutInts(listUI.SelectedTagIDs, deleted)
	next.TagsListUI = listUI

	return next
}

// withoutInts filters ids, preserving order. Returns a fresh slice when
// anything was removed, the input otherwise.
func withoutInts(ids []int, drop map[int]bool) []int {
	changed := false
	for _, id := range ids {
		if drop[id] {
			changed = true
			break
		}
	}
	if !changed {
		return ids
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if drop[id] {
			continue
		}
		out = append(out, id)
	}
	return out
}
