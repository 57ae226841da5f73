// Package state defines the client's normalized state tree: authoritative
// server data keyed by id, unsaved edit drafts, and per-page UI state.
//
// A *State snapshot is immutable once published by the store. Reducers build
// new snapshots with copy-on-write maps, so unrelated slices keep their
// previous references and change detection stays cheap.
package state

import (
	"time"

	"curio-cli/internal/schema"
)

type AuthState struct {
	AccessToken    string    `json:"access_token"`
	UserID         int       `json:"user_id"`
	ExpirationTime time.Time `json:"expiration_time"`
}

// State is the whole client state tree.
//
// Data slices hold server-known entities. Object payloads live in their own
// maps keyed by object id (extension-table layout), so attributes can be
// cached without payloads. ObjectsTags is the object-owned side of the
// object/tag join; entries never hold an empty list.
type State struct {
	Tags        map[int]schema.Tag
	Objects     map[int]schema.ObjectAttributes
	ObjectsTags map[int][]int

	Links     map[int]schema.Link
	Markdown  map[int]schema.Markdown
	ToDoLists map[int]schema.ToDoList
	Composite map[int]schema.Composite

	// EditedObjects holds a draft per object currently being created or
	// modified. A draft exists iff the edit is in progress; it is the single
	// source of truth for edit pages, independent of Objects.
	EditedObjects map[int]EditedObject

	Users map[int]schema.User
	Auth  AuthState

	TagsListUI    TagsListUI
	TagsEditUI    TagsEditUI
	ObjectsListUI ObjectsListUI
	ObjectsEditUI ObjectsEditUI

	// RedirectTarget is a one-shot navigation request for the shell
	// ("/tags/edit/5"). Set only after a terminal success commit.
	RedirectTarget string
}

// New returns the initial state with documented UI defaults.
func New() *State {
	return &State{
		Tags:          map[int]schema.Tag{},
		Objects:       map[int]schema.ObjectAttributes{},
		ObjectsTags:   map[int][]int{},
		Links:         map[int]schema.Link{},
		Markdown:      map[int]schema.Markdown{},
		ToDoLists:     map[int]schema.ToDoList{},
		Composite:     map[int]schema.Composite{},
		EditedObjects: map[int]EditedObject{},
		Users:         map[int]schema.User{},
		TagsListUI:    NewTagsListUI(),
		TagsEditUI:    NewTagsEditUI(),
		ObjectsListUI: NewObjectsListUI(),
		ObjectsEditUI: NewObjectsEditUI(),
	}
}

// Clone returns a shallow copy of the tree: slice maps are shared until a
// reducer replaces them. Callers must never mutate shared maps in place.
func (s *State) Clone() *State {
	c := *s
	return &c
}
