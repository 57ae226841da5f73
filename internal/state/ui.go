package state

import "curio-cli/internal/schema"

// FetchStatus tracks one logical async operation of a page.
// Invariant: IsFetching and a non-empty FetchError are never both set.
type FetchStatus struct {
	IsFetching bool
	FetchError string
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type TagsOrderBy string

const (
	TagsOrderByName       TagsOrderBy = "tag_name"
	TagsOrderByModifiedAt TagsOrderBy = "modified_at"
)

type TagsPaginationInfo struct {
	Page         int
	ItemsPerPage int
	OrderBy      TagsOrderBy
	SortOrder    SortOrder
	FilterText   string

	TotalItems        int
	CurrentPageTagIDs []int
}

type TagsListUI struct {
	PaginationInfo   TagsPaginationInfo
	SelectedTagIDs   []int
	ShowDeleteDialog bool
	Fetch            FetchStatus
}

func NewTagsListUI() TagsListUI {
	return TagsListUI{
		PaginationInfo: TagsPaginationInfo{
			Page:         1,
			ItemsPerPage: 100,
			OrderBy:      TagsOrderByName,
			SortOrder:    SortAsc,
		},
	}
}

// TagDraft is the tags-edit page draft. TagID 0 means "new, unsaved".
type TagDraft struct {
	TagID          int
	TagName        string
	TagDescription string
	IsPublished    bool
}

type TagsEditUI struct {
	CurrentTag       TagDraft
	LoadFetch        FetchStatus
	SaveFetch        FetchStatus
	ShowDeleteDialog bool
}

func NewTagsEditUI() TagsEditUI {
	return TagsEditUI{CurrentTag: TagDraft{IsPublished: true}}
}

type ObjectsOrderBy string

const (
	ObjectsOrderByName          ObjectsOrderBy = "object_name"
	ObjectsOrderByModifiedAt    ObjectsOrderBy = "modified_at"
	ObjectsOrderByFeedTimestamp ObjectsOrderBy = "feed_timestamp"
)

type ObjectsPaginationInfo struct {
	Page         int
	ItemsPerPage int
	OrderBy      ObjectsOrderBy
	SortOrder    SortOrder
	FilterText   string
	ObjectTypes  []schema.ObjectType
	TagsFilter   []int

	TotalItems           int
	CurrentPageObjectIDs []int
}

type ObjectsListUI struct {
	PaginationInfo    ObjectsPaginationInfo
	SelectedObjectIDs []int
	ShowDeleteDialog  bool
	Fetch             FetchStatus
}

func NewObjectsListUI() ObjectsListUI {
	return ObjectsListUI{
		PaginationInfo: ObjectsPaginationInfo{
			Page:         1,
			ItemsPerPage: 100,
			OrderBy:      ObjectsOrderByModifiedAt,
			SortOrder:    SortDesc,
		},
	}
}

// TagInput is the transient tag-search dropdown of the objects-edit page.
type TagInput struct {
	IsVisible   bool
	Text        string
	MatchingIDs []int
}

type ObjectsEditUI struct {
	// CurrentObjectID is the draft shown by the edit page; 0 or negative for
	// a new, unsaved object.
	CurrentObjectID  int
	LoadFetch        FetchStatus
	SaveFetch        FetchStatus
	ShowDeleteDialog bool
	TagInput         TagInput
}

func NewObjectsEditUI() ObjectsEditUI {
	return ObjectsEditUI{}
}
