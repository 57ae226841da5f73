package schema

import "time"

// Tag is a server-known tag. TagName uniqueness is enforced case-insensitively
// among non-deleted tags; the client pre-checks it before saving (see thunks).
type Tag struct {
	TagID          int       `json:"tag_id" validate:"required,gt=0"`
	TagName        string    `json:"tag_name" validate:"required,min=1,max=255"`
	TagDescription string    `json:"tag_description" validate:"omitempty"`
	IsPublished    bool      `json:"is_published"`
	CreatedAt      time.Time `json:"created_at" validate:"required"`
	ModifiedAt     time.Time `json:"modified_at" validate:"required"`
}

// TagAttributes is the mutable subset sent when adding a new tag
// (the server assigns tag_id and both timestamps).
type TagAttributes struct {
	TagName        string `json:"tag_name" validate:"required,min=1,max=255"`
	TagDescription string `json:"tag_description"`
	IsPublished    bool   `json:"is_published"`
}

func ValidateTag(t Tag) error {
	return validateStruct(t)
}

func ValidateTagAttributes(a TagAttributes) error {
	return validateStruct(a)
}
