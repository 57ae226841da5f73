package schema

import "time"

type ObjectType string

const (
	ObjectTypeLink      ObjectType = "link"
	ObjectTypeMarkdown  ObjectType = "markdown"
	ObjectTypeToDoList  ObjectType = "to_do_list"
	ObjectTypeComposite ObjectType = "composite"
)

// ObjectTypes lists every valid object type in display order.
func ObjectTypes() []ObjectType {
	return []ObjectType{ObjectTypeLink, ObjectTypeMarkdown, ObjectTypeToDoList, ObjectTypeComposite}
}

func ValidObjectType(t ObjectType) bool {
	switch t {
	case ObjectTypeLink, ObjectTypeMarkdown, ObjectTypeToDoList, ObjectTypeComposite:
		return true
	}
	return false
}

// ObjectAttributes is the shared attribute set of every object. Type-specific
// payloads live in their own stores keyed by the same object_id, so an object
// may be present with attributes only (partial load).
type ObjectAttributes struct {
	ObjectID          int        `json:"object_id" validate:"required,gt=0"`
	ObjectType        ObjectType `json:"object_type" validate:"required,oneof=link markdown to_do_list composite"`
	ObjectName        string     `json:"object_name" validate:"required,min=1,max=255"`
	ObjectDescription string     `json:"object_description"`
	CreatedAt         time.Time  `json:"created_at" validate:"required"`
	ModifiedAt        time.Time  `json:"modified_at" validate:"required"`
	// FeedTimestamp is optional; the zero value means "use modified_at".
	// The wire encodes absence as null.
	FeedTimestamp time.Time `json:"feed_timestamp"`
	IsPublished   bool      `json:"is_published"`
	DisplayInFeed bool      `json:"display_in_feed"`
	OwnerID       int       `json:"owner_id" validate:"required,gt=0"`
	CurrentTagIDs []int     `json:"current_tag_ids" validate:"omitempty,dive,gt=0"`
}

func ValidateObjectAttributes(o ObjectAttributes) error {
	return validateStruct(o)
}
