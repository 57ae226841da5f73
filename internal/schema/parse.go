package schema

import (
	"encoding/json"
	"fmt"
)

// ParseTag decodes and validates one wire tag.
func ParseTag(raw json.RawMessage) (Tag, error) {
	var t Tag
	if err := json.Unmarshal(raw, &t); err != nil {
		return Tag{}, fmt.Errorf("decode tag: %w", err)
	}
	if err := ValidateTag(t); err != nil {
		return Tag{}, err
	}
	return t, nil
}

// ParseTagList decodes a wire tag array, validating each element and
// aggregating every violation.
func ParseTagList(raw json.RawMessage) ([]Tag, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode tag list: %w", err)
	}
	out := make([]Tag, 0, len(items))
	errs := map[int]error{}
	for i, item := range items {
		t, err := ParseTag(item)
		if err != nil {
			errs[i] = err
			continue
		}
		out = append(out, t)
	}
	if err := mergeValidationErrors(errs); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseObjectAttributes decodes and validates one wire object attribute set.
func ParseObjectAttributes(raw json.RawMessage) (ObjectAttributes, error) {
	var o ObjectAttributes
	if err := json.Unmarshal(raw, &o); err != nil {
		return ObjectAttributes{}, fmt.Errorf("decode object: %w", err)
	}
	if err := ValidateObjectAttributes(o); err != nil {
		return ObjectAttributes{}, err
	}
	return o, nil
}

func ParseObjectAttributesList(raw json.RawMessage) ([]ObjectAttributes, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode object list: %w", err)
	}
	out := make([]ObjectAttributes, 0, len(items))
	errs := map[int]error{}
	for i, item := range items {
		o, err := ParseObjectAttributes(item)
		if err != nil {
			errs[i] = err
			continue
		}
		out = append(out, o)
	}
	if err := mergeValidationErrors(errs); err != nil {
		return nil, err
	}
	return out, nil
}

// ObjectData is one type-discriminated payload from an /objects/view
// response. Exactly one of the payload pointers is set.
type ObjectData struct {
	ObjectID   int        `json:"object_id"`
	ObjectType ObjectType `json:"object_type"`

	Link      *Link      `json:"-"`
	Markdown  *Markdown  `json:"-"`
	ToDoList  *ToDoList  `json:"-"`
	Composite *Composite `json:"-"`
}

// ParseObjectData decodes and validates one wire object_data record
// ({object_id, object_type, object_data}).
func ParseObjectData(raw json.RawMessage) (ObjectData, error) {
	var envelope struct {
		ObjectID   int             `json:"object_id"`
		ObjectType ObjectType      `json:"object_type"`
		ObjectData json.RawMessage `json:"object_data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ObjectData{}, fmt.Errorf("decode object data: %w", err)
	}
	if envelope.ObjectID <= 0 {
		return ObjectData{}, &ValidationError{Violations: []FieldViolation{
			{Path: "object_id", Constraint: "gt=0", Value: envelope.ObjectID},
		}}
	}

	out := ObjectData{ObjectID: envelope.ObjectID, ObjectType: envelope.ObjectType}
	switch envelope.ObjectType {
	case ObjectTypeLink:
		var l Link
		if err := json.Unmarshal(envelope.ObjectData, &l); err != nil {
			return ObjectData{}, fmt.Errorf("decode link data: %w", err)
		}
		if err := ValidateLink(l); err != nil {
			return ObjectData{}, err
		}
		out.Link = &l
	case ObjectTypeMarkdown:
		var m Markdown
		if err := json.Unmarshal(envelope.ObjectData, &m); err != nil {
			return ObjectData{}, fmt.Errorf("decode markdown data: %w", err)
		}
		if err := ValidateMarkdown(m); err != nil {
			return ObjectData{}, err
		}
		out.Markdown = &m
	case ObjectTypeToDoList:
		var l ToDoList
		if err := json.Unmarshal(envelope.ObjectData, &l); err != nil {
			return ObjectData{}, fmt.Errorf("decode to-do list data: %w", err)
		}
		if err := ValidateToDoList(l); err != nil {
			return ObjectData{}, err
		}
		out.ToDoList = &l
	case ObjectTypeComposite:
		var c Composite
		if err := json.Unmarshal(envelope.ObjectData, &c); err != nil {
			return ObjectData{}, fmt.Errorf("decode composite data: %w", err)
		}
		if err := ValidateComposite(c); err != nil {
			return ObjectData{}, err
		}
		out.Composite = &c
	default:
		return ObjectData{}, &ValidationError{Violations: []FieldViolation{
			{Path: "object_type", Constraint: "oneof=link markdown to_do_list composite", Value: string(envelope.ObjectType)},
		}}
	}
	return out, nil
}

func ParseObjectDataList(raw json.RawMessage) ([]ObjectData, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode object data list: %w", err)
	}
	out := make([]ObjectData, 0, len(items))
	errs := map[int]error{}
	for i, item := range items {
		d, err := ParseObjectData(item)
		if err != nil {
			errs[i] = err
			continue
		}
		out = append(out, d)
	}
	if err := mergeValidationErrors(errs); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseUser(raw json.RawMessage) (User, error) {
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	if err := ValidateUser(u); err != nil {
		return User{}, err
	}
	return u, nil
}

func ParseUserList(raw json.RawMessage) ([]User, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode user list: %w", err)
	}
	out := make([]User, 0, len(items))
	errs := map[int]error{}
	for i, item := range items {
		u, err := ParseUser(item)
		if err != nil {
			errs[i] = err
			continue
		}
		out = append(out, u)
	}
	if err := mergeValidationErrors(errs); err != nil {
		return nil, err
	}
	return out, nil
}
