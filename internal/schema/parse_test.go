package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTag_Valid(t *testing.T) {
	raw := []byte(`{
		"tag_id": 5,
		"tag_name": "books",
		"tag_description": "reading list",
		"is_published": true,
		"created_at": "2024-03-01T10:00:00Z",
		"modified_at": "2024-03-02T10:00:00Z"
	}`)
	tag, err := ParseTag(raw)
	if err != nil {
		t.Fatalf("ParseTag error: %v", err)
	}
	if tag.TagID != 5 || tag.TagName != "books" || !tag.IsPublished {
		t.Fatalf("unexpected tag: %+v", tag)
	}
}

func TestParseTag_ReportsEveryViolation(t *testing.T) {
	raw := []byte(`{"tag_id": 0, "tag_name": "", "created_at": "2024-03-01T10:00:00Z", "modified_at": "2024-03-01T10:00:00Z"}`)
	_, err := ParseTag(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError; got %T: %v", err, err)
	}
	if len(ve.Violations) != 2 {
		t.Fatalf("expected 2 violations (tag_id, tag_name); got %d: %v", len(ve.Violations), ve)
	}
	paths := map[string]bool{}
	for _, v := range ve.Violations {
		paths[v.Path] = true
	}
	if !paths["tag_id"] || !paths["tag_name"] {
		t.Fatalf("expected violations for tag_id and tag_name; got %v", paths)
	}
}

func TestParseTagList_AggregatesElementErrors(t *testing.T) {
	raw := []byte(`[
		{"tag_id": 1, "tag_name": "ok", "created_at": "2024-03-01T10:00:00Z", "modified_at": "2024-03-01T10:00:00Z"},
		{"tag_id": -2, "tag_name": "", "created_at": "2024-03-01T10:00:00Z", "modified_at": "2024-03-01T10:00:00Z"},
		{"tag_id": 3, "tag_name": ""}
	]`)
	_, err := ParseTagList(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError; got %T", err)
	}
	// Element 1 contributes two violations, element 2 at least two more.
	if len(ve.Violations) < 4 {
		t.Fatalf("expected aggregated violations from both bad elements; got %v", ve)
	}
	if !strings.HasPrefix(ve.Violations[0].Path, "[1].") {
		t.Fatalf("expected index-prefixed path; got %q", ve.Violations[0].Path)
	}
}

func TestParseObjectAttributes_RejectsUnknownType(t *testing.T) {
	raw := []byte(`{
		"object_id": 1,
		"object_type": "spreadsheet",
		"object_name": "x",
		"created_at": "2024-03-01T10:00:00Z",
		"modified_at": "2024-03-01T10:00:00Z",
		"owner_id": 1
	}`)
	if _, err := ParseObjectAttributes(raw); err == nil {
		t.Fatalf("expected error for unknown object_type")
	}
}

func TestParseObjectAttributes_NullFeedTimestamp(t *testing.T) {
	raw := []byte(`{
		"object_id": 1,
		"object_type": "link",
		"object_name": "x",
		"created_at": "2024-03-01T10:00:00Z",
		"modified_at": "2024-03-01T10:00:00Z",
		"feed_timestamp": null,
		"owner_id": 1
	}`)
	o, err := ParseObjectAttributes(raw)
	if err != nil {
		t.Fatalf("ParseObjectAttributes error: %v", err)
	}
	if !o.FeedTimestamp.IsZero() {
		t.Fatalf("expected zero feed timestamp; got %v", o.FeedTimestamp)
	}
}

func TestParseObjectData_PerType(t *testing.T) {
	link, err := ParseObjectData([]byte(`{"object_id": 1, "object_type": "link", "object_data": {"link": "https://example.com", "show_description_as_link": false}}`))
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link.Link == nil || link.Link.Link != "https://example.com" {
		t.Fatalf("unexpected link payload: %+v", link)
	}

	md, err := ParseObjectData([]byte(`{"object_id": 2, "object_type": "markdown", "object_data": {"raw_text": "# hi"}}`))
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if md.Markdown == nil || md.Markdown.RawText != "# hi" {
		t.Fatalf("unexpected markdown payload: %+v", md)
	}

	tdl, err := ParseObjectData([]byte(`{"object_id": 3, "object_type": "to_do_list", "object_data": {"sort_type": "state", "items": [{"item_state": "active", "item_text": "a", "commentary": "", "indent": 1, "is_expanded": true}]}}`))
	if err != nil {
		t.Fatalf("to-do list: %v", err)
	}
	if tdl.ToDoList == nil || len(tdl.ToDoList.Items) != 1 {
		t.Fatalf("unexpected to-do payload: %+v", tdl)
	}

	comp, err := ParseObjectData([]byte(`{"object_id": 4, "object_type": "composite", "object_data": {"display_mode": "multicolumn", "numerate_chapters": false, "subobjects": [{"object_id": 1, "row": 0, "column": 0, "selected_tab": 0, "is_expanded": true, "show_description": false}]}}`))
	if err != nil {
		t.Fatalf("composite: %v", err)
	}
	if comp.Composite == nil || len(comp.Composite.Subobjects) != 1 {
		t.Fatalf("unexpected composite payload: %+v", comp)
	}
}

func TestParseObjectData_InvalidPayload(t *testing.T) {
	if _, err := ParseObjectData([]byte(`{"object_id": 1, "object_type": "to_do_list", "object_data": {"sort_type": "alphabetical", "items": []}}`)); err == nil {
		t.Fatalf("expected error for bad sort_type")
	}
	if _, err := ParseObjectData([]byte(`{"object_id": 1, "object_type": "link", "object_data": {"link": "not a url"}}`)); err == nil {
		t.Fatalf("expected error for bad url")
	}
}

func TestDefaultPayloadsAreValid(t *testing.T) {
	if err := ValidateToDoList(NewToDoList()); err != nil {
		t.Fatalf("NewToDoList invalid: %v", err)
	}
	if err := ValidateComposite(NewComposite()); err != nil {
		t.Fatalf("NewComposite invalid: %v", err)
	}
}
