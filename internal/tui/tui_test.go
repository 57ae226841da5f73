package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

func TestDelegateRenderPadsAndTruncatesToListWidth(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	d := newCompactItemDelegate()
	items := []list.Item{
		tagRow{tag: schema.Tag{TagID: 1, TagName: "go", IsPublished: true}, glyphs: glyphsFor("ascii")},
		tagRow{tag: schema.Tag{TagID: 2, TagName: strings.Repeat("verylongname", 10), IsPublished: true}, glyphs: glyphsFor("ascii")},
	}
	l := list.New(items, d, 24, 6)

	for i := range items {
		var buf bytes.Buffer
		d.Render(&buf, l, i, items[i])
		if w := xansi.StringWidth(buf.String()); w != 24 {
			t.Fatalf("row %d rendered width = %d, want 24", i, w)
		}
	}
}

func TestRenderToDoListGroupsByState(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	l := schema.ToDoList{
		SortType: schema.ToDoSortState,
		Items: []schema.ToDoItem{
			{ItemState: schema.ToDoItemCancelled, ItemText: "old idea"},
			{ItemState: schema.ToDoItemActive, ItemText: "write draft"},
			{ItemState: schema.ToDoItemCompleted, ItemText: "outline"},
		},
	}

	out := renderToDoList(l, glyphsFor("ascii"))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "[ ] write draft") {
		t.Fatalf("active item not first: %q", lines[0])
	}
	if !strings.Contains(lines[1], "[x] outline") {
		t.Fatalf("completed item not second: %q", lines[1])
	}
	if !strings.Contains(lines[2], "[-] old idea") {
		t.Fatalf("cancelled item not last: %q", lines[2])
	}
}

func TestRenderObjectDetailWithoutPayloadShowsLoading(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	s := state.New()
	s.Objects[5] = schema.ObjectAttributes{
		ObjectID:    5,
		ObjectType:  schema.ObjectTypeMarkdown,
		ObjectName:  "notes",
		IsPublished: true,
		OwnerID:     1,
		CreatedAt:   time.Now(),
		ModifiedAt:  time.Now(),
	}

	out := renderObjectDetail(s, 5, 60, glyphsFor("ascii"))
	if !strings.Contains(out, "notes") {
		t.Fatalf("missing object name:\n%s", out)
	}
	if !strings.Contains(out, "loading") {
		t.Fatalf("expected loading hint for missing payload:\n%s", out)
	}
}

func TestRenderObjectDetailLinkAndTags(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	s := state.New()
	s.Objects[3] = schema.ObjectAttributes{
		ObjectID: 3, ObjectType: schema.ObjectTypeLink, ObjectName: "blog",
		IsPublished: true, OwnerID: 1, CreatedAt: time.Now(), ModifiedAt: time.Now(),
	}
	s.Links[3] = schema.Link{Link: "https://example.com/post"}
	s.Tags[9] = schema.Tag{TagID: 9, TagName: "reading", IsPublished: true}
	s.ObjectsTags[3] = []int{9}

	out := renderObjectDetail(s, 3, 60, glyphsFor("ascii"))
	if !strings.Contains(out, "https://example.com/post") {
		t.Fatalf("missing link url:\n%s", out)
	}
	if !strings.Contains(out, "#reading") {
		t.Fatalf("missing tag chip:\n%s", out)
	}
}

func TestWrapPlain(t *testing.T) {
	out := wrapPlain("one two three four five", 10)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 10 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
	if strings.Join(strings.Fields(out), " ") != "one two three four five" {
		t.Fatalf("words lost: %q", out)
	}
}
