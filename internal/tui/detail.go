package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"
)

// renderObjectDetail renders the read-only detail view of one object from the
// current state snapshot. Payloads that have not been fetched yet render a
// loading hint instead.
func renderObjectDetail(s *state.State, id, width int, glyphs glyphSet) string {
	o, ok := s.Objects[id]
	if !ok {
		return styleError.Render("object not in cache")
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(o.ObjectName))
	b.WriteString("\n")
	b.WriteString(styleHint.Render(objectTypeLabel(o.ObjectType)))
	if !o.IsPublished {
		b.WriteString(styleHint.Render("  unpublished"))
	}
	if owner, ok := s.Users[o.OwnerID]; ok {
		b.WriteString(styleHint.Render("  by " + owner.Username))
	}
	b.WriteString(styleHint.Render("  modified " + o.ModifiedAt.Format("2006-01-02 15:04")))
	b.WriteString("\n")

	if names := tagNamesFor(s, id); len(names) > 0 {
		b.WriteString(styleTag.Render("#" + strings.Join(names, " #")))
		b.WriteString("\n")
	}
	if o.ObjectDescription != "" {
		b.WriteString("\n")
		b.WriteString(wrapPlain(o.ObjectDescription, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch o.ObjectType {
	case schema.ObjectTypeLink:
		if l, ok := s.Links[id]; ok {
			b.WriteString(lipgloss.NewStyle().Foreground(colorAccent).Underline(true).Render(l.Link))
		} else {
			b.WriteString(styleHint.Render("loading…"))
		}
	case schema.ObjectTypeMarkdown:
		if m, ok := s.Markdown[id]; ok {
			b.WriteString(renderMarkdown(m.RawText, width))
		} else {
			b.WriteString(styleHint.Render("loading…"))
		}
	case schema.ObjectTypeToDoList:
		if l, ok := s.ToDoLists[id]; ok {
			b.WriteString(renderToDoList(l, glyphs))
		} else {
			b.WriteString(styleHint.Render("loading…"))
		}
	case schema.ObjectTypeComposite:
		if c, ok := s.Composite[id]; ok {
			b.WriteString(renderComposite(s, c, glyphs))
		} else {
			b.WriteString(styleHint.Render("loading…"))
		}
	}

	return b.String()
}

func renderToDoList(l schema.ToDoList, glyphs glyphSet) string {
	items := l.Items
	if l.SortType == schema.ToDoSortState {
		items = sortedByState(items)
	}

	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat("  ", it.Indent))
		b.WriteString(todoMark(it.ItemState))
		b.WriteString(" ")
		switch it.ItemState {
		case schema.ToDoItemCompleted, schema.ToDoItemCancelled:
			b.WriteString(styleHint.Render(it.ItemText))
		default:
			b.WriteString(it.ItemText)
		}
		if it.Commentary != "" {
			b.WriteString("  " + styleHint.Render(it.Commentary))
		}
	}
	if len(items) == 0 {
		b.WriteString(styleHint.Render("(empty list)"))
	}
	return b.String()
}

// sortedByState groups items by state while keeping the in-state order
// stable: active first, then optional, completed, cancelled.
func sortedByState(items []schema.ToDoItem) []schema.ToDoItem {
	rank := map[schema.ToDoItemState]int{
		schema.ToDoItemActive:    0,
		schema.ToDoItemOptional:  1,
		schema.ToDoItemCompleted: 2,
		schema.ToDoItemCancelled: 3,
	}
	out := make([]schema.ToDoItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].ItemState] < rank[out[j].ItemState]
	})
	return out
}

func todoMark(st schema.ToDoItemState) string {
	switch st {
	case schema.ToDoItemCompleted:
		return "[x]"
	case schema.ToDoItemCancelled:
		return "[-]"
	case schema.ToDoItemOptional:
		return "[?]"
	}
	return "[ ]"
}

func renderComposite(s *state.State, c schema.Composite, glyphs glyphSet) string {
	var b strings.Builder
	b.WriteString(styleHint.Render(fmt.Sprintf("collection · %s · %d items", c.DisplayMode, len(c.Subobjects))))
	for _, so := range c.Subobjects {
		b.WriteString("\n")
		b.WriteString(glyphs.Bullet + " ")
		if sub, ok := s.Objects[so.ObjectID]; ok {
			b.WriteString(styleHint.Render(fmt.Sprintf("%-10s", objectTypeLabel(sub.ObjectType))))
			b.WriteString(" " + sub.ObjectName)
		} else {
			b.WriteString(styleHint.Render(fmt.Sprintf("object %d (not loaded)", so.ObjectID)))
		}
	}
	return b.String()
}

func tagNamesFor(s *state.State, objectID int) []string {
	ids := s.ObjectsTags[objectID]
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.Tags[id]; ok {
			names = append(names, t.TagName)
		}
	}
	return names
}

// wrapPlain is a cheap greedy word wrap for plain-text paragraphs.
func wrapPlain(text string, width int) string {
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wl := len([]rune(word))
		if i > 0 {
			if lineLen+1+wl > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += wl
	}
	return b.String()
}
