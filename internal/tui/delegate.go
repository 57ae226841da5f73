package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"curio-cli/internal/schema"
)

// tagRow is a one-line tags listing entry.
type tagRow struct {
	tag    schema.Tag
	marked bool
	glyphs glyphSet
}

func (r tagRow) FilterValue() string { return r.tag.TagName }

func (r tagRow) Title() string {
	mark := " "
	if r.marked {
		mark = lipgloss.NewStyle().Foreground(colorMarkedFg).Render(r.glyphs.Marked)
	}
	name := r.tag.TagName
	if !r.tag.IsPublished {
		name += " " + styleHint.Render("(unpublished)")
	}
	return mark + " " + name
}

// objectRow is a one-line objects listing entry: marker, type label, name,
// tag chips.
type objectRow struct {
	object   schema.ObjectAttributes
	tagNames []string
	marked   bool
	glyphs   glyphSet
}

func (r objectRow) FilterValue() string { return r.object.ObjectName }

func (r objectRow) Title() string {
	mark := " "
	if r.marked {
		mark = lipgloss.NewStyle().Foreground(colorMarkedFg).Render(r.glyphs.Marked)
	}
	label := styleHint.Render(fmt.Sprintf("%-10s", objectTypeLabel(r.object.ObjectType)))
	line := mark + " " + label + " " + r.object.ObjectName
	if len(r.tagNames) > 0 {
		line += "  " + styleTag.Render("#"+strings.Join(r.tagNames, " #"))
	}
	return line
}

func objectTypeLabel(t schema.ObjectType) string {
	switch t {
	case schema.ObjectTypeLink:
		return "link"
	case schema.ObjectTypeMarkdown:
		return "note"
	case schema.ObjectTypeToDoList:
		return "to-do"
	case schema.ObjectTypeComposite:
		return "collection"
	}
	return string(t)
}

// compactItemDelegate renders one-line rows padded/truncated to list width.
type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}
