package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"curio-cli/internal/reducers"
	"curio-cli/internal/state"
	"curio-cli/internal/thunks"
)

type pane int

const (
	paneTags pane = iota
	paneObjects
	paneDetail
)

// thunkDoneMsg reports a finished background operation. A non-nil err is a
// protocol violation (malformed success response); ordinary request failures
// land in the page fetch state instead.
type thunkDoneMsg struct{ err error }

const thunkTimeout = 30 * time.Second

type appModel struct {
	rt     *thunks.Runtime
	glyphs glyphSet

	pane    pane
	tags    list.Model
	objects list.Model

	filter    textinput.Model
	filtering bool

	spin spinner.Model

	detailID int

	width  int
	height int

	fatalErr string
}

func newAppModel(rt *thunks.Runtime, glyphs glyphSet) appModel {
	newList := func() list.Model {
		l := list.New([]list.Item{}, newCompactItemDelegate(), 0, 0)
		l.SetShowTitle(false)
		l.SetShowStatusBar(false)
		l.SetShowHelp(false)
		l.SetShowPagination(false)
		l.SetFilteringEnabled(false)
		l.DisableQuitKeybindings()
		return l
	}

	sp := spinner.New()
	if glyphs.Bullet == "-" {
		sp.Spinner = spinner.Line
	} else {
		sp.Spinner = spinner.MiniDot
	}
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	fi := textinput.New()
	fi.Placeholder = "filter"
	fi.Prompt = "/ "
	fi.CharLimit = 255

	return appModel{
		rt:      rt,
		glyphs:  glyphs,
		pane:    paneObjects,
		tags:    newList(),
		objects: newList(),
		filter:  fi,
		spin:    sp,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.runThunk(func(ctx context.Context) error { return m.rt.LoadObjectsPage(ctx) }),
		m.runThunk(func(ctx context.Context) error { return m.rt.LoadTagsPage(ctx) }),
	)
}

// runThunk executes one UI thunk off the Update loop. Thunks commit their
// results into the store themselves; the message only carries fatal errors.
func (m appModel) runThunk(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), thunkTimeout)
		defer cancel()
		return thunkDoneMsg{err: fn(ctx)}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		bodyH := m.height - 3
		if bodyH < 1 {
			bodyH = 1
		}
		m.tags.SetSize(m.width, bodyH)
		m.objects.SetSize(m.width, bodyH)
		m.rebuild()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case thunkDoneMsg:
		if msg.err != nil {
			m.fatalErr = msg.err.Error()
		}
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.rt.Store.State()

	// The filter input captures everything except escape and enter.
	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			text := strings.TrimSpace(m.filter.Value())
			page := 1
			if m.pane == paneTags {
				return m, m.runThunk(func(ctx context.Context) error {
					return m.rt.SetTagsPaginationAndReload(ctx, reducers.TagsPaginationPatch{Page: &page, FilterText: &text})
				})
			}
			return m, m.runThunk(func(ctx context.Context) error {
				return m.rt.SetObjectsPaginationAndReload(ctx, reducers.ObjectsPaginationPatch{Page: &page, FilterText: &text})
			})
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	// Delete confirmation owns the keyboard while its dialog is open.
	if dialogOpen(s, m.pane) {
		switch msg.String() {
		case "y", "Y", "enter":
			if m.pane == paneTags {
				return m, m.runThunk(func(ctx context.Context) error { return m.rt.DeleteSelectedTags(ctx) })
			}
			return m, m.runThunk(func(ctx context.Context) error { return m.rt.DeleteSelectedObjects(ctx, false) })
		case "n", "N", "esc", "q":
			if m.pane == paneTags {
				m.rt.Store.Dispatch(reducers.SetShowTagsDeleteDialog{Show: false})
			} else {
				m.rt.Store.Dispatch(reducers.SetShowObjectsDeleteDialog{Show: false})
			}
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.pane == paneDetail && msg.String() == "q" {
			m.pane = paneObjects
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		if m.pane == paneDetail {
			m.pane = paneObjects
		}
		return m, nil

	case "tab", "1", "2":
		if m.pane == paneDetail {
			m.pane = paneObjects
		}
		switch msg.String() {
		case "1":
			m.pane = paneTags
		case "2":
			m.pane = paneObjects
		default:
			if m.pane == paneTags {
				m.pane = paneObjects
			} else {
				m.pane = paneTags
			}
		}
		return m, nil

	case "r":
		m.fatalErr = ""
		if m.pane == paneTags {
			return m, m.runThunk(func(ctx context.Context) error { return m.rt.LoadTagsPage(ctx) })
		}
		return m, m.runThunk(func(ctx context.Context) error { return m.rt.LoadObjectsPage(ctx) })

	case "/":
		if m.pane == paneDetail {
			return m, nil
		}
		m.filtering = true
		m.filter.SetValue(currentFilterText(s, m.pane))
		m.filter.CursorEnd()
		return m, m.filter.Focus()

	case " ":
		switch m.pane {
		case paneTags:
			if row, ok := m.tags.SelectedItem().(tagRow); ok {
				m.rt.Store.Dispatch(reducers.ToggleTagSelection{TagID: row.tag.TagID})
				m.rebuild()
			}
		case paneObjects:
			if row, ok := m.objects.SelectedItem().(objectRow); ok {
				m.rt.Store.Dispatch(reducers.ToggleObjectSelection{ObjectID: row.object.ObjectID})
				m.rebuild()
			}
		}
		return m, nil

	case "d":
		switch m.pane {
		case paneTags:
			if len(s.TagsListUI.SelectedTagIDs) > 0 {
				m.rt.Store.Dispatch(reducers.SetShowTagsDeleteDialog{Show: true})
			}
		case paneObjects:
			if len(s.ObjectsListUI.SelectedObjectIDs) > 0 {
				m.rt.Store.Dispatch(reducers.SetShowObjectsDeleteDialog{Show: true})
			}
		}
		return m, nil

	case "n", "right":
		return m.gotoPage(s, +1)
	case "p", "left":
		return m.gotoPage(s, -1)

	case "enter":
		if m.pane == paneObjects {
			if row, ok := m.objects.SelectedItem().(objectRow); ok {
				id := row.object.ObjectID
				m.pane = paneDetail
				m.detailID = id
				return m, m.runThunk(func(ctx context.Context) error {
					_, err := m.rt.FetchMissingObjects(ctx, []int{id}, true)
					return err
				})
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.pane {
	case paneTags:
		m.tags, cmd = m.tags.Update(msg)
	case paneObjects:
		m.objects, cmd = m.objects.Update(msg)
	}
	return m, cmd
}

func (m appModel) gotoPage(s *state.State, delta int) (tea.Model, tea.Cmd) {
	switch m.pane {
	case paneTags:
		info := s.TagsListUI.PaginationInfo
		page := info.Page + delta
		if page < 1 || (delta > 0 && info.Page*info.ItemsPerPage >= info.TotalItems) {
			return m, nil
		}
		return m, m.runThunk(func(ctx context.Context) error {
			return m.rt.SetTagsPaginationAndReload(ctx, reducers.TagsPaginationPatch{Page: &page})
		})
	case paneObjects:
		info := s.ObjectsListUI.PaginationInfo
		page := info.Page + delta
		if page < 1 || (delta > 0 && info.Page*info.ItemsPerPage >= info.TotalItems) {
			return m, nil
		}
		return m, m.runThunk(func(ctx context.Context) error {
			return m.rt.SetObjectsPaginationAndReload(ctx, reducers.ObjectsPaginationPatch{Page: &page})
		})
	}
	return m, nil
}

// rebuild refreshes both list models from the current store snapshot.
func (m *appModel) rebuild() {
	s := m.rt.Store.State()

	selectedTags := intSet(s.TagsListUI.SelectedTagIDs)
	tagItems := make([]list.Item, 0, len(s.TagsListUI.PaginationInfo.CurrentPageTagIDs))
	for _, id := range s.TagsListUI.PaginationInfo.CurrentPageTagIDs {
		t, ok := s.Tags[id]
		if !ok {
			continue
		}
		tagItems = append(tagItems, tagRow{tag: t, marked: selectedTags[id], glyphs: m.glyphs})
	}
	m.tags.SetItems(tagItems)

	selectedObjects := intSet(s.ObjectsListUI.SelectedObjectIDs)
	objectItems := make([]list.Item, 0, len(s.ObjectsListUI.PaginationInfo.CurrentPageObjectIDs))
	for _, id := range s.ObjectsListUI.PaginationInfo.CurrentPageObjectIDs {
		o, ok := s.Objects[id]
		if !ok {
			continue
		}
		objectItems = append(objectItems, objectRow{
			object:   o,
			tagNames: tagNamesFor(s, id),
			marked:   selectedObjects[id],
			glyphs:   m.glyphs,
		})
	}
	m.objects.SetItems(objectItems)
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	s := m.rt.Store.State()

	var body string
	switch m.pane {
	case paneTags:
		body = m.tags.View()
	case paneObjects:
		body = m.objects.View()
	case paneDetail:
		body = renderObjectDetail(s, m.detailID, m.width-2, m.glyphs)
	}

	return m.header() + "\n" + body + "\n" + m.statusLine(s) + "\n" + m.hintLine(s)
}

func (m appModel) header() string {
	tab := func(label string, active bool) string {
		if active {
			return styleTitle.Render("[" + label + "]")
		}
		return styleHint.Render(" " + label + " ")
	}
	left := tab("tags", m.pane == paneTags) + " " + tab("objects", m.pane == paneObjects || m.pane == paneDetail)
	return left
}

func (m appModel) statusLine(s *state.State) string {
	if m.filtering {
		return m.filter.View()
	}
	if m.fatalErr != "" {
		return styleError.Render("error: " + m.fatalErr)
	}

	switch m.pane {
	case paneTags:
		ui := s.TagsListUI
		if ui.ShowDeleteDialog {
			return styleError.Render(fmt.Sprintf("delete %d tag(s)? (y/n)", len(ui.SelectedTagIDs)))
		}
		return pageStatus(m, ui.Fetch, ui.PaginationInfo.Page, ui.PaginationInfo.ItemsPerPage, ui.PaginationInfo.TotalItems, ui.PaginationInfo.FilterText, "tags")
	case paneObjects:
		ui := s.ObjectsListUI
		if ui.ShowDeleteDialog {
			return styleError.Render(fmt.Sprintf("delete %d object(s)? (y/n)", len(ui.SelectedObjectIDs)))
		}
		return pageStatus(m, ui.Fetch, ui.PaginationInfo.Page, ui.PaginationInfo.ItemsPerPage, ui.PaginationInfo.TotalItems, ui.PaginationInfo.FilterText, "objects")
	case paneDetail:
		if o, ok := s.Objects[m.detailID]; ok {
			return styleHint.Render(objectTypeLabel(o.ObjectType) + " · " + o.ObjectName)
		}
	}
	return ""
}

func pageStatus(m appModel, fetch state.FetchStatus, page, perPage, total int, filterText, noun string) string {
	if fetch.IsFetching {
		return m.spin.View() + " " + styleHint.Render("loading…")
	}
	if fetch.FetchError != "" {
		return styleError.Render(fetch.FetchError)
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	status := fmt.Sprintf("page %d/%d · %d %s", page, pages, total, noun)
	if filterText != "" {
		status += fmt.Sprintf(" · filter %q", filterText)
	}
	return styleHint.Render(status)
}

func (m appModel) hintLine(s *state.State) string {
	if m.filtering {
		return styleHint.Render("enter apply · esc cancel")
	}
	if dialogOpen(s, m.pane) {
		return styleHint.Render("y confirm · n cancel")
	}
	switch m.pane {
	case paneDetail:
		return styleHint.Render("esc back · q back")
	default:
		hints := "tab switch · / filter · n/p page · space mark · d delete · r reload · q quit"
		if m.pane == paneObjects {
			hints = "enter open · " + hints
		}
		return styleHint.Render(hints)
	}
}

func dialogOpen(s *state.State, p pane) bool {
	switch p {
	case paneTags:
		return s.TagsListUI.ShowDeleteDialog
	case paneObjects:
		return s.ObjectsListUI.ShowDeleteDialog
	}
	return false
}

func currentFilterText(s *state.State, p pane) string {
	if p == paneTags {
		return s.TagsListUI.PaginationInfo.FilterText
	}
	return s.ObjectsListUI.PaginationInfo.FilterText
}

func intSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
