package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoapp/internal/model"
	"github.com/sandeepkv93/todoapp/internal/scheduler"
	"github.com/sandeepkv93/todoapp/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.scheduler != nil {
		return waitForTickCmd(m.scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if len(m.Alerts) > 0 {
			m.Alerts = m.Alerts[1:]
			return m, nil
		}
		switch m.Mode {
		case ModePalette:
			return m.handlePaletteKey(typed), nil
		case ModeEditor:
			return m.handleEditorKey(typed), nil
		case ModeConfirm:
			return m.handleConfirmKey(typed), nil
		}
		return m.handleListKey(typed)
	case tea.WindowSizeMsg:
		if typed.Width > 8 {
			m.detail.Width = typed.Width/2 - 4
		}
		return m, nil
	case DueTickMsg:
		notify := m.handleDueTick(typed.At)
		if m.scheduler != nil {
			return m, tea.Batch(notify, waitForTickCmd(m.scheduler.C()))
		}
		return m, notify
	case desktopNotifyFailedMsg:
		m.logger.Warn("desktop notification failed", "item", typed.ItemID, "err", typed.Err)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Up, "up":
		m.moveSelection(-1)
	case m.Keys.Down, "down":
		m.moveSelection(1)
	case m.Keys.New:
		m = m.openEditor(nil)
	case m.Keys.Edit:
		if item, ok := m.selectedItem(); ok {
			m = m.openEditor(item)
		}
	case m.Keys.Finish:
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		idx := m.selectedIndex()
		if _, err := m.svc.Finish(m.ctx, item.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("finished: %s", item.Title)}
		m.clampSelection(idx)
	case m.Keys.Delete:
		if item, ok := m.selectedItem(); ok {
			m.Mode = ModeConfirm
			m.ConfirmID = item.ID
		}
	case m.Keys.Sort:
		if err := m.svc.Sort(m.ctx); err != nil {
			m.setError(err)
			return m, nil
		}
		m.Status = StatusBar{Text: "sorted by due date"}
	case m.Keys.Palette:
		m.Mode = ModePalette
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	id := m.ConfirmID
	m.Mode = ModeList
	m.ConfirmID = ""
	switch strings.ToLower(msg.String()) {
	case "y":
		idx := m.selectedIndex()
		if err := m.svc.Delete(m.ctx, id); err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: "deleted"}
		m.clampSelection(idx)
	default:
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	left := m.renderListView()
	if m.Mode == ModeEditor {
		left = m.renderEditorView()
	}
	right := strings.TrimSpace(strings.Join([]string{
		m.renderDetailView(),
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
	}, "\n\n"))

	header := fmt.Sprintf("todoapp | view: remaining | remaining: %d", len(m.svc.Remaining()))
	if n := len(m.AlertLog); n > 0 {
		last := m.AlertLog[n-1]
		header += fmt.Sprintf(" | last alert: %s @ %s", last.Title, last.FiredAt.Format("15:04"))
	}

	return views.RenderApp(views.AppData{
		Header:     header,
		LeftPane:   left,
		RightPane:  right,
		StatusLine: status,
		Alert:      m.renderAlertView(),
		Footer: fmt.Sprintf("keys: %s/%s move | %s new | %s edit | %s finish | %s delete | %s sort | %s cmd | %s help | %s quit",
			m.Keys.Up, m.Keys.Down, m.Keys.New, m.Keys.Edit, m.Keys.Finish, m.Keys.Delete, m.Keys.Sort, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderListView() string {
	now := m.now()
	items := m.visibleItems()
	rows := make([]views.ListRowData, 0, len(items))
	for _, it := range items {
		rows = append(rows, views.ListRowData{
			ID:      it.ID,
			Title:   it.Title,
			Due:     model.FormatDueDate(it.DueDate),
			Overdue: it.IsOverdue(now),
		})
	}
	confirm := ""
	if m.Mode == ModeConfirm {
		if item, ok := m.svc.Find(m.ConfirmID); ok {
			confirm = fmt.Sprintf("delete %q?", item.Title)
		}
	}
	return views.RenderListPanel(views.ListPanelData{
		Heading:    "remaining",
		Rows:       rows,
		SelectedID: m.SelectedID,
		Confirm:    confirm,
	})
}

func (m Model) renderDetailView() string {
	item, ok := m.selectedItem()
	if !ok {
		return "detail:\n(no selection)"
	}
	data := views.DetailData{
		Title:       item.Title,
		Description: item.Description,
		Due:         model.FormatDueDate(item.DueDate),
		Added:       model.FormatDueDate(item.AddedDate),
	}
	if item.FinishedDate != nil {
		data.Finished = model.FormatDueDate(*item.FinishedDate)
	}
	m.detail.SetContent(views.RenderMarkdown(views.DetailMarkdown(data)))
	return m.detail.View()
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Mode == ModePalette, m.commandInput.View())
}

func waitForTickCmd(ch <-chan scheduler.Tick) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		tick, ok := <-ch
		if !ok {
			return nil
		}
		return DueTickMsg{At: tick.At}
	}
}
