package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoapp/internal/model"
	"github.com/sandeepkv93/todoapp/internal/todo"
	"github.com/sandeepkv93/todoapp/internal/views"
)

// openEditor starts editing item, or composing a new one when item is nil.
// New items start with the current minute as their due date.
func (m Model) openEditor(item *model.Item) Model {
	draft := todo.Draft{Due: model.FormatDueDate(m.now())}
	m.Editor = EditorState{}
	if item != nil {
		draft = todo.DraftFrom(item)
		m.Editor.EditingID = item.ID
		m.Editor.Finished = item.Finished
	}
	values := [fieldCount]string{draft.Title, draft.Description, draft.Due}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
		m.inputs[i].Blur()
	}
	m.inputs[fieldTitle].Focus()
	m.Mode = ModeEditor
	return m
}

func (m Model) closeEditor() Model {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.Editor = EditorState{}
	m.Mode = ModeList
	return m
}

func (m Model) handleEditorKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case m.Keys.Dismiss:
		m = m.closeEditor()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m
	case m.Keys.NextField:
		m.focusField((m.Editor.Focus + 1) % fieldCount)
		return m
	case "shift+tab":
		m.focusField((m.Editor.Focus + fieldCount - 1) % fieldCount)
		return m
	case "ctrl+f":
		m.Editor.Finished = !m.Editor.Finished
		return m
	case "enter":
		return m.submitEditor()
	}

	field := &m.inputs[m.Editor.Focus]
	if msg.Type == tea.KeyRunes {
		field.SetValue(field.Value() + string(msg.Runes))
		return m
	}
	*field, _ = field.Update(msg)
	return m
}

func (m *Model) focusField(i int) {
	m.inputs[m.Editor.Focus].Blur()
	m.Editor.Focus = i
	m.inputs[i].Focus()
}

// submitEditor saves the draft. A due date that does not parse keeps the
// editor open and leaves the store untouched.
func (m Model) submitEditor() Model {
	draft := todo.Draft{
		Title:       m.inputs[fieldTitle].Value(),
		Description: m.inputs[fieldDescription].Value(),
		Due:         m.inputs[fieldDue].Value(),
		Finished:    m.Editor.Finished,
	}.Normalize()

	var (
		item *model.Item
		err  error
	)
	if m.Editor.EditingID == "" {
		item, err = m.svc.Create(m.ctx, draft)
	} else {
		item, err = m.svc.Update(m.ctx, m.Editor.EditingID, draft)
	}
	if err != nil {
		if errors.Is(err, model.ErrInvalidDueDate) {
			m.Editor.Err = err.Error()
			m.focusField(fieldDue)
		}
		m.setError(err)
		return m
	}

	idx := m.selectedIndex()
	m = m.closeEditor()
	m.SelectedID = item.ID
	m.clampSelection(idx)
	m.Status = StatusBar{Text: fmt.Sprintf("saved: %s", item.String())}
	return m
}

func (m Model) renderEditorView() string {
	heading := "new item"
	if m.Editor.EditingID != "" {
		heading = "edit item"
	}
	return views.RenderEditorPanel(views.EditorPanelData{
		Heading:         heading,
		TitleView:       m.inputs[fieldTitle].View(),
		DescriptionView: m.inputs[fieldDescription].View(),
		DueView:         m.inputs[fieldDue].View(),
		Finished:        m.Editor.Finished,
		Focus:           m.Editor.Focus,
		ErrorText:       m.Editor.Err,
	})
}
