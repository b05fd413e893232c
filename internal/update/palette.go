package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoapp/internal/commands"
	"github.com/sandeepkv93/todoapp/internal/model"
	"github.com/sandeepkv93/todoapp/internal/todo"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case m.Keys.Dismiss:
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) closePalette() Model {
	m.Mode = ModeList
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	idx := m.selectedIndex()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			due := a.Due
			if due == "" {
				due = model.FormatDueDate(m.now())
			}
			item, err := m.svc.Create(m.ctx, todo.Draft{Title: a.Title, Due: due})
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedID = item.ID
			return commands.Result{Message: fmt.Sprintf("added: %s", item.String())}, nil
		},
		Done: func(r commands.RowArgs) (commands.Result, error) {
			item, err := m.svc.ItemAtRow(r.Row)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.svc.Finish(m.ctx, item.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("finished: %s", item.Title)}, nil
		},
		Remove: func(r commands.RowArgs) (commands.Result, error) {
			item, err := m.svc.ItemAtRow(r.Row)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.svc.Delete(m.ctx, item.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted: %s", item.Title)}, nil
		},
		Sort: func() (commands.Result, error) {
			if err := m.svc.Sort(m.ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "sorted by due date"}, nil
		},
	})
	if err != nil {
		m.setError(err)
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.clampSelection(idx)
	return m
}
