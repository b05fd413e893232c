package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/todoapp/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Mode:     string(m.Mode),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) listBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Up + "/" + m.Keys.Down, Action: "move selection"},
		{Key: m.Keys.New, Action: "new item"},
		{Key: m.Keys.Edit, Action: "edit selected"},
		{Key: m.Keys.Finish, Action: "finish selected"},
		{Key: m.Keys.Delete, Action: "delete selected"},
		{Key: m.Keys.Sort, Action: "sort by due date"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) modeBindings() []KeyBinding {
	switch m.Mode {
	case ModeEditor:
		return []KeyBinding{
			{Key: m.Keys.NextField, Action: "next field"},
			{Key: "ctrl+f", Action: "toggle finished"},
			{Key: "enter", Action: "save"},
			{Key: m.Keys.Dismiss, Action: "cancel"},
		}
	case ModePalette:
		return []KeyBinding{
			{Key: "add <title> [@ date]", Action: "add item"},
			{Key: "done <row>", Action: "finish row"},
			{Key: "rm <row>", Action: "delete row"},
			{Key: "sort", Action: "sort by due date"},
		}
	case ModeConfirm:
		return []KeyBinding{{Key: "y/n", Action: "confirm or cancel delete"}}
	default:
		return m.listBindings()
	}
}

func (m Model) helpBindings() []key.Binding {
	kbs := m.modeBindings()
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
