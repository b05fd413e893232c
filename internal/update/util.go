package update

import (
	"strings"

	"github.com/sandeepkv93/todoapp/internal/model"
)

// visibleItems returns the rows of the remaining view, in display order.
func (m Model) visibleItems() []*model.Item {
	return m.svc.Remaining()
}

// selectedItem resolves the selection through the item id, so a row always
// maps to the stored item it displays.
func (m Model) selectedItem() (*model.Item, bool) {
	if m.SelectedID == "" {
		return nil, false
	}
	for _, it := range m.visibleItems() {
		if it.ID == m.SelectedID {
			return it, true
		}
	}
	return nil, false
}

func (m Model) selectedIndex() int {
	for i, it := range m.visibleItems() {
		if it.ID == m.SelectedID {
			return i
		}
	}
	return 0
}

func (m *Model) moveSelection(delta int) {
	items := m.visibleItems()
	if len(items) == 0 {
		m.SelectedID = ""
		return
	}
	idx := m.selectedIndex() + delta
	m.SelectedID = items[clamp(idx, 0, len(items)-1)].ID
}

// clampSelection keeps the current selection when it is still visible and
// otherwise selects the row nearest to fallback.
func (m *Model) clampSelection(fallback int) {
	if _, ok := m.selectedItem(); ok {
		return
	}
	items := m.visibleItems()
	if len(items) == 0 {
		m.SelectedID = ""
		return
	}
	m.SelectedID = items[clamp(fallback, 0, len(items)-1)].ID
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Error("action failed", "err", err)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// escapeAppleScript quotes s for use inside an AppleScript string literal.
func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
