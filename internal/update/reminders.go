package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoapp/internal/model"
	"github.com/sandeepkv93/todoapp/internal/views"
)

type Notification struct {
	Title string
	Body  string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// desktopNotifyFailedMsg reports a desktop notification that could not be
// delivered.
type desktopNotifyFailedMsg struct {
	ItemID string
	Err    error
}

// handleDueTick runs the due check for the minute at and queues one modal
// alert per item found. Desktop notifications are returned as a command so
// the external notifier never runs inside Update.
func (m *Model) handleDueTick(at time.Time) tea.Cmd {
	alerts := m.svc.CheckDue(at)
	if len(alerts) == 0 {
		return nil
	}
	m.Alerts = append(m.Alerts, alerts...)
	m.AlertLog = append(m.AlertLog, alerts...)
	if len(m.AlertLog) > alertLogSize {
		m.AlertLog = m.AlertLog[len(m.AlertLog)-alertLogSize:]
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%d item(s) due", len(alerts))}
	if !m.DesktopEnabled || m.notifier == nil {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(alerts))
	for _, a := range alerts {
		cmds = append(cmds, notifyCmd(m.notifier, a))
	}
	return tea.Batch(cmds...)
}

func notifyCmd(notifier DesktopNotifier, a model.Alert) tea.Cmd {
	n := Notification{Title: a.Heading(), Body: a.Message(), At: a.FiredAt}
	return func() tea.Msg {
		if err := notifier.Send(n); err != nil {
			return desktopNotifyFailedMsg{ItemID: a.ItemID, Err: err}
		}
		return nil
	}
}

func (m Model) renderAlertView() string {
	if len(m.Alerts) == 0 {
		return ""
	}
	a := m.Alerts[0]
	return views.RenderAlertPanel(views.AlertPanelData{
		Heading: a.Heading(),
		Message: a.Message(),
		Pending: len(m.Alerts) - 1,
	})
}
