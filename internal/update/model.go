package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todoapp/internal/config"
	"github.com/sandeepkv93/todoapp/internal/logging"
	"github.com/sandeepkv93/todoapp/internal/model"
	"github.com/sandeepkv93/todoapp/internal/scheduler"
	"github.com/sandeepkv93/todoapp/internal/todo"
)

// alertLogSize bounds the alert history kept for the header and help pane.
const alertLogSize = 20

type Mode string

const (
	ModeList    Mode = "list"
	ModeEditor  Mode = "editor"
	ModePalette Mode = "palette"
	ModeConfirm Mode = "confirm"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldCount
)

type StatusBar struct {
	Text    string
	IsError bool
}

type EditorState struct {
	// EditingID is empty while composing a new item.
	EditingID string
	Focus     int
	Finished  bool
	Err       string
}

type CommandPaletteState struct {
	Input string
}

type Model struct {
	Mode        Mode
	SelectedID  string
	Status      StatusBar
	Editor      EditorState
	Palette     CommandPaletteState
	ConfirmID   string
	Alerts      []model.Alert
	AlertLog    []model.Alert
	HelpVisible bool
	Keys        config.Keymap
	Quitting    bool
	LastError   error

	DesktopEnabled bool
	notifier       DesktopNotifier

	svc       *todo.Service
	scheduler *scheduler.Engine
	logger    *log.Logger
	now       func() time.Time
	ctx       context.Context

	inputs       [fieldCount]textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	detail       viewport.Model
}

type Option func(*Model)

func WithScheduler(engine *scheduler.Engine) Option {
	return func(m *Model) { m.scheduler = engine }
}

func WithNotifier(n DesktopNotifier) Option {
	return func(m *Model) {
		if n != nil {
			m.notifier = n
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithContext sets the context passed to every store write.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

type DueTickMsg struct {
	At time.Time
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(svc *todo.Service, cfg config.Config, opts ...Option) Model {
	m := Model{
		Mode:           ModeList,
		Keys:           cfg.Keys,
		DesktopEnabled: cfg.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
		svc:            svc,
		logger:         logging.Discard(),
		now:            time.Now,
		ctx:            context.Background(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	m.clampSelection(0)
	return m
}

func (m *Model) initBubbleComponents() {
	placeholders := [fieldCount]string{"Title", "Description", model.DueDateLayout}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 256
		in.Width = 40
		in.Placeholder = placeholders[i]
		m.inputs[i] = in
	}

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.helpModel = help.New()
	m.detail = viewport.New(46, 12)
}
