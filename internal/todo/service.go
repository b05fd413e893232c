// Package todo applies presentation-layer edits to the item container and
// writes the whole container back after every change.
package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todoapp/internal/logging"
	"github.com/sandeepkv93/todoapp/internal/model"
	"github.com/sandeepkv93/todoapp/internal/storage"
)

var ErrNotFound = errors.New("todo: item not found")

// Draft carries the editor fields as typed by the user.
type Draft struct {
	Title       string
	Description string
	Due         string
	Finished    bool
}

type Option func(*Service)

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone due dates are parsed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Service is not safe for concurrent use; the UI update loop is its only
// caller.
type Service struct {
	items  *model.Container
	repo   storage.Repository
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location
}

func NewService(ctx context.Context, repo storage.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("todo: nil repository")
	}
	s := &Service{
		repo:   repo,
		logger: logging.Discard(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	items, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	s.items = items
	s.logger.Info("todos loaded", "items", items.Len(), "remaining", len(items.Remaining()))
	return s, nil
}

func (s *Service) Remaining() []*model.Item {
	return s.items.Remaining()
}

func (s *Service) All() []*model.Item {
	return s.items.Items()
}

func (s *Service) Find(id string) (*model.Item, bool) {
	return s.items.Find(id)
}

// Create adds a new item built from d. Nothing changes if the due date does
// not parse.
func (s *Service) Create(ctx context.Context, d Draft) (*model.Item, error) {
	due, err := model.ParseDueDate(d.Due, s.loc)
	if err != nil {
		return nil, err
	}
	now := s.now()
	item := model.NewItem(d.Title, d.Description, due, now)
	if d.Finished {
		item.Finish(now)
	}
	prev := s.items.Items()
	s.items.Add(item)
	if err := s.commit(ctx, prev, nil); err != nil {
		return nil, err
	}
	s.logger.Debug("item created", "id", item.ID, "item", item.String())
	return item, nil
}

// Update applies d to the item with the given id. An unset Finished flag
// never reopens a finished item.
func (s *Service) Update(ctx context.Context, id string, d Draft) (*model.Item, error) {
	item, ok := s.items.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	due, err := model.ParseDueDate(d.Due, s.loc)
	if err != nil {
		return nil, err
	}
	prev, before := s.items.Items(), *item
	item.Title = d.Title
	item.Description = d.Description
	item.DueDate = due
	if d.Finished && !item.Finished {
		item.Finish(s.now())
	}
	s.items.Sort()
	if err := s.commit(ctx, prev, func() { *item = before }); err != nil {
		return nil, err
	}
	s.logger.Debug("item updated", "id", item.ID, "item", item.String(), "finished", item.Finished)
	return item, nil
}

func (s *Service) Finish(ctx context.Context, id string) (*model.Item, error) {
	item, ok := s.items.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev, before := s.items.Items(), *item
	item.Finish(s.now())
	if err := s.commit(ctx, prev, func() { *item = before }); err != nil {
		return nil, err
	}
	s.logger.Debug("item finished", "id", item.ID)
	return item, nil
}

// Delete removes the stored item with the given id, whatever its row in the
// remaining view.
func (s *Service) Delete(ctx context.Context, id string) error {
	item, ok := s.items.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev := s.items.Items()
	if _, err := s.items.RemoveAt(s.items.IndexOf(item)); err != nil {
		return err
	}
	s.items.Sort()
	if err := s.commit(ctx, prev, nil); err != nil {
		return err
	}
	s.logger.Debug("item deleted", "id", id)
	return nil
}

func (s *Service) Sort(ctx context.Context) error {
	prev := s.items.Items()
	s.items.Sort()
	return s.commit(ctx, prev, nil)
}

// CheckDue returns one alert per open item due in now's minute.
func (s *Service) CheckDue(now time.Time) []model.Alert {
	due := s.items.Due(now.In(s.loc))
	alerts := make([]model.Alert, 0, len(due))
	for _, it := range due {
		alerts = append(alerts, model.NewAlert(it, now))
	}
	if len(alerts) > 0 {
		s.logger.Info("items due", "count", len(alerts), "at", model.FormatDueDate(now))
	}
	return alerts
}

// ItemAtRow maps a 1-based row in the remaining view to its item.
func (s *Service) ItemAtRow(row int) (*model.Item, error) {
	remaining := s.items.Remaining()
	if row < 1 || row > len(remaining) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrNotFound, row, len(remaining))
	}
	return remaining[row-1], nil
}

// commit saves the container. When the save fails the in-memory state is
// rolled back to prev and undo restores any item fields changed in place.
func (s *Service) commit(ctx context.Context, prev []*model.Item, undo func()) error {
	if err := s.save(ctx); err != nil {
		s.items.Reset(prev)
		if undo != nil {
			undo()
		}
		return err
	}
	return nil
}

func (s *Service) save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.items); err != nil {
		s.logger.Error("save failed", "err", err)
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

// DraftFrom fills a Draft from an existing item for editing.
func DraftFrom(item *model.Item) Draft {
	return Draft{
		Title:       item.Title,
		Description: item.Description,
		Due:         model.FormatDueDate(item.DueDate),
		Finished:    item.Finished,
	}
}

// Normalize trims surrounding whitespace from the text fields.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Due = strings.TrimSpace(d.Due)
	return d
}
