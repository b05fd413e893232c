package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDueDate  = errors.New("model: invalid due date")
	ErrInvalidFinished = errors.New("model: invalid finished state")
)

// DueDateLayout is the text form of due dates in the editor, the list and
// alert messages.
const DueDateLayout = "2006/01/02 15:04"

type Item struct {
	ID           string
	Title        string
	Description  string
	DueDate      time.Time
	AddedDate    time.Time
	Finished     bool
	FinishedDate *time.Time
}

// NewItem builds an open item. A zero added time means now.
func NewItem(title, description string, due, added time.Time) *Item {
	if added.IsZero() {
		added = time.Now()
	}
	return &Item{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		DueDate:     due.Truncate(time.Minute),
		AddedDate:   added,
	}
}

// Finish marks the item done at the given time, or now when at is zero.
// Calling it again only moves FinishedDate.
func (it *Item) Finish(at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}
	it.Finished = true
	it.FinishedDate = &at
}

func (it *Item) String() string {
	return fmt.Sprintf("%s, %s", it.Title, FormatDueDate(it.DueDate))
}

func (it *Item) IsOverdue(now time.Time) bool {
	return it.DueDate.Before(now)
}

// DueWithin reports whether the due date falls in the same wall-clock minute
// as now, compared in now's location.
func (it *Item) DueWithin(now time.Time) bool {
	due := it.DueDate.In(now.Location())
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	return dy == ny && dm == nm && dd == nd &&
		due.Hour() == now.Hour() && due.Minute() == now.Minute()
}

func (it *Item) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return errors.New("model: item id is required")
	}
	if it.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalidDueDate)
	}
	if it.Finished && it.FinishedDate == nil {
		return fmt.Errorf("%w: finished_date is required when item is finished", ErrInvalidFinished)
	}
	if !it.Finished && it.FinishedDate != nil {
		return fmt.Errorf("%w: finished_date must be nil when item is open", ErrInvalidFinished)
	}
	return nil
}

// ParseDueDate parses YYYY/MM/DD HH:MM in loc (local time when nil).
func ParseDueDate(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(text)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDueDate)
	}
	t, err := time.ParseInLocation(DueDateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: want YYYY/MM/DD HH:MM", ErrInvalidDueDate, raw)
	}
	return t, nil
}

func FormatDueDate(t time.Time) string {
	return t.Format(DueDateLayout)
}
