package model

import (
	"fmt"
	"time"
)

// Alert is raised once for an open item when the due check finds its minute.
type Alert struct {
	ItemID      string
	Title       string
	Description string
	DueDate     time.Time
	FiredAt     time.Time
}

func NewAlert(item *Item, firedAt time.Time) Alert {
	return Alert{
		ItemID:      item.ID,
		Title:       item.Title,
		Description: item.Description,
		DueDate:     item.DueDate,
		FiredAt:     firedAt,
	}
}

func (a Alert) Heading() string {
	return "Time's up"
}

func (a Alert) Message() string {
	return fmt.Sprintf("%s is due.\n %s\n %s", a.Title, a.Description, FormatDueDate(a.DueDate))
}
