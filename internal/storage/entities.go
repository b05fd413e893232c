package storage

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/todoapp/internal/model"
)

const snapshotVersion = 1

type Snapshot struct {
	Version int      `cbor:"version"`
	Items   []Record `cbor:"items"`
}

type Record struct {
	ID          string     `cbor:"id"`
	Title       string     `cbor:"title"`
	Description string     `cbor:"description"`
	DueAt       time.Time  `cbor:"due_at"`
	AddedAt     time.Time  `cbor:"added_at"`
	Finished    bool       `cbor:"finished"`
	FinishedAt  *time.Time `cbor:"finished_at,omitempty"`
}

func toRecord(it *model.Item) Record {
	return Record{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		DueAt:       it.DueDate,
		AddedAt:     it.AddedDate,
		Finished:    it.Finished,
		FinishedAt:  it.FinishedDate,
	}
}

func (r Record) toItem() (*model.Item, error) {
	it := &model.Item{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		DueDate:      r.DueAt,
		AddedDate:    r.AddedAt,
		Finished:     r.Finished,
		FinishedDate: r.FinishedAt,
	}
	if err := it.Validate(); err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return it, nil
}

func snapshotOf(c *model.Container) Snapshot {
	items := c.Items()
	out := Snapshot{Version: snapshotVersion, Items: make([]Record, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, toRecord(it))
	}
	return out
}

func containerOf(records []Record) (*model.Container, error) {
	c := model.NewContainer()
	for _, r := range records {
		it, err := r.toItem()
		if err != nil {
			return nil, err
		}
		c.Add(it)
	}
	return c, nil
}
