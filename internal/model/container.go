package model

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"
)

var ErrIndexOutOfRange = errors.New("model: index out of range")

// Container owns the ordered list of items. Callers get copies of the
// slice, never the backing array, so the stored order only changes through
// these methods.
type Container struct {
	items []*Item
}

func NewContainer(items ...*Item) *Container {
	c := &Container{items: make([]*Item, 0, len(items))}
	c.items = append(c.items, items...)
	return c
}

func (c *Container) Add(item *Item) {
	c.items = append(c.items, item)
}

func (c *Container) RemoveAt(index int) (*Item, error) {
	if index < 0 || index >= len(c.items) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(c.items))
	}
	removed := c.items[index]
	c.items = slices.Delete(c.items, index, index+1)
	return removed, nil
}

// Reset replaces the stored sequence with a copy of items.
func (c *Container) Reset(items []*Item) {
	c.items = append(c.items[:0:0], items...)
}

// IndexOf finds the stored position of this exact item, or -1.
func (c *Container) IndexOf(item *Item) int {
	for i, it := range c.items {
		if it == item {
			return i
		}
	}
	return -1
}

func (c *Container) IndexOfID(id string) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Container) Find(id string) (*Item, bool) {
	if i := c.IndexOfID(id); i >= 0 {
		return c.items[i], true
	}
	return nil, false
}

// Sort orders items by due date; equal due dates keep their relative order.
func (c *Container) Sort() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].DueDate.Before(c.items[j].DueDate)
	})
}

// Remaining returns the unfinished items in stored order.
func (c *Container) Remaining() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		if !it.Finished {
			out = append(out, it)
		}
	}
	return out
}

// Due returns the unfinished items whose due minute is now's minute.
func (c *Container) Due(now time.Time) []*Item {
	out := make([]*Item, 0)
	for _, it := range c.items {
		if !it.Finished && it.DueWithin(now) {
			out = append(out, it)
		}
	}
	return out
}

func (c *Container) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Container) Len() int {
	return len(c.items)
}
