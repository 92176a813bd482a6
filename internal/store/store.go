// Package store holds the committed features of an editing session and
// the one-feature scratch workspace used while a boolean edit is open.
package store

import (
	"errors"
	"fmt"

	"geoedit/internal/geom"
)

var (
	ErrDuplicateID = errors.New("store: duplicate feature id")
	ErrNilFeature  = errors.New("store: nil feature")
)

// Collection is an ordered set of features with unique ids.
type Collection struct {
	items []*geom.Feature
	index map[string]int
}

func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

func (c *Collection) reindex(from int) {
	for i := from; i < len(c.items); i++ {
		c.index[c.items[i].ID] = i
	}
}

// Add appends f.
func (c *Collection) Add(f *geom.Feature) error {
	return c.Insert(len(c.items), f)
}

// Insert places f at position i, clamped to the collection bounds.
func (c *Collection) Insert(i int, f *geom.Feature) error {
	if f == nil {
		return ErrNilFeature
	}
	if _, ok := c.index[f.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, f.ID)
	}
	if i < 0 {
		i = 0
	}
	if i > len(c.items) {
		i = len(c.items)
	}
	c.items = append(c.items, nil)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = f
	c.reindex(i)
	return nil
}

// Remove drops the feature with id and returns the position it held, or
// -1 if there was none.
func (c *Collection) Remove(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	delete(c.index, id)
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindex(i)
	return i
}

func (c *Collection) Get(id string) (*geom.Feature, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.items[i], true
}

// All returns the features in order. The slice is a copy.
func (c *Collection) All() []*geom.Feature {
	out := make([]*geom.Feature, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Len() int { return len(c.items) }

func (c *Collection) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

// Store is the main collection plus the scratch collection.
type Store struct {
	main    *Collection
	scratch *Collection
}

func New() *Store {
	return &Store{main: NewCollection(), scratch: NewCollection()}
}

// Main exposes the committed collection, e.g. as a layer source.
func (s *Store) Main() *Collection { return s.main }

// ScratchCollection exposes the scratch collection as a layer source.
func (s *Store) ScratchCollection() *Collection { return s.scratch }

func (s *Store) Add(f *geom.Feature) error { return s.main.Add(f) }

// Insert puts f back at position i of the main collection.
func (s *Store) Insert(i int, f *geom.Feature) error { return s.main.Insert(i, f) }

// Remove is a no-op for an unknown id; the returned position is -1 then.
func (s *Store) Remove(id string) int { return s.main.Remove(id) }

func (s *Store) Get(id string) (*geom.Feature, bool) { return s.main.Get(id) }

func (s *Store) All() []*geom.Feature { return s.main.All() }

// Replace swaps the content of the main collection for features. Ids must
// be unique; on error nothing changes.
func (s *Store) Replace(features []*geom.Feature) error {
	next := NewCollection()
	for _, f := range features {
		if err := next.Add(f); err != nil {
			return err
		}
	}
	// in place: layers hold s.main as their source
	*s.main = *next
	return nil
}

// ScratchAdd admits f to the scratch collection, replacing whatever was
// there.
func (s *Store) ScratchAdd(f *geom.Feature) error {
	if f == nil {
		return ErrNilFeature
	}
	s.scratch.Clear()
	return s.scratch.Add(f)
}

// Scratch returns the scratch feature, if any.
func (s *Store) Scratch() (*geom.Feature, bool) {
	if s.scratch.Len() == 0 {
		return nil, false
	}
	return s.scratch.items[0], true
}

func (s *Store) ClearScratch() { s.scratch.Clear() }
