package ape

import (
	"iter"
	"slices"
)

// ItemMap holds a tag's items keyed by upper-case key, in insertion order.
// Replacing an existing key keeps its position.
type ItemMap struct {
	items map[string]*Item
	order []string
}

func newItemMap() *ItemMap {
	return &ItemMap{items: make(map[string]*Item)}
}

// Len returns the number of items.
func (m *ItemMap) Len() int { return len(m.order) }

// IsEmpty reports whether the map holds no items.
func (m *ItemMap) IsEmpty() bool { return len(m.order) == 0 }

// Contains reports whether an item is stored under the upper-case key.
func (m *ItemMap) Contains(key string) bool {
	_, ok := m.items[key]
	return ok
}

// Get returns a copy of the item stored under the upper-case key.
func (m *ItemMap) Get(key string) (Item, bool) {
	item, ok := m.items[key]
	if !ok {
		return Item{}, false
	}
	return item.clone(), true
}

// Keys returns the upper-case keys in insertion order.
func (m *ItemMap) Keys() []string {
	return slices.Clone(m.order)
}

// All iterates over copies of the items in insertion order.
func (m *ItemMap) All() iter.Seq2[string, Item] {
	return func(yield func(string, Item) bool) {
		for _, key := range m.order {
			if !yield(key, m.items[key].clone()) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold equal items in the same order.
func (m *ItemMap) Equal(other *ItemMap) bool {
	if !slices.Equal(m.order, other.order) {
		return false
	}
	for _, key := range m.order {
		if !m.items[key].equal(*other.items[key]) {
			return false
		}
	}
	return true
}

// set stores item under key, keeping the position of an existing entry.
// It reports whether an entry was replaced.
func (m *ItemMap) set(key string, item Item) bool {
	if existing, ok := m.items[key]; ok {
		*existing = item
		return true
	}
	m.items[key] = &item
	m.order = append(m.order, key)
	return false
}

func (m *ItemMap) remove(key string) {
	if _, ok := m.items[key]; !ok {
		return
	}
	delete(m.items, key)
	m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
}

// ref returns the stored item for in-place edits.
func (m *ItemMap) ref(key string) *Item {
	return m.items[key]
}
