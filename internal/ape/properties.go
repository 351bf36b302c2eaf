package ape

import (
	"slices"

	"github.com/simonhull/apetag/internal/types"
)

// Properties returns the tag as a property map. APE spellings such as
// TRACK and YEAR are reported under their generic names (TRACKNUMBER,
// DATE). Binary and Locator items are listed in the unsupported channel
// under their stored key.
func (t *Tag) Properties() *types.PropertyMap {
	props := &types.PropertyMap{}
	for key, item := range t.items.All() {
		if item.Type() != ItemText || key == "" {
			props.AddUnsupported(key)
			continue
		}
		props.Append(genericKey(key), item.Values()...)
	}
	return props
}

// SetProperties makes the Text items of the tag match props.
//
// Generic names are stored under their APE spelling. Text items missing
// from props are removed; Binary and Locator items are kept. A key with an
// empty value list removes the item. Entries whose key is not a valid APE
// key are skipped and returned.
func (t *Tag) SetProperties(props *types.PropertyMap) *types.PropertyMap {
	incoming := props.Clone()
	if incoming == nil {
		incoming = &types.PropertyMap{}
	}
	for _, key := range incoming.Keys() {
		if ape := apeKey(key); ape != key {
			incoming.Set(ape, incoming.Get(key)...)
			incoming.Delete(key)
		}
	}

	for _, key := range t.items.Keys() {
		item := t.items.ref(key)
		if item.Type() == ItemText && key != "" && !incoming.Contains(key) {
			t.RemoveItem(key)
		}
	}

	invalid := &types.PropertyMap{}
	for key, values := range incoming.All() {
		if !CheckKey(key) {
			invalid.Set(key, values...)
			continue
		}

		if item := t.items.ref(key); item != nil && slices.Equal(item.Values(), values) {
			continue
		}
		if len(values) == 0 {
			t.RemoveItem(key)
			continue
		}

		_ = t.AddValue(key, values[0], true)
		for _, value := range values[1:] {
			_ = t.AddValue(key, value, false)
		}
	}

	return invalid
}

// RemoveUnsupportedProperties removes the items named in keys, as listed
// by the unsupported channel of Properties.
func (t *Tag) RemoveUnsupportedProperties(keys []string) {
	for _, key := range keys {
		t.RemoveItem(key)
	}
}
