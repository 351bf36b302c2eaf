package types

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// PropertyMap is a format-agnostic view of tag metadata.
//
// Keys are normalized to upper case ("TRACKNUMBER", "ALBUMARTIST") and map
// to ordered lists of string values. Entries that cannot be expressed as
// text, such as binary items, are listed by their original key in the
// unsupported side channel instead.
//
// The zero value is an empty map ready to use.
type PropertyMap struct {
	fields      map[string][]string
	unsupported []string
}

// NewPropertyMap returns a PropertyMap holding the given fields.
func NewPropertyMap(fields map[string][]string) *PropertyMap {
	pm := &PropertyMap{}
	for key, values := range fields {
		pm.Set(key, values...)
	}
	return pm
}

// Len returns the number of keys.
func (pm *PropertyMap) Len() int {
	return len(pm.fields)
}

// IsEmpty reports whether the map has no keys.
func (pm *PropertyMap) IsEmpty() bool {
	return len(pm.fields) == 0
}

// Contains reports whether key is present, even with an empty value list.
func (pm *PropertyMap) Contains(key string) bool {
	_, ok := pm.fields[strings.ToUpper(key)]
	return ok
}

// Get returns a copy of the values stored under key.
func (pm *PropertyMap) Get(key string) []string {
	values, ok := pm.fields[strings.ToUpper(key)]
	if !ok {
		return nil
	}
	return slices.Clone(values)
}

// GetFirst returns the first value stored under key, or "".
func (pm *PropertyMap) GetFirst(key string) string {
	values := pm.fields[strings.ToUpper(key)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Set replaces the values stored under key.
//
// An empty value list is kept: it asks writers to remove the field.
// Use Delete to drop the key altogether.
func (pm *PropertyMap) Set(key string, values ...string) {
	if pm.fields == nil {
		pm.fields = make(map[string][]string)
	}
	stored := make([]string, len(values))
	copy(stored, values)
	pm.fields[strings.ToUpper(key)] = stored
}

// Append adds values after any already stored under key.
func (pm *PropertyMap) Append(key string, values ...string) {
	if pm.fields == nil {
		pm.fields = make(map[string][]string)
	}
	key = strings.ToUpper(key)
	current, ok := pm.fields[key]
	if !ok {
		current = []string{}
	}
	pm.fields[key] = append(current, values...)
}

// Delete removes key and its values.
func (pm *PropertyMap) Delete(key string) {
	delete(pm.fields, strings.ToUpper(key))
}

// Keys returns all keys in sorted order.
func (pm *PropertyMap) Keys() []string {
	return slices.Sorted(maps.Keys(pm.fields))
}

// All returns an iterator over all fields in key order.
//
// Example:
//
//	for key, values := range props.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
//
// The returned iterator is read-only. Do not modify the returned slices.
func (pm *PropertyMap) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, key := range pm.Keys() {
			if !yield(key, pm.fields[key]) {
				return
			}
		}
	}
}

// Unsupported returns the original keys of entries that have no text form.
func (pm *PropertyMap) Unsupported() []string {
	return slices.Clone(pm.unsupported)
}

// AddUnsupported records keys in the unsupported side channel.
func (pm *PropertyMap) AddUnsupported(keys ...string) {
	pm.unsupported = append(pm.unsupported, keys...)
}

// Clone creates a deep copy of the map.
func (pm *PropertyMap) Clone() *PropertyMap {
	if pm == nil {
		return nil
	}
	clone := &PropertyMap{unsupported: slices.Clone(pm.unsupported)}
	if pm.fields != nil {
		clone.fields = make(map[string][]string, len(pm.fields))
		for key, values := range pm.fields {
			clone.fields[key] = slices.Clone(values)
		}
	}
	return clone
}

// Equal reports whether both maps hold the same fields with the same value
// order. The unsupported side channel is not compared.
func (pm *PropertyMap) Equal(other *PropertyMap) bool {
	if pm == nil || other == nil {
		return pm == other
	}
	return maps.EqualFunc(pm.fields, other.fields, slices.Equal)
}
