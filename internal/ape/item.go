package ape

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/simonhull/apetag/internal/binary"
	"github.com/simonhull/apetag/internal/types"
)

// minItemSize is the smallest possible item on disk: value length (4),
// flags (4), a two-byte key and its terminator.
const minItemSize = 11

// ItemType is the value type stored in bits 1-2 of an item's flags.
type ItemType uint32

const (
	// ItemText holds one or more UTF-8 strings separated by NUL.
	ItemText ItemType = iota
	// ItemBinary holds opaque bytes.
	ItemBinary
	// ItemLocator holds a UTF-8 link to external data.
	ItemLocator
	// ItemReserved is defined by the format but unused.
	ItemReserved
)

// String returns the name of the item type.
func (t ItemType) String() string {
	switch t {
	case ItemText:
		return "Text"
	case ItemBinary:
		return "Binary"
	case ItemLocator:
		return "Locator"
	default:
		return "Reserved"
	}
}

// Item is a single key/value entry of an APE tag.
//
// Text items carry a list of strings. Binary and Locator items carry a
// single byte value.
type Item struct {
	key      string
	values   []string
	data     []byte
	itemType ItemType
	readOnly bool
}

// NewTextItem creates a Text item holding values.
func NewTextItem(key string, values ...string) Item {
	return Item{key: key, itemType: ItemText, values: slices.Clone(values)}
}

// NewBinaryItem creates a Binary item holding data.
func NewBinaryItem(key string, data []byte) Item {
	return Item{key: key, itemType: ItemBinary, data: slices.Clone(data)}
}

// NewLocatorItem creates a Locator item pointing at url.
func NewLocatorItem(key, url string) Item {
	return Item{key: key, itemType: ItemLocator, data: []byte(url)}
}

// Key returns the key with the casing it was created with.
func (i Item) Key() string { return i.key }

// SetKey changes the key.
func (i *Item) SetKey(key string) { i.key = key }

// Type returns the value type.
func (i Item) Type() ItemType { return i.itemType }

// SetType changes the value type without converting the value.
func (i *Item) SetType(t ItemType) { i.itemType = t & 3 }

// ReadOnly reports whether the item is flagged read-only.
func (i Item) ReadOnly() bool { return i.readOnly }

// SetReadOnly sets the read-only flag.
func (i *Item) SetReadOnly(readOnly bool) { i.readOnly = readOnly }

// Values returns a copy of the Text values. It is nil for other types.
func (i Item) Values() []string {
	if i.itemType != ItemText {
		return nil
	}
	return slices.Clone(i.values)
}

// BinaryData returns a copy of the value of a Binary or Locator item.
func (i Item) BinaryData() []byte {
	if i.itemType == ItemText {
		return nil
	}
	return slices.Clone(i.data)
}

// SetValue makes the item a Text item holding only value.
func (i *Item) SetValue(value string) {
	i.SetValues([]string{value})
}

// SetValues makes the item a Text item holding values.
func (i *Item) SetValues(values []string) {
	i.itemType = ItemText
	i.data = nil
	i.values = slices.Clone(values)
}

// AppendValue adds value after the existing Text values.
func (i *Item) AppendValue(value string) {
	i.AppendValues(value)
}

// AppendValues adds values after the existing Text values. A non-Text
// item becomes a Text item and loses its previous value.
func (i *Item) AppendValues(values ...string) {
	if i.itemType != ItemText {
		i.itemType = ItemText
		i.data = nil
	}
	i.values = append(i.values, values...)
}

// SetBinaryData makes the item a Binary item holding data.
func (i *Item) SetBinaryData(data []byte) {
	i.itemType = ItemBinary
	i.values = nil
	i.data = slices.Clone(data)
}

// String returns the first Text value, or "" for other types.
func (i Item) String() string {
	if i.itemType != ItemText || len(i.values) == 0 {
		return ""
	}
	return i.values[0]
}

// Join returns the Text values joined by sep.
func (i Item) Join(sep string) string {
	if i.itemType != ItemText {
		return ""
	}
	return strings.Join(i.values, sep)
}

// IsEmpty reports whether the item carries no value. A Text item whose
// only value is "" counts as empty.
func (i Item) IsEmpty() bool {
	switch i.itemType {
	case ItemText:
		return len(i.values) == 0 || (len(i.values) == 1 && i.values[0] == "")
	default:
		return len(i.data) == 0
	}
}

// Size returns the number of bytes Render produces.
func (i Item) Size() int {
	return 8 + len(encodeKey(i.key)) + 1 + len(i.value())
}

func (i Item) value() []byte {
	if i.itemType == ItemText {
		return joinValues(i.values)
	}
	return i.data
}

func (i Item) flags() uint32 {
	flags := uint32(i.itemType&3) << 1
	if i.readOnly {
		flags |= 1
	}
	return flags
}

// Render returns the on-disk form of the item: value length, flags,
// the key, a NUL, then the value.
func (i Item) Render() []byte {
	value := i.value()
	key := encodeKey(i.key)

	var buf bytes.Buffer
	buf.Grow(8 + len(key) + 1 + len(value))

	// bytes.Buffer writes cannot fail.
	sw := binary.NewSafeWriter(&buf)
	_ = binary.WriteLE[uint32](sw, uint32(len(value)))
	_ = binary.WriteLE[uint32](sw, i.flags())
	_ = sw.WriteBytes(key)
	_ = binary.WriteLE[uint8](sw, 0)
	_ = sw.WriteBytes(value)

	return buf.Bytes()
}

// Parse decodes one item from the start of data, replacing the receiver's
// contents. Bytes past the end of the item are ignored.
func (i *Item) Parse(data []byte) error {
	if len(data) < minItemSize {
		return &types.CorruptedTagError{
			What:   "APE item",
			Reason: fmt.Sprintf("%d bytes is shorter than the minimum item size", len(data)),
		}
	}

	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "APE item")
	r := binary.NewReader(sr, 0)
	cr := binary.NewChainReader(r)

	valueLength := binary.ReadChained[uint32](cr, "item value length")
	flags := binary.ReadChained[uint32](cr, "item flags")

	nul := bytes.IndexByte(data[8:], 0)
	if nul < 0 {
		return &types.CorruptedTagError{
			What:   "APE item",
			Offset: 8,
			Reason: "missing key terminator",
		}
	}
	key := cr.Bytes(nul, "item key")
	r.Skip(1)

	if uint64(valueLength) > uint64(len(data)) {
		return &types.CorruptedTagError{
			What:   "APE item",
			Offset: r.Offset(),
			Reason: fmt.Sprintf("value length %d exceeds %d available bytes", valueLength, len(data)),
		}
	}
	value := cr.Bytes(int(valueLength), "item value")
	if err := cr.Error(); err != nil {
		return &types.CorruptedTagError{
			What:   "APE item",
			Offset: r.Offset(),
			Reason: err.Error(),
		}
	}

	i.key = decodeKey(key)
	i.readOnly = flags&1 == 1
	i.itemType = ItemType((flags >> 1) & 3)
	if i.itemType == ItemText {
		i.values = splitValues(value)
		i.data = nil
	} else {
		i.values = nil
		i.data = value
	}

	return nil
}

// clone returns a deep copy of the item.
func (i Item) clone() Item {
	c := i
	c.values = slices.Clone(i.values)
	c.data = slices.Clone(i.data)
	return c
}

// equal reports whether two items have the same key, type, flags, and value.
func (i Item) equal(other Item) bool {
	return i.key == other.key &&
		i.itemType == other.itemType &&
		i.readOnly == other.readOnly &&
		slices.Equal(i.values, other.values) &&
		bytes.Equal(i.data, other.data)
}
