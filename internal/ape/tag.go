// Package ape reads, edits, and renders APEv2 tags.
//
// An APE tag is a block of key/value items closed by a 32-byte footer and,
// optionally, opened by a header of the same shape:
//
//	[header] item item ... item footer
//
// The footer records the tag size and the item count. Callers locate the
// footer inside the container and hand its offset to Read; this package
// never searches a file.
package ape

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/simonhull/apetag/internal/binary"
	"github.com/simonhull/apetag/internal/types"
)

// Tag is an APEv2 tag: a footer plus an insertion-ordered item map.
//
// A Tag is not safe for concurrent mutation. Concurrent readers of an
// unmodified Tag are fine.
type Tag struct {
	footer   Footer
	items    *ItemMap
	warnings []types.Warning
	opts     *options
}

// New returns an empty tag.
func New(opts ...Option) *Tag {
	return &Tag{
		footer: NewFooter(),
		items:  newItemMap(),
		opts:   newOptions(opts),
	}
}

// Read loads the tag whose footer starts at footerOffset in r. size is the
// number of readable bytes in r and path only labels errors.
//
// A nil reader yields an empty tag. Format problems never fail the read:
// an out-of-range tag size leaves the tag empty, and a malformed body
// keeps the items parsed before the damage. Both are reported through
// Warnings. Only failures of r itself are returned.
func Read(r io.ReaderAt, size int64, path string, footerOffset int64, opts ...Option) (*Tag, error) {
	t := New(opts...)
	if r == nil {
		return t, nil
	}

	sr := binary.NewSafeReader(r, size, path)

	data, err := sr.ReadBlock(footerOffset, FooterSize, "APE footer")
	if err != nil {
		return t, t.ioFailure("footer", err)
	}
	if !HasIdentifier(data) {
		t.opts.logger.Debug("APE footer has no identifier", "offset", footerOffset)
	}
	if err := t.footer.Parse(data); err != nil {
		return t, err
	}

	if t.opts.strictVersion && t.footer.Version() != Version {
		t.warn("footer", footerOffset, fmt.Sprintf("unsupported version %d", t.footer.Version()))
		return t, nil
	}

	tagSize := t.footer.TagSize()
	if tagSize <= FooterSize || int64(tagSize) > size {
		t.warn("footer", footerOffset, fmt.Sprintf("tag size %d out of range", tagSize))
		return t, nil
	}

	bodyOffset := footerOffset + FooterSize - int64(tagSize)
	body, err := sr.ReadBlock(bodyOffset, int(tagSize)-FooterSize, "APE tag body")
	if err != nil {
		return t, t.ioFailure("body", err)
	}

	t.parse(body, bodyOffset)
	return t, nil
}

// ioFailure turns a read outside the source into a warning. Any other
// error came from the reader and is returned.
func (t *Tag) ioFailure(stage string, err error) error {
	var oob *types.OutOfBoundsError
	if errors.As(err, &oob) {
		t.warn(stage, oob.Offset, oob.Error())
		return nil
	}
	return fmt.Errorf("read APE %s: %w", stage, err)
}

// parse fills the item map from the tag body. base is the body's offset
// in the source and only labels warnings.
func (t *Tag) parse(data []byte, base int64) {
	pos := 0
	count := t.footer.ItemCount()

	for i := uint32(0); i < count && pos <= len(data)-minItemSize; i++ {
		nul := bytes.IndexByte(data[pos+8:], 0)
		if nul < 0 {
			t.warn("items", base+int64(pos), "no key terminator found")
			return
		}

		keyLength := nul
		valueLength := binary.DecodeLE[uint32](data[pos:])
		if uint64(valueLength) >= uint64(len(data)) || pos > len(data)-int(valueLength) {
			t.warn("items", base+int64(pos), fmt.Sprintf("value length %d is impossible", valueLength))
			return
		}

		key := data[pos+8 : pos+8+keyLength]
		if keyLength >= MinKeyLength && keyLength <= MaxKeyLength && isKeyValid(key) {
			var item Item
			if err := item.Parse(data[pos:]); err != nil {
				t.warn("items", base+int64(pos), err.Error())
				return
			}
			upper := strings.ToUpper(item.Key())
			if t.items.set(upper, item) {
				t.opts.logger.Debug("duplicate APE item replaced", "key", upper, "offset", base+int64(pos))
			}
		} else {
			t.warn("items", base+int64(pos), fmt.Sprintf("skipped item with invalid key %q", key))
		}

		pos += keyLength + int(valueLength) + 9
	}
}

func (t *Tag) warn(stage string, offset int64, msg string) {
	t.opts.logger.Debug(msg, "stage", stage, "offset", offset)
	if t.opts.ignoreWarnings {
		return
	}
	t.warnings = append(t.warnings, types.Warning{Stage: stage, Message: msg, Offset: offset})
}

// Warnings returns the non-fatal problems found while reading.
func (t *Tag) Warnings() []types.Warning {
	return append([]types.Warning(nil), t.warnings...)
}

// Footer returns the tag's footer. Render refreshes its size and count.
func (t *Tag) Footer() *Footer {
	return &t.footer
}

// ItemMap returns a read-only view of the items.
func (t *Tag) ItemMap() *ItemMap {
	return t.items
}

// Item returns a copy of the item stored under key, in any case.
func (t *Tag) Item(key string) (Item, bool) {
	return t.items.Get(strings.ToUpper(key))
}

// IsEmpty reports whether the tag holds no items.
func (t *Tag) IsEmpty() bool {
	return t.items.IsEmpty()
}

// Title returns the TITLE item.
func (t *Tag) Title() string { return t.text("TITLE") }

// Artist returns the ARTIST item.
func (t *Tag) Artist() string { return t.text("ARTIST") }

// Album returns the ALBUM item.
func (t *Tag) Album() string { return t.text("ALBUM") }

// Comment returns the COMMENT item.
func (t *Tag) Comment() string { return t.text("COMMENT") }

// Genre returns the GENRE item.
func (t *Tag) Genre() string { return t.text("GENRE") }

// Year returns the leading number of the first YEAR value, or 0.
func (t *Tag) Year() uint { return t.number("YEAR") }

// Track returns the leading number of the first TRACK value, or 0.
// A value such as "3/12" yields 3.
func (t *Tag) Track() uint { return t.number("TRACK") }

// SetTitle replaces the title. An empty string removes it.
func (t *Tag) SetTitle(s string) { t.setText("TITLE", s) }

// SetArtist replaces the artist. An empty string removes it.
func (t *Tag) SetArtist(s string) { t.setText("ARTIST", s) }

// SetAlbum replaces the album. An empty string removes it.
func (t *Tag) SetAlbum(s string) { t.setText("ALBUM", s) }

// SetComment replaces the comment. An empty string removes it.
func (t *Tag) SetComment(s string) { t.setText("COMMENT", s) }

// SetGenre replaces the genre. An empty string removes it.
func (t *Tag) SetGenre(s string) { t.setText("GENRE", s) }

// SetYear replaces the year. Zero removes it.
func (t *Tag) SetYear(year uint) { t.setNumber("YEAR", year) }

// SetTrack replaces the track number. Zero removes it.
func (t *Tag) SetTrack(track uint) { t.setNumber("TRACK", track) }

func (t *Tag) text(key string) string {
	item := t.items.ref(key)
	if item == nil {
		return ""
	}
	return item.Join(t.opts.separator)
}

func (t *Tag) number(key string) uint {
	item := t.items.ref(key)
	if item == nil {
		return 0
	}
	return leadingNumber(item.String())
}

// leadingNumber parses the unsigned integer at the start of s. Negative,
// non-numeric, and out-of-range input yields 0.
func leadingNumber(s string) uint {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseUint(s[:end], 10, strconv.IntSize)
	if err != nil {
		return 0
	}
	return uint(n)
}

// Constant keys are always valid, so the error is nil.
func (t *Tag) setText(key, value string) {
	_ = t.AddValue(key, value, true)
}

func (t *Tag) setNumber(key string, n uint) {
	if n == 0 {
		t.RemoveItem(key)
		return
	}
	t.setText(key, strconv.FormatUint(uint64(n), 10))
}

// AddValue adds value to the Text item under key.
//
// With replace set, any existing item is removed first. An empty value
// adds nothing. Otherwise the value is appended to an existing Text item,
// or a new Text item is created. An invalid key returns
// *types.InvalidKeyError.
func (t *Tag) AddValue(key, value string, replace bool) error {
	if replace {
		t.RemoveItem(key)
	}
	if value == "" {
		return nil
	}

	if item := t.items.ref(strings.ToUpper(key)); item != nil && item.Type() == ItemText {
		item.AppendValue(value)
		return nil
	}
	return t.SetItem(key, NewTextItem(key, value))
}

// SetItem stores a copy of item under key, replacing any item with the
// same key in any case. The replacement keeps the original position.
// An invalid key is logged and returns *types.InvalidKeyError.
func (t *Tag) SetItem(key string, item Item) error {
	if !CheckKey(key) {
		t.opts.logger.Debug("invalid APE key rejected", "key", key)
		return &types.InvalidKeyError{Key: key}
	}
	t.items.set(strings.ToUpper(key), item.clone())
	return nil
}

// SetData replaces the item under key with a Binary item holding data.
// Empty data only removes the existing item.
func (t *Tag) SetData(key string, data []byte) error {
	t.RemoveItem(key)
	if len(data) == 0 {
		return nil
	}
	return t.SetItem(key, NewBinaryItem(key, data))
}

// RemoveItem removes the item under key, in any case.
func (t *Tag) RemoveItem(key string) {
	t.items.remove(strings.ToUpper(key))
}

// Render returns the complete tag: header, items in insertion order, and
// footer. The footer's item count and tag size are updated to match and
// the header is always emitted.
func (t *Tag) Render() []byte {
	var body bytes.Buffer
	for _, item := range t.items.All() {
		body.Write(item.Render())
	}

	t.footer.SetItemCount(uint32(t.items.Len()))
	t.footer.SetTagSize(uint32(body.Len() + FooterSize))
	t.footer.SetHeaderPresent(true)
	t.footer.SetFooterPresent(true)

	out := make([]byte, 0, body.Len()+2*FooterSize)
	out = append(out, t.footer.RenderHeader()...)
	out = append(out, body.Bytes()...)
	out = append(out, t.footer.RenderFooter()...)
	return out
}

// WriteTo writes the rendered tag to w.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	sw := binary.NewSafeWriter(w)
	if err := sw.WriteBytes(t.Render()); err != nil {
		return sw.Offset(), fmt.Errorf("write APE tag: %w", err)
	}
	return sw.Offset(), nil
}
