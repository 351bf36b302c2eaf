package ape

import (
	"bytes"
	"fmt"

	"github.com/simonhull/apetag/internal/binary"
	"github.com/simonhull/apetag/internal/types"
)

// FooterSize is the size of an APE footer or header in bytes.
const FooterSize = 32

// Version is the APE tag version this package writes.
const Version = 2000

// Tag flag bits shared by header and footer.
const (
	flagHeaderPresent = 1 << 31
	flagNoFooter      = 1 << 30
	flagIsHeader      = 1 << 29
)

var fileIdentifier = []byte("APETAGEX")

// FileIdentifier returns the 8-byte preamble of every APE header and footer.
func FileIdentifier() []byte {
	return bytes.Clone(fileIdentifier)
}

// HasIdentifier reports whether data starts with the APE preamble.
func HasIdentifier(data []byte) bool {
	return bytes.HasPrefix(data, fileIdentifier)
}

// Footer is the 32-byte block that closes an APE tag. The optional header
// at the start of the tag has the same layout with the is-header flag set.
//
// Layout (all integers little-endian):
//
//	"APETAGEX" | version u32 | tag size u32 | item count u32 | flags u32 | 8 zero bytes
type Footer struct {
	version       uint32
	tagSize       uint32
	itemCount     uint32
	headerPresent bool
	footerPresent bool
	isHeader      bool
}

// NewFooter returns the footer of an empty tag.
func NewFooter() Footer {
	return Footer{version: Version, footerPresent: true}
}

// Parse decodes a header or footer block. The preamble is not checked;
// use HasIdentifier when locating a tag.
func (f *Footer) Parse(data []byte) error {
	if len(data) < FooterSize {
		return &types.CorruptedTagError{
			What:   "APE footer",
			Reason: fmt.Sprintf("%d bytes is shorter than %d", len(data), FooterSize),
		}
	}

	sr := binary.NewSafeReader(bytes.NewReader(data), FooterSize, "APE footer")
	cr := binary.NewChainReader(binary.NewReader(sr, int64(len(fileIdentifier))))

	version := binary.ReadChained[uint32](cr, "version")
	tagSize := binary.ReadChained[uint32](cr, "tag size")
	itemCount := binary.ReadChained[uint32](cr, "item count")
	flags := binary.ReadChained[uint32](cr, "flags")
	if err := cr.Error(); err != nil {
		return fmt.Errorf("parse APE footer: %w", err)
	}

	f.version = version
	f.tagSize = tagSize
	f.itemCount = itemCount
	f.headerPresent = flags&flagHeaderPresent != 0
	f.footerPresent = flags&flagNoFooter == 0
	f.isHeader = flags&flagIsHeader != 0

	return nil
}

// Version returns the format version read from disk, normally 2000.
func (f Footer) Version() uint32 { return f.version }

// TagSize returns the size of the item body plus the footer. The header,
// when present, is not included.
func (f Footer) TagSize() uint32 { return f.tagSize }

// SetTagSize sets the size of the item body plus the footer.
func (f *Footer) SetTagSize(size uint32) { f.tagSize = size }

// CompleteTagSize returns the total size of the tag on disk, header included.
func (f Footer) CompleteTagSize() uint32 {
	if f.headerPresent {
		return f.tagSize + FooterSize
	}
	return f.tagSize
}

// ItemCount returns the number of items in the tag.
func (f Footer) ItemCount() uint32 { return f.itemCount }

// SetItemCount sets the number of items in the tag.
func (f *Footer) SetItemCount(n uint32) { f.itemCount = n }

// HeaderPresent reports whether the tag starts with a header.
func (f Footer) HeaderPresent() bool { return f.headerPresent }

// SetHeaderPresent sets whether a header is rendered.
func (f *Footer) SetHeaderPresent(present bool) { f.headerPresent = present }

// FooterPresent reports whether the tag ends with a footer. On disk this
// is the negation of flag bit 30.
func (f Footer) FooterPresent() bool { return f.footerPresent }

// SetFooterPresent records whether the tag ends with a footer.
func (f *Footer) SetFooterPresent(present bool) { f.footerPresent = present }

// IsHeader reports whether the parsed block was a header.
func (f Footer) IsHeader() bool { return f.isHeader }

// RenderFooter returns the footer block.
func (f Footer) RenderFooter() []byte {
	return f.render(false)
}

// RenderHeader returns the header block, or nil when no header is present.
func (f Footer) RenderHeader() []byte {
	if !f.headerPresent {
		return nil
	}
	return f.render(true)
}

// render always writes version 2000 and leaves the no-footer bit clear,
// since a rendered block is always followed or preceded by a footer.
func (f Footer) render(isHeader bool) []byte {
	var flags uint32
	if f.headerPresent {
		flags |= flagHeaderPresent
	}
	if isHeader {
		flags |= flagIsHeader
	}

	var buf bytes.Buffer
	buf.Grow(FooterSize)

	// bytes.Buffer writes cannot fail.
	sw := binary.NewSafeWriter(&buf)
	_ = sw.WriteBytes(fileIdentifier)
	_ = binary.WriteLE[uint32](sw, Version)
	_ = binary.WriteLE[uint32](sw, f.tagSize)
	_ = binary.WriteLE[uint32](sw, f.itemCount)
	_ = binary.WriteLE[uint32](sw, flags)
	_ = sw.WriteZeros(8)

	return buf.Bytes()
}
