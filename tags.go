package apetag

import (
	"io"

	"github.com/simonhull/apetag/internal/ape"
	"github.com/simonhull/apetag/internal/types"
)

// Tag is an alias to ape.Tag.
// Re-exporting from internal/ape to maintain public API.
type Tag = ape.Tag

// Item is an alias to ape.Item.
type Item = ape.Item

// ItemType is an alias to ape.ItemType.
type ItemType = ape.ItemType

// Re-export item types.
const (
	ItemText     = ape.ItemText
	ItemBinary   = ape.ItemBinary
	ItemLocator  = ape.ItemLocator
	ItemReserved = ape.ItemReserved
)

// Footer is an alias to ape.Footer.
type Footer = ape.Footer

// ItemMap is an alias to ape.ItemMap.
type ItemMap = ape.ItemMap

// PropertyMap is an alias to types.PropertyMap.
type PropertyMap = types.PropertyMap

// Format constants of the tag itself.
const (
	FooterSize       = ape.FooterSize
	TagVersion       = ape.Version
	DefaultSeparator = ape.DefaultSeparator
)

// New returns an empty tag.
func New(opts ...Option) *Tag {
	return ape.New(opts...)
}

// Read loads the tag whose footer starts at footerOffset in r. Use
// FindFooter or ReadFrom when the offset is not known.
func Read(r io.ReaderAt, size int64, path string, footerOffset int64, opts ...Option) (*Tag, error) {
	return ape.Read(r, size, path, footerOffset, opts...)
}

// NewTextItem creates a Text item holding values.
func NewTextItem(key string, values ...string) Item {
	return ape.NewTextItem(key, values...)
}

// NewBinaryItem creates a Binary item holding data.
func NewBinaryItem(key string, data []byte) Item {
	return ape.NewBinaryItem(key, data)
}

// NewLocatorItem creates a Locator item pointing at url.
func NewLocatorItem(key, url string) Item {
	return ape.NewLocatorItem(key, url)
}

// NewPropertyMap returns a PropertyMap holding fields.
func NewPropertyMap(fields map[string][]string) *PropertyMap {
	return types.NewPropertyMap(fields)
}

// CheckKey reports whether key is a valid APE item key.
func CheckKey(key string) bool {
	return ape.CheckKey(key)
}

// FileIdentifier returns "APETAGEX", the preamble of every header and footer.
func FileIdentifier() []byte {
	return ape.FileIdentifier()
}
