package ape

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/apetag/internal/types"
)

func footerBytes(version, tagSize, count, flags uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("APETAGEX")
	for _, v := range []uint32{version, tagSize, count, flags} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.Write(make([]byte, 8))
	return buf.Bytes()
}

func itemBytes(key string, flags uint32, value []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(value)))
	_ = binary.Write(&buf, binary.LittleEndian, flags)
	buf.WriteString(key)
	buf.WriteByte(0)
	buf.Write(value)
	return buf.Bytes()
}

// tagBytes lays out items followed by a version 2000 footer without header.
func tagBytes(count uint32, items ...[]byte) []byte {
	body := bytes.Join(items, nil)
	return append(body, footerBytes(Version, uint32(len(body)+FooterSize), count, 0)...)
}

func readTag(t *testing.T, data []byte, opts ...Option) *Tag {
	t.Helper()
	tag, err := Read(bytes.NewReader(data), int64(len(data)), "test.ape", int64(len(data)-FooterSize), opts...)
	require.NoError(t, err)
	return tag
}

type failingReaderAt struct{ err error }

func (f failingReaderAt) ReadAt([]byte, int64) (int, error) { return 0, f.err }

func TestRender_Empty(t *testing.T) {
	tag := New()
	out := tag.Render()
	require.Len(t, out, 64)

	header, footer := out[:32], out[32:]
	for _, block := range [][]byte{header, footer} {
		assert.Equal(t, []byte("APETAGEX"), block[:8])
		assert.Equal(t, uint32(2000), binary.LittleEndian.Uint32(block[8:]))
		assert.Equal(t, uint32(32), binary.LittleEndian.Uint32(block[12:]))
		assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(block[16:]))
		assert.Equal(t, make([]byte, 8), block[24:])
	}
	assert.Equal(t, uint32(flagHeaderPresent|flagIsHeader), binary.LittleEndian.Uint32(header[20:]))
	assert.Equal(t, uint32(flagHeaderPresent), binary.LittleEndian.Uint32(footer[20:]))
}

func TestRender_SingleText(t *testing.T) {
	tag := New()
	tag.SetTitle("Hello")
	assert.Equal(t, "Hello", tag.Title())

	out := tag.Render()
	body := out[32 : len(out)-32]
	assert.Equal(t, itemBytes("TITLE", 0, []byte("Hello")), body)
	assert.Equal(t, uint32(len(body)+32), binary.LittleEndian.Uint32(out[len(out)-20:]))
}

func TestRender_MultiValue(t *testing.T) {
	tag := New()
	require.NoError(t, tag.AddValue("ARTIST", "A", true))
	require.NoError(t, tag.AddValue("ARTIST", "B", false))

	item, ok := tag.Item("ARTIST")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, item.Values())

	out := tag.Render()
	body := out[32 : len(out)-32]
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(body))
	assert.Equal(t, []byte("A\x00B"), body[len(body)-3:])
}

func TestRender_SelfConsistent(t *testing.T) {
	tag := New()
	tag.SetTitle("Song")
	tag.SetArtist("Band")
	tag.SetYear(1999)
	require.NoError(t, tag.SetData("Cover Art (Front)", []byte{0xFF, 0xD8, 0x00, 0x01}))

	out := tag.Render()
	header, footer := out[:32], out[len(out)-32:]
	body := out[32 : len(out)-32]

	assert.Equal(t, uint32(len(body)+32), binary.LittleEndian.Uint32(footer[12:]))
	assert.Equal(t, uint32(tag.ItemMap().Len()), binary.LittleEndian.Uint32(footer[16:]))

	for i := range header {
		if i == 23 {
			assert.Equal(t, byte(0x20), header[i]^footer[i], "is-header bit")
			continue
		}
		assert.Equal(t, footer[i], header[i], "byte %d", i)
	}

	assert.Equal(t, uint32(len(body)+32), tag.Footer().TagSize())
	assert.Equal(t, uint32(len(body)+64), tag.Footer().CompleteTagSize())
}

func TestSetItem_ReservedKey(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tag := New(WithLogger(logger))

	err := tag.SetItem("ID3", NewTextItem("ID3", "x"))

	var keyErr *types.InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "ID3", keyErr.Key)
	assert.True(t, tag.ItemMap().IsEmpty())
	assert.Contains(t, logs.String(), "invalid APE key rejected")
}

func TestSetItem_ReplaceKeepsPosition(t *testing.T) {
	tag := New()
	require.NoError(t, tag.SetItem("Title", NewTextItem("Title", "one")))
	require.NoError(t, tag.SetItem("Artist", NewTextItem("Artist", "two")))
	require.NoError(t, tag.SetItem("TITLE", NewTextItem("TITLE", "three")))

	assert.Equal(t, []string{"TITLE", "ARTIST"}, tag.ItemMap().Keys())
	assert.Equal(t, "three", tag.Title())
}

func TestAddValue_KeyNormalization(t *testing.T) {
	keys := []string{"Artist", "artist", "ALBUM ARTIST", "MixedCase Key", "ab"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			tag := New()
			require.NoError(t, tag.AddValue(key, "v", true))

			upper, lower := strings.ToUpper(key), strings.ToLower(key)
			assert.True(t, tag.ItemMap().Contains(upper))
			if lower != upper {
				assert.False(t, tag.ItemMap().Contains(lower))
			}

			item, ok := tag.ItemMap().Get(upper)
			require.True(t, ok)
			assert.Equal(t, key, item.Key(), "stored item keeps original casing")
		})
	}
}

func TestAddValue(t *testing.T) {
	t.Run("empty value is a no-op", func(t *testing.T) {
		tag := New()
		require.NoError(t, tag.AddValue("TITLE", "", false))
		assert.True(t, tag.IsEmpty())
	})

	t.Run("empty value with replace removes", func(t *testing.T) {
		tag := New()
		tag.SetTitle("x")
		require.NoError(t, tag.AddValue("title", "", true))
		assert.True(t, tag.IsEmpty())
	})

	t.Run("appends to existing text item", func(t *testing.T) {
		tag := New()
		require.NoError(t, tag.AddValue("GENRE", "Rock", false))
		require.NoError(t, tag.AddValue("genre", "Pop", false))
		item, _ := tag.Item("GENRE")
		assert.Equal(t, []string{"Rock", "Pop"}, item.Values())
	})

	t.Run("replaces non-text item", func(t *testing.T) {
		tag := New()
		require.NoError(t, tag.SetData("NOTES", []byte{1, 2}))
		require.NoError(t, tag.AddValue("NOTES", "text", false))
		item, _ := tag.Item("NOTES")
		assert.Equal(t, ItemText, item.Type())
		assert.Equal(t, []string{"text"}, item.Values())
	})

	t.Run("invalid key", func(t *testing.T) {
		tag := New()
		err := tag.AddValue("TAG", "x", false)
		var keyErr *types.InvalidKeyError
		assert.ErrorAs(t, err, &keyErr)
		assert.True(t, tag.IsEmpty())
	})
}

func TestSetData(t *testing.T) {
	tag := New()
	require.NoError(t, tag.SetData("Cover Art (Front)", []byte{1, 2, 3}))

	item, ok := tag.Item("COVER ART (FRONT)")
	require.True(t, ok)
	assert.Equal(t, ItemBinary, item.Type())
	assert.Equal(t, []byte{1, 2, 3}, item.BinaryData())

	require.NoError(t, tag.SetData("cover art (front)", nil))
	assert.True(t, tag.IsEmpty())
}

func TestAccessors(t *testing.T) {
	tag := New()
	assert.Empty(t, tag.Title())
	assert.Zero(t, tag.Year())
	assert.Zero(t, tag.Track())

	tag.SetTitle("T")
	tag.SetArtist("Ar")
	tag.SetAlbum("Al")
	tag.SetComment("C")
	tag.SetGenre("G")
	tag.SetYear(2004)
	tag.SetTrack(7)

	assert.Equal(t, "T", tag.Title())
	assert.Equal(t, "Ar", tag.Artist())
	assert.Equal(t, "Al", tag.Album())
	assert.Equal(t, "C", tag.Comment())
	assert.Equal(t, "G", tag.Genre())
	assert.Equal(t, uint(2004), tag.Year())
	assert.Equal(t, uint(7), tag.Track())

	tag.SetYear(0)
	tag.SetTrack(0)
	tag.SetGenre("")
	assert.False(t, tag.ItemMap().Contains("YEAR"))
	assert.False(t, tag.ItemMap().Contains("TRACK"))
	assert.False(t, tag.ItemMap().Contains("GENRE"))
	assert.Equal(t, 4, tag.ItemMap().Len())
}

func TestAccessors_Separator(t *testing.T) {
	tag := New()
	require.NoError(t, tag.SetItem("ARTIST", NewTextItem("ARTIST", "A", "B")))
	assert.Equal(t, "A B", tag.Artist())

	tag = New(WithSeparator(" / "))
	require.NoError(t, tag.SetItem("ARTIST", NewTextItem("ARTIST", "A", "B")))
	assert.Equal(t, "A / B", tag.Artist())
}

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want uint
	}{
		{"2001", 2001},
		{"2001-05-01", 2001},
		{"3/12", 3},
		{" 7", 7},
		{"+5", 5},
		{"-3", 0},
		{"abc", 0},
		{"", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, leadingNumber(tt.in))
		})
	}
}

func TestYear_FirstValue(t *testing.T) {
	tag := New()
	require.NoError(t, tag.SetItem("YEAR", NewTextItem("YEAR", "1987", "2003")))
	assert.Equal(t, uint(1987), tag.Year())

	require.NoError(t, tag.SetItem("YEAR", NewTextItem("YEAR", "unknown")))
	assert.Zero(t, tag.Year())
}

func TestRead_Roundtrip(t *testing.T) {
	tag := New()
	tag.SetTitle("Title")
	require.NoError(t, tag.AddValue("Artist", "One", false))
	require.NoError(t, tag.AddValue("Artist", "Two", false))
	tag.SetTrack(3)
	require.NoError(t, tag.SetData("Cover Art (Front)", []byte{0, 1, 2, 0, 3}))
	require.NoError(t, tag.SetItem("Website", NewLocatorItem("Website", "https://example.com")))

	ro := NewTextItem("Lyrics", "la la\nla")
	ro.SetReadOnly(true)
	require.NoError(t, tag.SetItem("Lyrics", ro))

	data := tag.Render()
	got := readTag(t, data)

	assert.Empty(t, got.Warnings())
	assert.True(t, tag.ItemMap().Equal(got.ItemMap()))
	assert.True(t, got.Footer().HeaderPresent())
	assert.Equal(t, tag.Footer().TagSize(), got.Footer().TagSize())
	assert.Equal(t, data, got.Render())
}

func TestRead_NilReader(t *testing.T) {
	tag, err := Read(nil, 0, "", 0)
	require.NoError(t, err)
	assert.True(t, tag.IsEmpty())
	assert.Empty(t, tag.Warnings())
}

func TestRead_TagSizeOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		tagSize uint32
	}{
		{"footer only", 32},
		{"smaller than footer", 10},
		{"larger than source", 1 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append(itemBytes("TITLE", 0, []byte("x")), footerBytes(Version, tt.tagSize, 1, 0)...)
			tag := readTag(t, data)
			assert.True(t, tag.IsEmpty())
			require.Len(t, tag.Warnings(), 1)
			assert.Equal(t, "footer", tag.Warnings()[0].Stage)
		})
	}
}

func TestRead_MalformedSecondItem(t *testing.T) {
	bad := itemBytes("ARTIST", 0, []byte("x"))
	binary.LittleEndian.PutUint32(bad, 100)
	data := tagBytes(2, itemBytes("TITLE", 0, []byte("Hello")), bad)

	tag := readTag(t, data)
	assert.Equal(t, []string{"TITLE"}, tag.ItemMap().Keys())
	assert.Equal(t, "Hello", tag.Title())
	require.Len(t, tag.Warnings(), 1)
	assert.Equal(t, "items", tag.Warnings()[0].Stage)
}

func TestRead_ValueRunsPastBody(t *testing.T) {
	first := itemBytes("TITLE", 0, []byte("Hello"))
	bad := itemBytes("ARTIST", 0, []byte("abcdefghij"))
	binary.LittleEndian.PutUint32(bad, 25)
	data := tagBytes(2, first, bad)

	tag := readTag(t, data)
	assert.Equal(t, []string{"TITLE"}, tag.ItemMap().Keys())
	assert.NotEmpty(t, tag.Warnings())
}

func TestRead_InvalidKeySkipped(t *testing.T) {
	data := tagBytes(3,
		itemBytes("ID3", 0, []byte("skip me")),
		itemBytes("K\x01Y", 0, []byte("skip me too")),
		itemBytes("ALBUM", 0, []byte("kept")),
	)

	tag := readTag(t, data)
	assert.Equal(t, []string{"ALBUM"}, tag.ItemMap().Keys())
	assert.Equal(t, "kept", tag.Album())
	assert.Len(t, tag.Warnings(), 2)
}

func TestRead_MissingTerminator(t *testing.T) {
	var body bytes.Buffer
	_ = binary.Write(&body, binary.LittleEndian, uint32(0))
	_ = binary.Write(&body, binary.LittleEndian, uint32(0))
	body.WriteString("ABCD")
	data := tagBytes(1, body.Bytes())

	tag := readTag(t, data)
	assert.True(t, tag.IsEmpty())
	require.Len(t, tag.Warnings(), 1)
	assert.Contains(t, tag.Warnings()[0].Message, "terminator")
}

func TestRead_ItemCountLimitsParsing(t *testing.T) {
	data := tagBytes(1,
		itemBytes("TITLE", 0, []byte("a")),
		itemBytes("ARTIST", 0, []byte("b")),
	)

	tag := readTag(t, data)
	assert.Equal(t, []string{"TITLE"}, tag.ItemMap().Keys())
	assert.Empty(t, tag.Warnings())
}

func TestRead_DuplicateKeyLaterWins(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	data := tagBytes(3,
		itemBytes("Title", 0, []byte("first")),
		itemBytes("ARTIST", 0, []byte("a")),
		itemBytes("TITLE", 0, []byte("second")),
	)

	tag := readTag(t, data, WithLogger(logger))
	assert.Equal(t, []string{"TITLE", "ARTIST"}, tag.ItemMap().Keys())
	assert.Equal(t, "second", tag.Title())
	assert.Contains(t, logs.String(), "duplicate APE item replaced")
}

func TestRead_ZeroLengthValue(t *testing.T) {
	data := tagBytes(2,
		itemBytes("EMPTY", 0, nil),
		itemBytes("TITLE", 0, []byte("x")),
	)

	tag := readTag(t, data)
	assert.Equal(t, []string{"EMPTY", "TITLE"}, tag.ItemMap().Keys())
	item, _ := tag.Item("EMPTY")
	assert.Empty(t, item.Values())
	assert.True(t, item.IsEmpty())
}

func TestRead_Version(t *testing.T) {
	body := itemBytes("TITLE", 0, []byte("x"))
	data := append(bytes.Clone(body), footerBytes(1000, uint32(len(body)+32), 1, 0)...)

	tag := readTag(t, data)
	assert.Equal(t, "x", tag.Title())
	assert.Equal(t, uint32(1000), tag.Footer().Version())

	tag = readTag(t, data, WithStrictVersion())
	assert.True(t, tag.IsEmpty())
	require.Len(t, tag.Warnings(), 1)
	assert.Contains(t, tag.Warnings()[0].Message, "version 1000")
}

func TestRead_OffsetOutOfBounds(t *testing.T) {
	data := tagBytes(1, itemBytes("TITLE", 0, []byte("x")))

	tag, err := Read(bytes.NewReader(data), int64(len(data)), "test.ape", int64(len(data)-10))
	require.NoError(t, err)
	assert.True(t, tag.IsEmpty())
	require.Len(t, tag.Warnings(), 1)
	assert.Equal(t, "footer", tag.Warnings()[0].Stage)
}

func TestRead_IgnoreWarnings(t *testing.T) {
	data := tagBytes(1, itemBytes("ID3", 0, []byte("x")))
	tag := readTag(t, data, WithIgnoreWarnings())
	assert.True(t, tag.IsEmpty())
	assert.Empty(t, tag.Warnings())
}

func TestRead_ReaderFailure(t *testing.T) {
	diskErr := errors.New("disk failure")
	_, err := Read(failingReaderAt{diskErr}, 1024, "broken.ape", 992)
	require.Error(t, err)
	assert.ErrorIs(t, err, diskErr)
}

func TestRead_HeaderAndFooterTag(t *testing.T) {
	src := New()
	src.SetAlbum("Album")
	rendered := src.Render()

	// Audio before the tag and an ID3v1 block after it.
	audio := bytes.Repeat([]byte{0xAA}, 100)
	trailer := append([]byte("TAG"), make([]byte, 125)...)
	data := append(append(bytes.Clone(audio), rendered...), trailer...)

	footerOffset := int64(len(audio) + len(rendered) - FooterSize)
	tag, err := Read(bytes.NewReader(data), int64(len(data)), "song.ape", footerOffset)
	require.NoError(t, err)
	assert.Equal(t, "Album", tag.Album())
	assert.Empty(t, tag.Warnings())
}

func TestWriteTo(t *testing.T) {
	tag := New()
	tag.SetTitle("x")

	var buf bytes.Buffer
	n, err := tag.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, tag.Render(), buf.Bytes())
}
