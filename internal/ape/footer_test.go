package ape

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/apetag/internal/types"
)

func TestFooter_Parse(t *testing.T) {
	tests := []struct {
		name          string
		flags         uint32
		headerPresent bool
		footerPresent bool
		isHeader      bool
		complete      uint32
	}{
		{"footer without header", 0, false, true, false, 100},
		{"footer with header", flagHeaderPresent, true, true, false, 132},
		{"header", flagHeaderPresent | flagIsHeader, true, true, true, 132},
		{"no footer bit", flagHeaderPresent | flagNoFooter | flagIsHeader, true, false, true, 132},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Footer
			require.NoError(t, f.Parse(footerBytes(2000, 100, 3, tt.flags)))

			assert.Equal(t, uint32(2000), f.Version())
			assert.Equal(t, uint32(100), f.TagSize())
			assert.Equal(t, uint32(3), f.ItemCount())
			assert.Equal(t, tt.headerPresent, f.HeaderPresent())
			assert.Equal(t, tt.footerPresent, f.FooterPresent())
			assert.Equal(t, tt.isHeader, f.IsHeader())
			assert.Equal(t, tt.complete, f.CompleteTagSize())
		})
	}
}

func TestFooter_ParseShort(t *testing.T) {
	var f Footer
	err := f.Parse(make([]byte, 31))
	var corrupted *types.CorruptedTagError
	assert.ErrorAs(t, err, &corrupted)
}

func TestFooter_Render(t *testing.T) {
	f := NewFooter()
	f.SetTagSize(80)
	f.SetItemCount(2)

	assert.Nil(t, f.RenderHeader())

	footer := f.RenderFooter()
	require.Len(t, footer, FooterSize)
	assert.Equal(t, footerBytes(2000, 80, 2, 0), footer)

	f.SetHeaderPresent(true)
	assert.Equal(t, footerBytes(2000, 80, 2, flagHeaderPresent), f.RenderFooter())
	assert.Equal(t, footerBytes(2000, 80, 2, flagHeaderPresent|flagIsHeader), f.RenderHeader())
}

func TestFooter_RenderAlwaysCurrentVersion(t *testing.T) {
	var f Footer
	require.NoError(t, f.Parse(footerBytes(1000, 64, 1, flagNoFooter)))

	out := f.RenderFooter()
	assert.Equal(t, uint32(Version), binary.LittleEndian.Uint32(out[8:]))
	assert.Zero(t, binary.LittleEndian.Uint32(out[20:])&flagNoFooter)
}

func TestFooter_ParseRenderRoundtrip(t *testing.T) {
	f := NewFooter()
	f.SetTagSize(1234)
	f.SetItemCount(9)
	f.SetHeaderPresent(true)

	var footer, header Footer
	require.NoError(t, footer.Parse(f.RenderFooter()))
	require.NoError(t, header.Parse(f.RenderHeader()))

	assert.Equal(t, f, footer)
	assert.True(t, header.IsHeader())
	assert.Equal(t, footer.TagSize(), header.TagSize())
	assert.Equal(t, footer.ItemCount(), header.ItemCount())
}

func TestFileIdentifier(t *testing.T) {
	id := FileIdentifier()
	assert.Equal(t, []byte("APETAGEX"), id)

	id[0] = 'X'
	assert.Equal(t, []byte("APETAGEX"), FileIdentifier())

	assert.True(t, HasIdentifier(footerBytes(2000, 32, 0, 0)))
	assert.False(t, HasIdentifier([]byte("APETAG")))
	assert.False(t, HasIdentifier([]byte("TAGAPETAGEX")))
}
