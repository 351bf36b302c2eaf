package ape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/apetag/internal/types"
)

func sampleTag(t *testing.T) *Tag {
	t.Helper()
	tag := New()
	tag.SetTitle("Song")
	tag.SetTrack(3)
	tag.SetYear(2001)
	require.NoError(t, tag.AddValue("Album Artist", "Various", true))
	require.NoError(t, tag.AddValue("Genre", "Rock", false))
	require.NoError(t, tag.AddValue("Genre", "Pop", false))
	require.NoError(t, tag.SetData("Cover Art (Front)", []byte{0xFF, 0xD8}))
	require.NoError(t, tag.SetItem("Homepage", NewLocatorItem("Homepage", "https://example.com")))
	return tag
}

func TestProperties(t *testing.T) {
	props := sampleTag(t).Properties()

	assert.Equal(t, []string{"ALBUMARTIST", "DATE", "GENRE", "TITLE", "TRACKNUMBER"}, props.Keys())
	assert.Equal(t, []string{"3"}, props.Get("TRACKNUMBER"))
	assert.Equal(t, []string{"2001"}, props.Get("DATE"))
	assert.Equal(t, []string{"Various"}, props.Get("ALBUMARTIST"))
	assert.Equal(t, []string{"Rock", "Pop"}, props.Get("GENRE"))
	assert.False(t, props.Contains("TRACK"))
	assert.Equal(t, []string{"COVER ART (FRONT)", "HOMEPAGE"}, props.Unsupported())
}

func TestSetProperties_Translation(t *testing.T) {
	tag := New()
	invalid := tag.SetProperties(types.NewPropertyMap(map[string][]string{
		"TRACKNUMBER": {"3"},
	}))

	assert.True(t, invalid.IsEmpty())
	assert.True(t, tag.ItemMap().Contains("TRACK"))
	assert.False(t, tag.ItemMap().Contains("TRACKNUMBER"))
	assert.Equal(t, uint(3), tag.Track())

	props := tag.Properties()
	assert.Equal(t, []string{"3"}, props.Get("TRACKNUMBER"))
	assert.False(t, props.Contains("TRACK"))
}

func TestSetProperties_Idempotent(t *testing.T) {
	tag := sampleTag(t)
	before := tag.Properties()
	items := tag.ItemMap().Keys()

	invalid := tag.SetProperties(before)
	assert.True(t, invalid.IsEmpty())
	assert.True(t, before.Equal(tag.Properties()))
	assert.Equal(t, items, tag.ItemMap().Keys())
}

func TestSetProperties_RemovesMissingTextItems(t *testing.T) {
	tag := sampleTag(t)
	tag.SetProperties(types.NewPropertyMap(map[string][]string{
		"TITLE": {"New Title"},
	}))

	assert.Equal(t, "New Title", tag.Title())
	assert.ElementsMatch(t, []string{"TITLE", "COVER ART (FRONT)", "HOMEPAGE"}, tag.ItemMap().Keys())
}

func TestSetProperties_EmptyValuesRemove(t *testing.T) {
	tag := sampleTag(t)
	props := tag.Properties()
	props.Set("GENRE")

	tag.SetProperties(props)
	assert.False(t, tag.ItemMap().Contains("GENRE"))
	assert.Equal(t, "Song", tag.Title())
}

func TestSetProperties_MultiValue(t *testing.T) {
	tag := New()
	tag.SetProperties(types.NewPropertyMap(map[string][]string{
		"ARTIST": {"A", "B", "C"},
	}))

	item, ok := tag.Item("ARTIST")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, item.Values())
}

func TestSetProperties_InvalidKeys(t *testing.T) {
	tag := New()
	invalid := tag.SetProperties(types.NewPropertyMap(map[string][]string{
		"ID3":   {"x"},
		"A":     {"y"},
		"TITLE": {"t"},
	}))

	assert.Equal(t, []string{"A", "ID3"}, invalid.Keys())
	assert.Equal(t, []string{"x"}, invalid.Get("ID3"))
	assert.Equal(t, []string{"TITLE"}, tag.ItemMap().Keys())
}

func TestSetProperties_Nil(t *testing.T) {
	tag := sampleTag(t)
	invalid := tag.SetProperties(nil)
	assert.True(t, invalid.IsEmpty())
	assert.ElementsMatch(t, []string{"COVER ART (FRONT)", "HOMEPAGE"}, tag.ItemMap().Keys())
}

func TestRemoveUnsupportedProperties(t *testing.T) {
	tag := sampleTag(t)
	tag.RemoveUnsupportedProperties(tag.Properties().Unsupported())

	assert.Empty(t, tag.Properties().Unsupported())
	assert.False(t, tag.ItemMap().Contains("COVER ART (FRONT)"))
	assert.Equal(t, "Song", tag.Title())
}
