package ape

import (
	"slices"
	"strings"
)

// Key length bounds, in bytes.
const (
	MinKeyLength = 2
	MaxKeyLength = 255
)

// reservedKeys collide with other tag identifiers and are never valid,
// whatever their case.
var reservedKeys = []string{"ID3", "TAG", "OGGS", "MP+"}

// keyConversions pairs the generic property name with the spelling
// customary in APE tags.
var keyConversions = []struct {
	generic string
	ape     string
}{
	{"TRACKNUMBER", "TRACK"},
	{"DATE", "YEAR"},
	{"ALBUMARTIST", "ALBUM ARTIST"},
	{"DISCNUMBER", "DISC"},
	{"REMIXER", "MIXARTIST"},
	{"RELEASESTATUS", "MUSICBRAINZ_ALBUMSTATUS"},
	{"RELEASETYPE", "MUSICBRAINZ_ALBUMTYPE"},
}

// CheckKey reports whether key may be used as an APE item key: 2 to 255
// printable ASCII bytes (space included) that do not spell a reserved
// identifier.
func CheckKey(key string) bool {
	if len(key) < MinKeyLength || len(key) > MaxKeyLength {
		return false
	}
	return isKeyValid([]byte(key))
}

// isKeyValid checks the character set and reserved words, not the length.
func isKeyValid(key []byte) bool {
	for _, c := range key {
		if c < 32 || c > 126 {
			return false
		}
	}
	return !slices.Contains(reservedKeys, strings.ToUpper(string(key)))
}

// genericKey maps an upper-case APE key to its property name.
func genericKey(apeKey string) string {
	for _, c := range keyConversions {
		if apeKey == c.ape {
			return c.generic
		}
	}
	return apeKey
}

// apeKey maps an upper-case property name to its APE spelling.
func apeKey(generic string) string {
	for _, c := range keyConversions {
		if generic == c.generic {
			return c.ape
		}
	}
	return generic
}
