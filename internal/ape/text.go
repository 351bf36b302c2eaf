package ape

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decodeText converts a UTF-8 value to a string, replacing invalid
// sequences with U+FFFD.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(out)
}

// decodeKey reads key bytes as ISO-8859-1. Valid keys are ASCII, for
// which this is the identity.
func decodeKey(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// encodeKey writes a key as ISO-8859-1, substituting characters that
// have no single-byte form.
func encodeKey(key string) []byte {
	out, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(key))
	if err != nil {
		return []byte(key)
	}
	return out
}

// splitValues splits a Text item value on NUL separators. A trailing
// empty piece is dropped, so an empty value has no values at all.
func splitValues(value []byte) []string {
	if len(value) == 0 {
		return nil
	}
	parts := bytes.Split(value, []byte{0})
	if len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = decodeText(p)
	}
	return values
}

// joinValues is the inverse of splitValues.
func joinValues(values []string) []byte {
	var buf bytes.Buffer
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.WriteString(v)
	}
	return buf.Bytes()
}
