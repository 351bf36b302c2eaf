package types

import "fmt"

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when a container cannot be identified.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedTagError is returned when an APE structure is malformed.
//
// Offset is relative to the start of the structure being decoded
// (the item, the footer, or the tag body).
type CorruptedTagError struct {
	What   string
	Reason string
	Offset int64
}

func (e *CorruptedTagError) Error() string {
	return fmt.Sprintf("corrupted %s at offset %d: %s", e.What, e.Offset, e.Reason)
}

// InvalidKeyError reports an item key that APE does not allow.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid APE item key %q", e.Key)
}

// NoTagError is returned when a file carries no APE footer.
type NoTagError struct {
	Path string
}

func (e *NoTagError) Error() string {
	return fmt.Sprintf("%s: no APE tag found", e.Path)
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent tag extraction but
// may indicate corrupted or unusual data. Examples include:
//   - A footer whose size does not fit the file
//   - An item whose key is not a valid APE key
//   - An item whose value length runs past the tag body
//
// Warnings are collected on the Tag while it is read.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "footer", "items"

	// Warning message
	Message string

	// Offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
