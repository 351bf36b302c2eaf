package apetag

import (
	"io"

	"github.com/simonhull/apetag/internal/container"
	"github.com/simonhull/apetag/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown      = types.FormatUnknown
	FormatMonkeysAudio = types.FormatMonkeysAudio
	FormatWavPack      = types.FormatWavPack
	FormatMusepack     = types.FormatMusepack
	FormatMP3          = types.FormatMP3
)

// DetectFormat identifies the audio container in r.
//
// Unrecognized data returns FormatUnknown with *UnsupportedFormatError.
// An unknown container can still carry an APE tag; Open reads it anyway.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return container.DetectFormat(r, size, path)
}

// FindFooter returns the offset of the APE footer in r: either the last
// 32 bytes or the 32 bytes before an ID3v1 trailer. ok is false when no
// footer is present.
func FindFooter(r io.ReaderAt, size int64, path string) (offset int64, ok bool, err error) {
	return container.FindFooter(r, size, path)
}
