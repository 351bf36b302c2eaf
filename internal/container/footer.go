package container

import (
	"io"

	"github.com/simonhull/apetag/internal/ape"
	"github.com/simonhull/apetag/internal/binary"
)

// id3v1Size is the size of an ID3v1 trailer, which starts with "TAG".
const id3v1Size = 128

// FindFooter returns the offset of the APE footer in r.
//
// The footer is either the last 32 bytes of the stream or the 32 bytes
// that precede an ID3v1 trailer. ok is false when neither position holds
// the APE preamble.
func FindFooter(r io.ReaderAt, size int64, path string) (offset int64, ok bool, err error) {
	if size < ape.FooterSize {
		return 0, false, nil
	}
	sr := binary.NewSafeReader(r, size, path)

	end := size
	if size >= id3v1Size+ape.FooterSize {
		marker, err := sr.ReadBlock(size-id3v1Size, 3, "ID3v1 marker")
		if err != nil {
			return 0, false, err
		}
		if string(marker) == "TAG" {
			end = size - id3v1Size
		}
	}

	offset = end - ape.FooterSize
	preamble, err := sr.ReadBlock(offset, len(ape.FileIdentifier()), "APE preamble")
	if err != nil {
		return 0, false, err
	}
	if !ape.HasIdentifier(preamble) {
		return 0, false, nil
	}
	return offset, true, nil
}
