// Package container identifies the audio containers that carry APE tags
// and locates the tag footer inside them.
package container

import (
	"bytes"
	"io"

	"github.com/h2non/filetype"
	ftypes "github.com/h2non/filetype/types"

	"github.com/simonhull/apetag/internal/binary"
	"github.com/simonhull/apetag/internal/types"
)

// sniffSize is the number of leading bytes handed to the matchers.
const sniffSize = 262

// id3v2HeaderSize is the size of an ID3v2 header and of its optional footer.
const id3v2HeaderSize = 10

var (
	typeMonkeysAudio = filetype.NewType("ape", "audio/x-ape")
	typeWavPack      = filetype.NewType("wv", "audio/x-wavpack")
	typeMusepack     = filetype.NewType("mpc", "audio/x-musepack")
)

func init() {
	filetype.AddMatcher(typeMonkeysAudio, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("MAC "))
	})
	filetype.AddMatcher(typeWavPack, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("wvpk"))
	})
	// SV8 streams start with "MPCK", SV7 and older with "MP+".
	filetype.AddMatcher(typeMusepack, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("MPCK")) || bytes.HasPrefix(buf, []byte("MP+"))
	})
}

// DetectFormat identifies the container from its leading bytes.
//
// An ID3v2 tag in front of the stream is skipped before matching, so a
// Monkey's Audio file with a prepended ID3v2 tag is still recognized. A
// stream that is only recognized by its ID3v2 tag or MPEG frame sync is
// reported as MP3.
//
// Unrecognized data returns FormatUnknown with *types.UnsupportedFormatError.
// Other errors come from r.
func DetectFormat(r io.ReaderAt, size int64, path string) (types.Format, error) {
	sr := binary.NewSafeReader(r, size, path)

	head, err := sniff(sr, 0)
	if err != nil {
		return types.FormatUnknown, err
	}

	format := match(head)
	if bytes.HasPrefix(head, []byte("ID3")) && len(head) >= id3v2HeaderSize {
		offset := id3v2Size(head)
		if offset < size {
			if inner, err := sniff(sr, offset); err == nil {
				if f := match(inner); f != types.FormatUnknown {
					format = f
				}
			}
		}
	}

	if format == types.FormatUnknown {
		return format, &types.UnsupportedFormatError{
			Path:   path,
			Reason: "unrecognized container signature",
		}
	}
	return format, nil
}

// sniff reads up to sniffSize bytes at off.
func sniff(sr *binary.SafeReader, off int64) ([]byte, error) {
	n := min(sr.Size()-off, sniffSize)
	if n <= 0 {
		return nil, nil
	}
	return sr.ReadBlock(off, int(n), "container signature")
}

func match(head []byte) types.Format {
	kind, err := filetype.Match(head)
	if err != nil {
		return types.FormatUnknown
	}
	return formatOf(kind)
}

func formatOf(kind ftypes.Type) types.Format {
	switch kind.Extension {
	case typeMonkeysAudio.Extension:
		return types.FormatMonkeysAudio
	case typeWavPack.Extension:
		return types.FormatWavPack
	case typeMusepack.Extension:
		return types.FormatMusepack
	case "mp3":
		return types.FormatMP3
	default:
		return types.FormatUnknown
	}
}

// id3v2Size returns the full length of the ID3v2 tag that starts head,
// header and optional footer included.
func id3v2Size(head []byte) int64 {
	size := int64(decodeSynchsafe(head[6:10])) + id3v2HeaderSize
	if head[5]&0x10 != 0 {
		size += id3v2HeaderSize
	}
	return size
}

func decodeSynchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}
