package types

// Format represents the container an APE tag was found in.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported container.
	FormatUnknown Format = iota
	// FormatMonkeysAudio represents Monkey's Audio (.ape) files.
	FormatMonkeysAudio
	// FormatWavPack represents WavPack (.wv) files.
	FormatWavPack
	// FormatMusepack represents Musepack (.mpc) files.
	FormatMusepack
	// FormatMP3 represents MP3 files, which may carry an APE tag before ID3v1.
	FormatMP3
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatMonkeysAudio:
		return "Monkey's Audio"
	case FormatWavPack:
		return "WavPack"
	case FormatMusepack:
		return "Musepack"
	case FormatMP3:
		return "MP3"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMonkeysAudio:
		return []string{".ape"}
	case FormatWavPack:
		return []string{".wv"}
	case FormatMusepack:
		return []string{".mpc", ".mp+", ".mpp"}
	case FormatMP3:
		return []string{".mp3"}
	default:
		return nil
	}
}
