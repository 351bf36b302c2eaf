package apetag

// SaveOption configures WriteTagFile.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := apetag.WriteTagFile("song.apetag", tag,
//	    apetag.WithBackup(".bak"),
//	    apetag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving tag files.
type saveOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep the replaced file's modification time
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{}
}

// WithBackup keeps the file being replaced.
//
// The existing file is renamed to its path plus suffix before the new tag
// takes its place. For example, WithBackup(".bak") keeps "song.apetag.bak".
// An existing backup is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the written file and checks that its items
// match the tag that was saved.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the modification time of the file being
// replaced. It has no effect when the file is new.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}
