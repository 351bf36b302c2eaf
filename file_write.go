package apetag

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// WriteTagFile writes the rendered tag, header and footer included, to a
// standalone file at path. The tag is not embedded into any audio stream.
//
// This is an atomic operation: the tag is written to a temporary file in
// the same directory, then renamed over path. If any step fails, path is
// left unchanged.
//
// Example:
//
//	tag := apetag.New()
//	tag.SetTitle("Hello")
//	err := apetag.WriteTagFile("hello.apetag", tag, apetag.WithValidation())
func WriteTagFile(path string, tag *Tag, opts ...SaveOption) error {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	var original os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(path); err == nil {
			original = info
		}
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".apetag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := tag.WriteTo(tempFile); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if options.backupSuffix != "" {
		if _, err := os.Stat(path); err == nil {
			if err := os.Rename(path, path+options.backupSuffix); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if original != nil {
		_ = os.Chtimes(path, original.ModTime(), original.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := validateTagFile(path, tag); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// validateTagFile re-reads path and compares its items with tag.
func validateTagFile(path string, tag *Tag) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}

	written, err := ReadFrom(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}

	if !written.ItemMap().Equal(tag.ItemMap()) {
		return fmt.Errorf("item mismatch: wrote %d items, read back %d",
			tag.ItemMap().Len(), written.ItemMap().Len())
	}
	if w := written.Warnings(); len(w) > 0 {
		return fmt.Errorf("read back with warning: %s", w[0])
	}

	return nil
}
