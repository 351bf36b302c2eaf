package apetag

import (
	"log/slog"

	"github.com/simonhull/apetag/internal/ape"
)

// Option configures how tags are read and presented.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := apetag.Open("song.ape",
//	    apetag.WithLogger(logger),
//	    apetag.WithStrictVersion(),
//	)
type Option = ape.Option

// WithLogger sets the debug sink.
//
// Skipped items, rejected keys, and replaced duplicates are logged at
// debug level with structured attributes. By default nothing is logged.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	file, err := apetag.Open("song.ape", apetag.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return ape.WithLogger(logger)
}

// WithStrictVersion rejects tags whose footer version is not 2000.
//
// By default the version field is not checked. With this option a tag
// of another version is left empty and a warning is recorded.
func WithStrictVersion() Option {
	return ape.WithStrictVersion()
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, non-fatal parse problems are collected in Tag.Warnings.
// This option discards them. Debug logging is unaffected.
func WithIgnoreWarnings() Option {
	return ape.WithIgnoreWarnings()
}

// WithSeparator sets the string that joins multiple values in Title,
// Artist, Album, Comment, and Genre. The default is a single space.
//
// Example:
//
//	tag := apetag.New(apetag.WithSeparator(" / "))
func WithSeparator(sep string) Option {
	return ape.WithSeparator(sep)
}
