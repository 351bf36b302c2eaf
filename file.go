package apetag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// File is an audio file whose APE tag has been read.
//
// The file handle is closed before Open returns; a File only holds the
// parsed tag and where it was found.
//
//	file, err := apetag.Open("song.ape")
//	if err != nil {
//		return err
//	}
//	fmt.Println(file.Tag.Title())
type File struct {
	// Path to the audio file
	Path string

	// Detected container, FormatUnknown if unrecognized
	Format Format

	// File size in bytes
	Size int64

	// Offset of the APE footer
	FooterOffset int64

	// Parsed tag
	Tag *Tag
}

// Open opens an audio file and reads its APE tag.
//
// The container is detected first, but an unrecognized container is not
// an error: the tag is located the same way for every format. A file with
// no APE footer returns *NoTagError.
//
// Malformed tag data does not fail Open. Check File.Tag.Warnings for
// problems found while reading.
//
// Example:
//
//	file, err := apetag.Open("song.wv", apetag.WithIgnoreWarnings())
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s - %s\n", file.Tag.Artist(), file.Tag.Title())
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return openReader(f, stat.Size(), path, opts)
}

// openReader reads a File from an io.ReaderAt.
func openReader(r io.ReaderAt, size int64, path string, opts []Option) (*File, error) {
	format, err := DetectFormat(r, size, path)
	if err != nil {
		var unsupported *UnsupportedFormatError
		if !errors.As(err, &unsupported) {
			return nil, fmt.Errorf("detect format: %w", err)
		}
	}

	offset, ok, err := FindFooter(r, size, path)
	if err != nil {
		return nil, fmt.Errorf("find APE footer: %w", err)
	}
	if !ok {
		return nil, &NoTagError{Path: path}
	}

	tag, err := Read(r, size, path, offset, opts...)
	if err != nil {
		return nil, err
	}

	return &File{
		Path:         path,
		Format:       format,
		Size:         size,
		FooterOffset: offset,
		Tag:          tag,
	}, nil
}

// ReadFrom locates and reads the APE tag in r.
//
// Unlike Open, a source without a footer is not an error: ReadFrom then
// returns an empty tag, ready to be filled and rendered.
func ReadFrom(r io.ReaderAt, size int64, opts ...Option) (*Tag, error) {
	offset, ok, err := FindFooter(r, size, "")
	if err != nil {
		return nil, fmt.Errorf("find APE footer: %w", err)
	}
	if !ok {
		return New(opts...), nil
	}
	return Read(r, size, "", offset, opts...)
}

// OpenContext opens a file with context support for cancellation.
//
// This is a thin wrapper around Open() that checks context before starting.
// A tag read is bounded by its declared size, so there is nothing to
// cancel once reading has begun.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Open(path, opts...)
}

// OpenMany reads the tags of multiple files concurrently.
//
// Files are read in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. The first
// failure cancels the remaining reads and is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	files, err := apetag.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, f := range files {
//		fmt.Printf("%s: %s - %s\n", f.Format, f.Tag.Artist(), f.Tag.Title())
//	}
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
