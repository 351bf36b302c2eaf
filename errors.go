package apetag

import (
	"github.com/simonhull/apetag/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to maintain public API.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedTagError is an alias to types.CorruptedTagError.
// Re-exporting from internal/types to maintain public API.
type CorruptedTagError = types.CorruptedTagError

// InvalidKeyError is an alias to types.InvalidKeyError.
// Re-exporting from internal/types to maintain public API.
type InvalidKeyError = types.InvalidKeyError

// NoTagError is an alias to types.NoTagError.
// Re-exporting from internal/types to maintain public API.
type NoTagError = types.NoTagError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
