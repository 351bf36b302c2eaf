package ape

import "log/slog"

// DefaultSeparator joins multiple Text values in the string accessors.
const DefaultSeparator = " "

// Option configures how a Tag is read and presented.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	strictVersion  bool   // Reject footers whose version is not 2000
	ignoreWarnings bool   // Do not collect warnings
	separator      string // Joins values in Title, Artist, ...
}

func defaultOptions() *options {
	return &options{
		logger:    slog.New(slog.DiscardHandler),
		separator: DefaultSeparator,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the debug sink. Parse problems and rejected keys are
// logged at debug level. A nil logger keeps the default, which discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictVersion stops reading when the footer version is not 2000.
func WithStrictVersion() Option {
	return func(o *options) {
		o.strictVersion = true
	}
}

// WithIgnoreWarnings discards parse warnings instead of collecting them.
// Debug logging is unaffected.
func WithIgnoreWarnings() Option {
	return func(o *options) {
		o.ignoreWarnings = true
	}
}

// WithSeparator sets the string used to join multiple values in the
// string accessors.
func WithSeparator(sep string) Option {
	return func(o *options) {
		o.separator = sep
	}
}
