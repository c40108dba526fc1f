package log

import "strings"

// Option changes one setting of a [Logger].
type Option func(*config)

// WithLevel discards messages below level.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat selects the record encoding.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout. Named layouts such as "time",
// "kitchen", and "RFC3339Nano" are recognized ignoring case and punctuation;
// anything else is passed verbatim to [time.Time.Format]. "none" or an empty
// layout omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.formatTime = timeFormatter(layout) }
}

// WithCaller includes the source location of each logging call.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty renders records with lipgloss styles: text as one line of
// unquoted pairs, JSON as an indented object.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

// WithBaseDir shows absolute paths beneath dir, in attributes named "file",
// "path", or "dir", relative to dir. An empty dir shows paths as given.
func WithBaseDir(dir string) Option {
	return func(c *config) { c.baseDir = strings.TrimSpace(dir) }
}
