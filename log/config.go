package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Level is the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// DefaultLevel is the level of a logger made without [WithLevel].
const DefaultLevel = LevelInfo

// Levels yields the name of every level, most verbose first.
func Levels() iter.Seq[string] { return names(levels) }

// ParseLevel returns the level named s, ignoring case. It also accepts the
// offset forms understood by [slog.Level.UnmarshalText], such as "warn+2".
// Unknown names yield [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

var formats = []Format{FormatText, FormatJSON}

// DefaultFormat is the format of a logger made without [WithFormat].
const DefaultFormat = FormatText

// Formats yields the name of every format.
func Formats() iter.Seq[string] { return names(formats) }

// ParseFormat returns the format named s, ignoring case, or [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)

	i := slices.IndexFunc(formats, func(f Format) bool {
		return strings.EqualFold(f.String(), s)
	})
	if i < 0 {
		return DefaultFormat
	}

	return formats[i]
}

func names[T interface{ String() string }](all []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range all {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// DefaultTimeLayout is the timestamp layout of a logger made without
// [WithTimeLayout]. Runs are short, so the date is left out.
const DefaultTimeLayout = "time"

// namedLayouts maps the layout names accepted by [WithTimeLayout], reduced to
// lowercase letters and digits, to [time] layouts.
var namedLayouts = map[string]string{
	"none":        "",
	"time":        time.TimeOnly,
	"datetime":    time.DateTime,
	"kitchen":     time.Kitchen,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
}

// timeFormatter returns a function rendering timestamps with layout, which is
// a name from namedLayouts or else a verbatim [time.Time.Format] layout. A
// nil function omits timestamps.
func timeFormatter(layout string) func(time.Time) string {
	key := strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if named, ok := namedLayouts[key]; ok || key == "" {
		layout = named
	}

	if layout == "" {
		return nil
	}

	return func(t time.Time) string { return t.Format(layout) }
}

// pathKeys are the attribute keys holding file system paths.
var pathKeys = []string{"file", "path", "dir"}

// config is the immutable configuration of a [Logger].
type config struct {
	output     io.Writer
	formatTime func(time.Time) string
	baseDir    string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func defaults(w io.Writer) config {
	if w == nil {
		w = io.Discard
	}

	return config{
		output:     w,
		formatTime: timeFormatter(DefaultTimeLayout),
		level:      DefaultLevel,
		format:     DefaultFormat,
		pretty:     true,
	}
}

// replaceAttr renders the built-in time and level attributes, and shortens
// top-level paths under baseDir to relative form.
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch {
	case len(groups) > 0:
		return a

	case a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime:
		if c.formatTime == nil {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(c.formatTime(a.Value.Time()))

	case a.Key == slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}

	case c.baseDir != "" && a.Value.Kind() == slog.KindString &&
		slices.Contains(pathKeys, a.Key):
		a.Value = slog.StringValue(c.relative(a.Value.String()))
	}

	return a
}

// relative returns path relative to baseDir when path lies beneath it.
func (c config) relative(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}

	rel, err := filepath.Rel(c.baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}

	return rel
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty:
		return newPrettyHandler(c.output, opts, c.format == FormatJSON)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}
