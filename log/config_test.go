package log

import (
	"log/slog"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"warn+2", Level(slog.LevelWarn + 2)},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{" JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelsAndFormats(t *testing.T) {
	levels := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}

	formats := slices.Collect(Formats())
	if want := []string{"text", "json"}; !slices.Equal(formats, want) {
		t.Errorf("Formats() = %v, want %v", formats, want)
	}

	// Every name must parse back, since the CLI offers them as enum values.
	for _, name := range levels {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestTimeFormatter(t *testing.T) {
	stamp := time.Date(2024, 3, 9, 14, 5, 6, 789_000_000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"time", "14:05:06"},
		{"DateTime", "2024-03-09 14:05:06"},
		{"kitchen", "2:05PM"},
		{"RFC3339", "2024-03-09T14:05:06Z"},
		{"rfc-3339-nano", "2024-03-09T14:05:06.789Z"},
		{"ms", "Mar  9 14:05:06.789"},
		{"2006/01/02", "2024/03/09"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			format := timeFormatter(tt.layout)
			if format == nil {
				t.Fatalf("timeFormatter(%q) is nil", tt.layout)
			}

			if got := format(stamp); got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}

	for _, layout := range []string{"", "  ", "none", "NONE"} {
		if timeFormatter(layout) != nil {
			t.Errorf("timeFormatter(%q) should omit timestamps", layout)
		}
	}
}

func TestConfig_ReplaceAttr_Paths(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "work", "crate")
	inside := filepath.Join(base, "src", "main.rs")
	outside := filepath.Join(string(filepath.Separator), "work", "other.rs")

	tests := []struct {
		name   string
		base   string
		groups []string
		attr   slog.Attr
		want   string
	}{
		{"beneath base", base, nil, slog.String("file", inside), filepath.Join("src", "main.rs")},
		{"path key", base, nil, slog.String("path", inside), filepath.Join("src", "main.rs")},
		{"outside base", base, nil, slog.String("file", outside), outside},
		{"relative input", base, nil, slog.String("file", "lib.rs"), "lib.rs"},
		{"other key", base, nil, slog.String("source", inside), inside},
		{"grouped", base, []string{"g"}, slog.String("file", inside), inside},
		{"no base", "", nil, slog.String("file", inside), inside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults(nil)
			WithBaseDir(tt.base)(&c)

			got := c.replaceAttr(tt.groups, tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("replaceAttr(%v) = %q, want %q", tt.attr, got.Value.String(), tt.want)
			}
		})
	}
}

func TestConfig_ReplaceAttr_BuiltIns(t *testing.T) {
	c := defaults(nil)
	WithTimeLayout("none")(&c)

	if got := c.replaceAttr(nil, slog.Time(slog.TimeKey, time.Now())); !got.Equal(slog.Attr{}) {
		t.Errorf("expected time to be dropped, got %v", got)
	}

	got := c.replaceAttr(nil, slog.Any(slog.LevelKey, slog.Level(LevelTrace)))
	if got.Value.String() != "TRACE" {
		t.Errorf("level = %q, want TRACE", got.Value.String())
	}
}

func TestOptions(t *testing.T) {
	c := defaults(nil)

	for _, opt := range []Option{
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithBaseDir(" /tmp "),
	} {
		opt(&c)
	}

	if c.level != LevelDebug || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	if c.baseDir != "/tmp" {
		t.Errorf("baseDir = %q, want /tmp", c.baseDir)
	}
}

func BenchmarkTimeFormatter(b *testing.B) {
	format := timeFormatter(DefaultTimeLayout)
	now := time.Now()

	for b.Loop() {
		_ = format(now)
	}
}
