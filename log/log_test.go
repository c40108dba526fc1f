package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// plain returns a logger whose output is easy to match: unstyled text with
// no timestamps.
func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithTimeLayout("none"), WithPretty(false)}, opts...)...)
}

func TestMake_Defaults(t *testing.T) {
	logger := Make(&bytes.Buffer{})

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.cfg.caller || !logger.cfg.pretty || logger.cfg.baseDir != "" {
		t.Errorf("unexpected defaults: %+v", logger.cfg)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	type logFunc func(Logger, context.Context, string, ...slog.Attr)

	tests := []struct {
		name   string
		call   logFunc
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.TraceContext, LevelTrace, true},
		{"trace at debug", Logger.TraceContext, LevelDebug, false},
		{"debug at info", Logger.DebugContext, LevelInfo, false},
		{"info at info", Logger.InfoContext, LevelInfo, true},
		{"warn at error", Logger.WarnContext, LevelError, false},
		{"error at warn", Logger.ErrorContext, LevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.call(plain(&buf, WithLevel(tt.min)), t.Context(), "expanded")

			if got := strings.Contains(buf.String(), "msg=expanded"); got != tt.logged {
				t.Errorf("logged = %v, want %v; output %q", got, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithLevel(LevelTrace)).TraceContext(t.Context(), "binding classified",
		slog.String("shape", "mut-id"))

	want := "level=TRACE msg=\"binding classified\" shape=mut-id\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithFormat(FormatJSON)).InfoContext(t.Context(), "rewrote source",
		slog.String("file", "main.rs"), slog.Int("invocations", 2))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got["msg"] != "rewrote source" || got["file"] != "main.rs" || got["invocations"] != 2.0 {
		t.Errorf("unexpected record: %v", got)
	}

	if _, ok := got[slog.TimeKey]; ok {
		t.Errorf("time should be omitted: %v", got)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).InfoContext(t.Context(), "located")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("expected caller in this file, got %q", buf.String())
	}
}

func TestLogger_BaseDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src", "lib.rs")

	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		Make(&buf, WithTimeLayout("none"), WithPretty(pretty), WithBaseDir(dir)).
			InfoContext(t.Context(), "rewrote source", slog.String("file", path))

		want := "file=" + filepath.Join("src", "lib.rs")
		if !strings.Contains(buf.String(), want) {
			t.Errorf("pretty=%v: expected %q in %q", pretty, want, buf.String())
		}
	}
}

func TestLogger_WithAndWrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf)
	tagged := base.With(slog.String("file", "a.rs"))
	quiet := base.Wrap(WithLevel(LevelError))

	tagged.InfoContext(t.Context(), "one")
	base.InfoContext(t.Context(), "two")
	quiet.InfoContext(t.Context(), "three")

	want := "level=INFO msg=one file=a.rs\nlevel=INFO msg=two\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if quiet.Level() != LevelError || base.Level() != LevelInfo {
		t.Errorf("Wrap changed the original: base=%v quiet=%v", base.Level(), quiet.Level())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.ErrorContext(t.Context(), "dropped")

	if logger.With(slog.Int("n", 1)).Logger != nil {
		t.Error("With on zero Logger should stay zero")
	}

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero Logger should report defaults")
	}

	var buf bytes.Buffer

	wrapped := logger.Wrap(WithLevel(LevelDebug))
	wrapped.DebugContext(t.Context(), "discarded")

	if wrapped.Level() != LevelDebug || buf.Len() != 0 {
		t.Errorf("Wrap of zero Logger should discard at the given level")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithTimeLayout("none"), WithPretty(false))

	for i := range 16 {
		wg.Go(func() {
			logger.With(slog.Int("job", i)).InfoContext(context.Background(), "expanded")
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "msg=expanded"); n != 16 {
		t.Errorf("expected 16 records, got %d", n)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func BenchmarkLogger_InfoContext(b *testing.B) {
	logger := Make(&bytes.Buffer{}, WithPretty(false))
	ctx := context.Background()

	for b.Loop() {
		logger.InfoContext(ctx, "expanded", slog.String("file", "main.rs"))
	}
}
