package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func plain(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}).SetColor(false))
}

func TestNewFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, `"region":"r.0.0.mca"`},
		{FormatText, `region=r.0.0.mca`},
		{FormatPretty, `region=r.0.0.mca`},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		New(&buf, tc.format, slog.LevelInfo).Info("trimmed", "region", "r.0.0.mca")
		if !strings.Contains(buf.String(), tc.want) {
			t.Fatalf("%s output mismatch: got %q want substring %q", tc.format, buf.String(), tc.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, slog.LevelWarn)
	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn message in output, got: %s", buf.String())
	}
}

func TestWithAndGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, slog.LevelInfo).With("run", "abc").WithGroup("file")
	log.Info("done", "kept", 3)

	out := buf.String()
	if !strings.Contains(out, `"run":"abc"`) || !strings.Contains(out, `"file":{"kept":3}`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	log.Error("nothing")
	log.With("k", "v").WithGroup("g").Info("still nothing")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), New(&buf, FormatJSON, slog.LevelInfo))
	FromContext(ctx).Info("roundtrip")
	if !strings.Contains(buf.String(), "roundtrip") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
		err   bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.input)
		if (err != nil) != tc.err {
			t.Fatalf("ParseLevel(%q) error mismatch: got %v want error=%v", tc.input, err, tc.err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) mismatch: got %v want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"": FormatPretty, "JSON": FormatJSON, "text": FormatText, "pretty": FormatPretty} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) mismatch: got %q, %v want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPrettyLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	plain(&buf, slog.LevelDebug).Debug("scan", "dir", "DIM-1/region", "files", 4, "took", 1500*time.Millisecond)

	line := buf.String()
	if !strings.HasSuffix(line, " DBG scan dir=DIM-1/region files=4 took=1.5s\n") {
		t.Fatalf("pretty line mismatch: got %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Fatalf("expected no colors, got %q", line)
	}
}

func TestPrettyColor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil).SetColor(true)).Error("boom")
	if !strings.Contains(buf.String(), ansiRed+"ERR"+ansiReset) {
		t.Fatalf("expected colored level, got %q", buf.String())
	}
}

func TestPrettyEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelWarn) || !h.Enabled(ctx, slog.LevelError) {
		t.Error("expected warn and error to be enabled at warn level")
	}
}

func TestPrettyGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).SetColor(false)

	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("run", "r1")}).WithGroup("a").WithGroup("b"))
	log.Info("nested", "key", "val", slog.Group("g", "x", 1))

	out := buf.String()
	for _, want := range []string{"run=r1", "a.b.key=val", "a.b.g.x=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
	if h.WithGroup("") != h {
		t.Fatal("WithGroup with empty name should return the same handler")
	}
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	plain(&buf, slog.LevelInfo).Info("x", "msg", "hello world", "simple", "ok", "err", errors.New("bad thing"))

	out := buf.String()
	for _, want := range []string{`msg="hello world"`, "simple=ok", `err="bad thing"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"simple", false},
		{"has space", true},
		{"has\ttab", true},
		{`has"quote`, true},
		{"k=v", true},
		{"", false},
	}
	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.want {
			t.Errorf("needsQuoting(%q) mismatch: got %v want %v", tc.input, got, tc.want)
		}
	}
}
