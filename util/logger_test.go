package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(3) // debug level
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Error("e")
	l.Warn("w")
	l.Info("i")
	l.Verbose("v")
	l.Debug("d")

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), output)
	}

	wantPrefixes := []string{"[ERR]", "[WRN]", "[INF]", "[VRB]", "[DBG]"}
	for i, prefix := range wantPrefixes {
		if !strings.Contains(lines[i], prefix) {
			t.Errorf("line %d %q missing prefix %q", i, lines[i], prefix)
		}
	}
}

func TestLogger_QuietMode(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(0) // quiet
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Info("should not appear")
	l.Verbose("should not appear")
	l.Debug("should not appear")
	l.Error("always appears")

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("expected 1 line in quiet mode, got %d:\n%s", len(lines), output)
	}
}

func TestLogger_Timestamps(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)
	l.SetTimestamps(true)

	l.Info("test")

	output := buf.String()
	// Timestamp format is "HH:MM:SS.mmm"
	if !strings.Contains(output, ":") || len(output) < 15 {
		t.Errorf("expected timestamp prefix, got %q", output)
	}
}

func TestLogger_PercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)

	msg := "progress 100%"
	l.Info(msg)

	if got := strings.TrimSpace(buf.String()); got != "[INF] progress 100%" {
		t.Errorf("got %q", got)
	}
}

func TestScopedLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)

	log := l.NewLogger("sdp")
	log.Infof("attempt=%d/%d status=%d", 2, 10, 404)
	log.Warn("not ready")

	output := buf.String()
	if !strings.Contains(output, "[INF] sdp: attempt=2/10 status=404") {
		t.Errorf("missing scoped info line:\n%s", output)
	}
	if !strings.Contains(output, "[WRN] sdp: not ready") {
		t.Errorf("missing scoped warn line:\n%s", output)
	}
}

func TestScopedLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		verbosity int
		wantLines int
	}{
		{0, 1}, // Error only
		{1, 3}, // + Info, Warn
		{2, 4}, // + Debug
		{3, 5}, // + Trace
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		l := NewLogger(tt.verbosity)
		l.SetOutput(&buf)
		l.SetTimestamps(false)

		log := l.NewLogger("x")
		log.Trace("t")
		log.Debug("d")
		log.Info("i")
		log.Warn("w")
		log.Error("e")

		got := len(strings.Split(strings.TrimSpace(buf.String()), "\n"))
		if got != tt.wantLines {
			t.Errorf("verbosity %d: got %d lines, want %d:\n%s", tt.verbosity, got, tt.wantLines, buf.String())
		}
	}
}
