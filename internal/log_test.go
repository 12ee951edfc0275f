package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{level: level, out: log.New(&buf, "", 0)}, &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"ERROR", LogLevelError},
		{"warn", LogLevelWarn},
		{"Info", LogLevelInfo},
		{"DEBUG", LogLevelDebug},
		{"verbose", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, test := range tests {
		if got := ParseLogLevel(test.in); got != test.want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", test.in, got, test.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	l, buf := captureLogger(LogLevelWarn)
	l.Debug("routing detail")
	l.Info("round played")
	l.Warn("escalated")
	l.Error("save failed")

	out := buf.String()
	if strings.Contains(out, "routing detail") || strings.Contains(out, "round played") {
		t.Errorf("messages above the configured level leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] escalated") || !strings.Contains(out, "[ERROR] save failed") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}
