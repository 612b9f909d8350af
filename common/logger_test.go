package common

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityDebug, "DEBUG"},
		{SeverityInfo, "INFO"},
		{SeverityWarning, "WARNING"},
		{SeverityError, "ERROR"},
		{Severity(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestStdLoggerMinLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l := NewStdLoggerWithWriter(&stdout, &stderr, SeverityWarning)

	l.Debug("debug message")
	l.Info("info message")
	l.Warning("warning message")
	l.Error(errors.New("error message"))

	out := stdout.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below min level were logged: %q", out)
	}
	if !strings.Contains(out, "warning message") {
		t.Errorf("warning message missing from stdout: %q", out)
	}
	if !strings.Contains(stderr.String(), "error message") {
		t.Errorf("error message missing from stderr: %q", stderr.String())
	}
}

func TestStdLoggerLogf(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l := NewStdLoggerWithWriter(&stdout, &stderr, SeverityDebug)

	l.Logf(SeverityInfo, "loaded %d structs", 7)
	if !strings.Contains(stdout.String(), "loaded 7 structs") {
		t.Errorf("Logf output = %q", stdout.String())
	}
}

func TestStdLoggerNilError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l := NewStdLoggerWithWriter(&stdout, &stderr, SeverityDebug)

	l.Error(nil)
	if stderr.Len() != 0 {
		t.Errorf("Error(nil) produced output: %q", stderr.String())
	}
}

func TestNoOpLogger(t *testing.T) {
	// Must not panic on any method.
	l := NewNoOpLogger()
	l.Log(SeverityError, "msg")
	l.Logf(SeverityError, "msg %d", 1)
	l.Debug("msg")
	l.Info("msg")
	l.Warning("msg")
	l.Error(errors.New("msg"))
}
