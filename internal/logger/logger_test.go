package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func resetLogger() {
	defaultLogger = nil
	once = *new(sync.Once)
}

func TestLevelFiltering(t *testing.T) {
	resetLogger()

	var buf bytes.Buffer
	Init("warn")
	SetOutput(&buf)
	SetColorEnable(false)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message should be filtered at warn level")
	}
	if strings.Contains(out, "info message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message not logged")
	}
	if !strings.Contains(out, "error message") {
		t.Error("error message not logged")
	}
	if strings.Contains(out, "\033[") {
		t.Error("output contains ANSI color codes with color disabled")
	}
}

func TestSetLevel(t *testing.T) {
	resetLogger()

	var buf bytes.Buffer
	Init("error")
	SetOutput(&buf)
	SetColorEnable(false)

	Info("before")
	SetLevel("debug")
	Info("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("info message logged at error level")
	}
	if !strings.Contains(out, "after") {
		t.Error("info message not logged after lowering the level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"Warning": WARN,
		"error":   ERROR,
		"fatal":   FATAL,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
