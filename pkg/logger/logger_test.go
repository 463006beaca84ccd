package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAppLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerWithCore(core)

	l.Debug("hidden", "k", "v")
	l.Info("request served", "status", 200, "path", "/simplify")
	l.Error("generation failed", errors.New("timeout"), "request_id", "abc")

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries above debug level, got %d", len(entries))
	}

	info := entries[0].ContextMap()
	if info["path"] != "/simplify" {
		t.Fatalf("expected path field, got %v", info)
	}

	errEntry := entries[1]
	if errEntry.Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", errEntry.Level)
	}
	ctx := errEntry.ContextMap()
	if ctx["request_id"] != "abc" {
		t.Fatalf("expected request_id field, got %v", ctx)
	}
	if ctx["error"] != "timeout" {
		t.Fatalf("expected error field, got %v", ctx["error"])
	}
}
