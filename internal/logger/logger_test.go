package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := levelOf(tt.in); got != tt.want {
			t.Errorf("levelOf(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := FromZap(zap.New(core)).With(String("component", "resolver"))

	log.Info("resolved", Bool("fallback", true))
	log.Debug("dropped")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "resolver" {
		t.Errorf("component = %v, want resolver", fields["component"])
	}
	if fields["fallback"] != true {
		t.Errorf("fallback = %v, want true", fields["fallback"])
	}
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	FromZap(zap.New(core)).Named("warmer").Debug("tick")

	entries := logs.All()
	if len(entries) != 1 || entries[0].LoggerName != "warmer" {
		t.Errorf("entries = %+v, want one entry from warmer", entries)
	}
}
