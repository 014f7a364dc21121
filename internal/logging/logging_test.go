package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		level   zap.AtomicLevel
		enabled bool
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel), true},
		{"INFO", zap.NewAtomicLevelAt(zap.InfoLevel), true},
		{"", zap.NewAtomicLevelAt(zap.WarnLevel), true},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel), true},
		{"off", zap.NewAtomicLevelAt(zap.FatalLevel), false},
	}

	for _, tt := range tests {
		lvl, enabled, err := ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tt.in, err)
		}
		if lvl != tt.level.Level() || enabled != tt.enabled {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, lvl, enabled)
		}
	}

	if _, _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew(t *testing.T) {
	log, err := New("debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(zap.DebugLevel) {
		t.Error("debug logger should enable debug")
	}

	log, err = New("off")
	if err != nil {
		t.Fatalf("New(off): %v", err)
	}
	if log.Core().Enabled(zap.ErrorLevel) {
		t.Error("off logger should be a no-op")
	}

	if _, err := New("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
