package logging

import (
	"sync"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		expected LogLevel
	}{
		{"Debug via LOG_LEVEL", "LOG_LEVEL", "debug", LevelDebug},
		{"Info via LOG_LEVEL", "LOG_LEVEL", "info", LevelInfo},
		{"Warn via LOG_LEVEL", "LOG_LEVEL", "warn", LevelWarn},
		{"Warning alias", "LOG_LEVEL", "warning", LevelWarn},
		{"Error via LOG_LEVEL", "LOG_LEVEL", "error", LevelError},
		{"Case insensitive", "LOG_LEVEL", "DEBUG", LevelDebug},
		{"Invalid defaults to info", "LOG_LEVEL", "bogus", LevelInfo},
		{"DEBUG shortcut", "DEBUG", "true", LevelDebug},
		{"DEBUG off ignored", "DEBUG", "false", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// initLevel runs through a sync.Once, so reset it per case
			levelOnce = sync.Once{}
			t.Setenv(tt.envVar, tt.envValue)

			if got := GetLevel(); got != tt.expected {
				t.Errorf("GetLevel() = %v, want %v", got, tt.expected)
			}
		})
	}

	levelOnce = sync.Once{}
}

func TestIsDebugEnabled(t *testing.T) {
	levelOnce = sync.Once{}
	t.Setenv("LOG_LEVEL", "debug")
	if !IsDebugEnabled() {
		t.Error("Expected debug to be enabled with LOG_LEVEL=debug")
	}

	levelOnce = sync.Once{}
	t.Setenv("LOG_LEVEL", "info")
	if IsDebugEnabled() {
		t.Error("Expected debug to be disabled with LOG_LEVEL=info")
	}

	levelOnce = sync.Once{}
}
