package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   slog.Level
		wantOK bool
	}{
		{name: "debug level", input: "debug", want: slog.LevelDebug, wantOK: true},
		{name: "info level", input: "info", want: slog.LevelInfo, wantOK: true},
		{name: "warn level", input: "warn", want: slog.LevelWarn, wantOK: true},
		{name: "error level", input: "error", want: slog.LevelError, wantOK: true},
		{name: "case insensitive DEBUG", input: "DEBUG", want: slog.LevelDebug, wantOK: true},
		{name: "invalid level defaults to info", input: "invalid", want: slog.LevelInfo, wantOK: false},
		{name: "empty level defaults to info", input: "", want: slog.LevelInfo, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSetupInstallsDefault(t *testing.T) {
	Setup("debug")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	Setup("error")
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))

	Setup("info")
	assert.NotNil(t, slog.Default())
}

func TestAdapterDoesNotPanic(t *testing.T) {
	Setup("debug")
	l := With(NewSlogAdapter(), "provider", "ankr")

	assert.NotPanics(t, func() {
		l.Debug("debug message", "k", 1)
		l.Info("info message")
		l.Warn("warn message", "k", "v")
		l.Error("error message", "error", assert.AnError)
	})
}
