package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo)
	ctx := context.Background()

	log.Debug(ctx, "dropped")
	log.Info(ctx, "hello", "k", "v")
	log.Warn(ctx, "careful")
	log.Error(ctx, "boom")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "k=v")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "boom")
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo)

	child := log.With("component", "uploader")
	require.NotNil(t, child)
	child.Info(context.Background(), "msg")

	assert.Contains(t, buf.String(), "component=uploader")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}
