package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestInitAndNew(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf)
	defer Init(&bytes.Buffer{})

	New("books").Info("listed", "count", 2)
	out := buf.String()
	assert.Contains(t, out, "component=books")
	assert.Contains(t, out, "count=2")

	assert.NotNil(t, New(""))
	Discard().Error("dropped")
}
