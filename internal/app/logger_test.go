package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/heartmarshall/emakua-backend/internal/config"
)

func testLogger(buf *bytes.Buffer, cfg config.LogConfig) *slog.Logger {
	return slog.New(newHandler(buf, cfg))
}

func TestNewLogger_SetsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	if slog.Default().Handler() != logger.Handler() {
		t.Error("NewLogger should install the returned logger as slog default")
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	testLogger(&buf, config.LogConfig{Level: "info", Format: "json"}).Info("mensagem")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("json format should produce valid JSON: %v", err)
	}
	if m["msg"] != "mensagem" {
		t.Errorf("msg = %v, want mensagem", m["msg"])
	}
	if _, ok := m["source"]; ok {
		t.Error("json format should not include source")
	}
}

func TestLogger_TextFormatAddsSource(t *testing.T) {
	var buf bytes.Buffer
	testLogger(&buf, config.LogConfig{Level: "info", Format: "text"}).Info("hello")

	if !strings.Contains(buf.String(), "source=") {
		t.Error("text format should include the source location")
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := testLogger(&buf, config.LogConfig{Level: tt.level, Format: "text"})

			logger.Log(context.TODO(), tt.want, "should appear")
			if buf.Len() == 0 {
				t.Fatalf("expected output at level %v", tt.want)
			}

			buf.Reset()
			logger.Log(context.TODO(), tt.want-1, "should be suppressed")
			if buf.Len() != 0 {
				t.Errorf("level %v should suppress %v, got: %s", tt.want, tt.want-1, buf.String())
			}
		})
	}
}
