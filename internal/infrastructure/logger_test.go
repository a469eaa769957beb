package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"salesreport/internal/config"
)

// captureConsole redirects console logs into a buffer for the test
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := consoleOutput
	consoleOutput = &buf
	t.Cleanup(func() { consoleOutput = prev })
	return &buf
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	console := captureConsole(t)
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Output:   "both",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")

	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}

	if !strings.Contains(console.String(), "test message") {
		t.Error("Expected console copy of the log line")
	}
}

func TestInitializeLogger_FileWithoutPath(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file"})
	if err == nil {
		t.Fatal("Expected error for empty log file path")
	}
}

func TestRunIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	ctx := WithRunID(context.Background(), "run-123")
	WithComponent(logger, "loader").InfoContext(ctx, "test with run")
	logger.InfoContext(context.Background(), "no run")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var first, second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if first["run_id"] != "run-123" {
		t.Errorf("Expected run_id='run-123', got %v", first["run_id"])
	}
	if first["component"] != "loader" {
		t.Errorf("Expected component='loader', got %v", first["component"])
	}
	if _, ok := second["run_id"]; ok {
		t.Error("Expected no run_id without one in context")
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, nil)

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02},
		SpanID:  trace.SpanID{0x03},
	})
	ctx := trace.ContextWithSpanContext(WithRunID(context.Background(), "run-9"), spanCtx)
	logger.InfoContext(ctx, "inside span")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if entry["trace_id"] != spanCtx.TraceID().String() {
		t.Errorf("Expected trace_id=%s, got %v", spanCtx.TraceID(), entry["trace_id"])
	}
	if entry["run_id"] != "run-9" {
		t.Errorf("Expected run_id='run-9', got %v", entry["run_id"])
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLogLevel(tt.level); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" {
		t.Error("Expected empty run ID")
	}
	//nolint:staticcheck // nil context is tolerated
	if GetRunID(nil) != "" {
		t.Error("Expected empty run ID for nil context")
	}

	ctx = EnsureRunID(ctx)
	runID := GetRunID(ctx)
	if runID == "" {
		t.Fatal("EnsureRunID did not set a run ID")
	}
	if GetRunID(EnsureRunID(ctx)) != runID {
		t.Error("EnsureRunID replaced an existing run ID")
	}

	if GenerateRunID() == GenerateRunID() {
		t.Error("Expected unique run IDs")
	}
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, nil)

	WithError(WithComponent(logger, "cleaner"), errors.New("bad row")).Info("failed")
	if WithError(logger, nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if entry["component"] != "cleaner" {
		t.Errorf("Expected component='cleaner', got %v", entry["component"])
	}
	if entry["error"] != "bad row" {
		t.Errorf("Expected error='bad row', got %v", entry["error"])
	}

	if WithComponent(nil, "x") == nil {
		t.Error("WithComponent(nil) returned nil")
	}
}
