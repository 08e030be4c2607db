package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmhttp "github.com/prguardian/prguardian/internal/adapter/llm/http"
)

func TestNewDefaultLogger(t *testing.T) {
	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	assert.NotNil(t, logger)
}

func TestDefaultLogger_RedactAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "full key",
			key:      "azk-1234567890abcdef",
			expected: "[REDACTED-cdef]",
		},
		{
			name:     "short key",
			key:      "abc",
			expected: "[REDACTED]",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "[REDACTED]",
		},
		{
			name:     "4 char key",
			key:      "abcd",
			expected: "[REDACTED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelDebug, llmhttp.LogFormatHuman, true)
			result := logger.RedactAPIKey(tt.key)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDefaultLogger_LogRequest_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelDebug, llmhttp.LogFormatHuman, true)
	logger.LogRequest(context.Background(), llmhttp.RequestLog{
		Provider:    "azure-openai",
		Model:       "gpt-4o",
		Timestamp:   time.Now(),
		PromptChars: 1000,
		APIKey:      "azk-1234567890abcdef",
	})

	output := buf.String()
	assert.Contains(t, output, "[DEBUG]")
	assert.Contains(t, output, "azure-openai")
	assert.Contains(t, output, "gpt-4o")
	assert.Contains(t, output, "1000")
	assert.Contains(t, output, "[REDACTED-cdef]")
	assert.NotContains(t, output, "azk-1234567890abcdef")
}

func TestDefaultLogger_LogRequest_InfoLevel_Skipped(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	logger.LogRequest(context.Background(), llmhttp.RequestLog{
		Provider: "azure-openai",
		APIKey:   "azk-1234567890abcdef",
	})

	assert.Empty(t, buf.String(), "Should not log at Info level")
}

func TestDefaultLogger_LogRequest_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelDebug, llmhttp.LogFormatJSON, true)
	logger.LogRequest(context.Background(), llmhttp.RequestLog{
		Provider:    "azure-openai",
		Model:       "gpt-4o",
		Timestamp:   time.Now(),
		PromptChars: 1000,
		APIKey:      "azk-1234567890abcdef",
	})

	output := buf.String()

	jsonStart := strings.Index(output, "{")
	require.NotEqual(t, -1, jsonStart, "Should contain JSON")

	var logData map[string]interface{}
	err := json.Unmarshal([]byte(output[jsonStart:]), &logData)
	require.NoError(t, err)

	assert.Equal(t, "debug", logData["level"])
	assert.Equal(t, "request", logData["type"])
	assert.Equal(t, "azure-openai", logData["provider"])
	assert.Equal(t, "gpt-4o", logData["model"])
	assert.Equal(t, float64(1000), logData["prompt_chars"])
	assert.Equal(t, "[REDACTED-cdef]", logData["api_key"])
}

func TestDefaultLogger_LogResponse(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	logger.LogResponse(context.Background(), llmhttp.ResponseLog{
		Provider:   "azure-openai",
		Model:      "gpt-4o",
		Timestamp:  time.Now(),
		Duration:   1500 * time.Millisecond,
		StatusCode: 200,
	})

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "azure-openai")
	assert.Contains(t, output, "200")
}

func TestDefaultLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelError, llmhttp.LogFormatHuman, true)
	logger.LogError(context.Background(), llmhttp.ErrorLog{
		Provider:   "azure-openai",
		Timestamp:  time.Now(),
		Error:      llmhttp.NewRateLimitError("azure-openai", "too many requests"),
		StatusCode: 429,
		Retryable:  true,
	})

	output := buf.String()
	assert.Contains(t, output, "[ERROR]")
	assert.Contains(t, output, "429")
	assert.Contains(t, output, "retryable")
}

func TestDefaultLogger_NoRedaction_WhenDisabled(t *testing.T) {
	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelDebug, llmhttp.LogFormatHuman, false)
	assert.Equal(t, "azk-1234567890abcdef", logger.RedactAPIKey("azk-1234567890abcdef"))
}

func TestDefaultLogger_LogWarning_Human(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	logger.LogWarning(context.Background(), "finding references a file outside the diff, skipping", map[string]interface{}{
		"file": "src/other.py",
		"line": 8,
	})

	output := buf.String()
	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "file=src/other.py")
	assert.Contains(t, output, "line=8")
}

func TestDefaultLogger_LogWarning_JSON(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatJSON, true)
	logger.LogWarning(context.Background(), "skipping", map[string]interface{}{
		"file": "a.go",
		"line": 3,
	})

	output := buf.String()
	jsonStart := strings.Index(output, "{")
	require.NotEqual(t, -1, jsonStart)

	var logData map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output[jsonStart:]), &logData))
	assert.Equal(t, "warning", logData["level"])
	assert.Equal(t, "skipping", logData["message"])
	assert.Equal(t, "a.go", logData["file"])
}

func TestDefaultLogger_LogInfo_Human_EmptyFields(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	logger.LogInfo(context.Background(), "done", nil)

	output := buf.String()
	assert.Contains(t, output, "[INFO] done")
	assert.NotContains(t, output, "(")
}

func TestDefaultLogger_LogInfo_RespectsLogLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := llmhttp.NewDefaultLogger(llmhttp.LogLevelError, llmhttp.LogFormatHuman, true)
	logger.LogInfo(context.Background(), "should be suppressed", nil)

	assert.Empty(t, buf.String())
}
