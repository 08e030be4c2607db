package observability

import (
	"context"

	llmhttp "github.com/prguardian/prguardian/internal/adapter/llm/http"
	"github.com/prguardian/prguardian/internal/usecase/audit"
)

// AuditLogger adapts llmhttp.Logger to the audit.Logger interface so the
// orchestrator shares the same structured logging infrastructure as the
// LLM HTTP clients.
type AuditLogger struct {
	logger llmhttp.Logger
}

// NewAuditLogger creates a new audit logger adapter.
func NewAuditLogger(logger llmhttp.Logger) audit.Logger {
	return &AuditLogger{logger: logger}
}

// LogWarning logs a warning message with structured fields.
func (l *AuditLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *AuditLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}
