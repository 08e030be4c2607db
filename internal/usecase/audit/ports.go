// Package audit orchestrates the review workflow: fetch a pull request's
// diff, have an analysis provider produce findings, map each finding onto
// its diff position, and submit the surviving comments as a review.
//
// The translation step (Translate) and the position index it consumes are
// pure; all I/O lives behind the ports declared here.
package audit

import (
	"context"
	"time"

	"github.com/prguardian/prguardian/internal/adapter/github"
	"github.com/prguardian/prguardian/internal/domain"
)

// DiffSource supplies the raw unified diff of a pull request.
type DiffSource interface {
	FetchDiff(ctx context.Context, owner, repo string, pullNumber int) (string, error)
}

// Analyzer turns a diff into a review with findings. Implementations live
// under internal/adapter/llm.
type Analyzer interface {
	Analyze(ctx context.Context, diffText string) (domain.Review, error)
}

// ReviewSink submits reviews to the hosting API. It owns authentication,
// retries, and HTTP status handling; the auditor only hands it well-formed
// records.
type ReviewSink interface {
	HeadCommitSHA(ctx context.Context, owner, repo string, pullNumber int) (string, error)
	CreateReview(ctx context.Context, input github.CreateReviewInput) (github.CreateReviewResult, error)
}

// Record describes one completed audit for the history store.
type Record struct {
	Owner           string
	Repo            string
	PullNumber      int
	ReviewID        int64
	Event           string
	Provider        string
	Model           string
	CommentsPosted  int
	CommentsSkipped int
	CreatedAt       time.Time
}

// Store persists audit history. Persistence failures are logged, never
// fatal: the review has already been posted by the time a record is written.
type Store interface {
	RecordAudit(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Logger receives structured diagnostics, including one warning per skipped
// finding.
type Logger interface {
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}
