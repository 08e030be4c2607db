package audit

import (
	"context"

	"github.com/prguardian/prguardian/internal/adapter/github"
	"github.com/prguardian/prguardian/internal/diff"
	"github.com/prguardian/prguardian/internal/domain"
)

// Translate converts findings into review comments using the position
// index. Findings whose file is not in the diff, or whose line has no diff
// position (unchanged context outside a hunk, a pure deletion, or a bogus
// line number), are skipped with a diagnostic; the rest of the batch is
// unaffected. Output order matches input order and duplicates are kept:
// two findings on the same line become two comments.
//
// The inputs are not modified and no other side effects occur. The logger
// may be nil when diagnostics are unwanted.
func Translate(findings []domain.Finding, index diff.PositionIndex, log Logger) []github.ReviewComment {
	comments, _ := translate(context.Background(), findings, index, log)
	return comments
}

// translate additionally returns the findings that survived, which the
// orchestrator needs to pick the review event.
func translate(ctx context.Context, findings []domain.Finding, index diff.PositionIndex, log Logger) ([]github.ReviewComment, []domain.Finding) {
	comments := make([]github.ReviewComment, 0, len(findings))
	kept := make([]domain.Finding, 0, len(findings))

	for _, f := range findings {
		if !index.HasFile(f.File) {
			warn(ctx, log, "finding references a file outside the diff, skipping", f)
			continue
		}
		position, ok := index.Position(f.File, f.Line)
		if !ok {
			warn(ctx, log, "finding references a line outside the diff changes, skipping", f)
			continue
		}

		comments = append(comments, github.ReviewComment{
			Path:     f.File,
			Position: position,
			Body:     domain.SeverityTag(f.Severity) + " " + f.Comment,
		})
		kept = append(kept, f)
	}

	return comments, kept
}

func warn(ctx context.Context, log Logger, message string, f domain.Finding) {
	if log == nil {
		return
	}
	log.LogWarning(ctx, message, map[string]interface{}{
		"file": f.File,
		"line": f.Line,
	})
}
