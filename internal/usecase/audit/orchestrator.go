package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prguardian/prguardian/internal/adapter/github"
	"github.com/prguardian/prguardian/internal/diff"
	"github.com/prguardian/prguardian/internal/domain"
)

// Auditor wires the collaborators together. Construct it once and reuse it;
// it holds no per-request state and is safe for concurrent use across PRs.
type Auditor struct {
	source   DiffSource
	analyzer Analyzer
	sink     ReviewSink
	store    Store // optional
	log      Logger
	policy   EventPolicy

	// BodyPrefix opens the review summary body.
	BodyPrefix string
}

// NewAuditor constructs an Auditor. store may be nil to disable history;
// log may be nil to silence diagnostics.
func NewAuditor(source DiffSource, analyzer Analyzer, sink ReviewSink, store Store, log Logger, policy EventPolicy) *Auditor {
	return &Auditor{
		source:     source,
		analyzer:   analyzer,
		sink:       sink,
		store:      store,
		log:        log,
		policy:     policy,
		BodyPrefix: "PRGuardian AI Review",
	}
}

// Request identifies the pull request to audit and how to submit.
type Request struct {
	Owner      string
	Repo       string
	PullNumber int

	// OverrideEvent, when set, is used instead of the severity policy.
	OverrideEvent github.ReviewEvent

	// DryRun analyzes and translates but never submits.
	DryRun bool
}

// Result reports what the audit did.
type Result struct {
	// Submitted is false for dry runs and for audits where no finding
	// could be mapped into the diff (a valid outcome, not an error).
	Submitted bool

	ReviewID int64
	HTMLURL  string
	Event    github.ReviewEvent

	Provider string
	Model    string
	Summary  string

	FindingsTotal   int
	CommentsSkipped int

	// Comments are the translated records, also populated on dry runs so
	// callers can render the would-be payload.
	Comments []github.ReviewComment
}

// AuditPullRequest runs the full workflow against one pull request.
func (a *Auditor) AuditPullRequest(ctx context.Context, req Request) (Result, error) {
	diffText, err := a.source.FetchDiff(ctx, req.Owner, req.Repo, req.PullNumber)
	if err != nil {
		return Result{}, err
	}

	result, kept, err := a.analyze(ctx, diffText)
	if err != nil {
		return Result{}, err
	}

	if len(result.Comments) == 0 {
		a.info(ctx, "no findings mapped into the diff, skipping submission", map[string]interface{}{
			"owner": req.Owner, "repo": req.Repo, "pull": req.PullNumber,
			"findings": result.FindingsTotal,
		})
		return result, nil
	}

	result.Event = req.OverrideEvent
	if result.Event == "" {
		result.Event = a.policy.DetermineEvent(kept)
	}

	if req.DryRun {
		return result, nil
	}

	sha, err := a.sink.HeadCommitSHA(ctx, req.Owner, req.Repo, req.PullNumber)
	if err != nil {
		return Result{}, err
	}

	created, err := a.sink.CreateReview(ctx, github.CreateReviewInput{
		Owner:      req.Owner,
		Repo:       req.Repo,
		PullNumber: req.PullNumber,
		CommitSHA:  sha,
		Event:      result.Event,
		Body:       a.reviewBody(result.Summary, kept),
		Comments:   result.Comments,
	})
	if err != nil {
		return Result{}, err
	}

	result.Submitted = true
	result.ReviewID = created.ID
	result.HTMLURL = created.HTMLURL

	a.recordAudit(ctx, req, result)
	return result, nil
}

// PreviewDiff runs analysis and translation over an already-obtained diff
// without touching the hosting API. Used by the local preview command and
// by dry runs.
func (a *Auditor) PreviewDiff(ctx context.Context, diffText string) (Result, error) {
	result, kept, err := a.analyze(ctx, diffText)
	if err != nil {
		return Result{}, err
	}
	result.Event = a.policy.DetermineEvent(kept)
	return result, nil
}

// analyze is the shared middle of the pipeline: analyzer call, indexing,
// translation.
func (a *Auditor) analyze(ctx context.Context, diffText string) (Result, []domain.Finding, error) {
	review, err := a.analyzer.Analyze(ctx, diffText)
	if err != nil {
		return Result{}, nil, fmt.Errorf("analyze diff: %w", err)
	}

	index := diff.Index(diffText)
	comments, kept := translate(ctx, review.Findings, index, a.log)

	return Result{
		Provider:        review.ProviderName,
		Model:           review.ModelName,
		Summary:         review.Summary,
		FindingsTotal:   len(review.Findings),
		CommentsSkipped: len(review.Findings) - len(comments),
		Comments:        comments,
	}, kept, nil
}

// reviewBody builds the summary body: prefix, severity tally, and the
// provider's own summary when it gave one.
func (a *Auditor) reviewBody(summary string, kept []domain.Finding) string {
	var sb strings.Builder
	sb.WriteString(a.BodyPrefix)

	counts := domain.CountBySeverity(kept)
	if len(counts) > 0 {
		severities := make([]string, 0, len(counts))
		for s := range counts {
			severities = append(severities, s)
		}
		sort.Strings(severities)

		parts := make([]string, 0, len(severities))
		for _, s := range severities {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
		sb.WriteString(": ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if summary != "" {
		sb.WriteString("\n\n")
		sb.WriteString(summary)
	}
	return sb.String()
}

func (a *Auditor) recordAudit(ctx context.Context, req Request, res Result) {
	if a.store == nil {
		return
	}
	err := a.store.RecordAudit(ctx, Record{
		Owner:           req.Owner,
		Repo:            req.Repo,
		PullNumber:      req.PullNumber,
		ReviewID:        res.ReviewID,
		Event:           string(res.Event),
		Provider:        res.Provider,
		Model:           res.Model,
		CommentsPosted:  len(res.Comments),
		CommentsSkipped: res.CommentsSkipped,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil && a.log != nil {
		a.log.LogWarning(ctx, "failed to record audit history", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (a *Auditor) info(ctx context.Context, message string, fields map[string]interface{}) {
	if a.log == nil {
		return
	}
	a.log.LogInfo(ctx, message, fields)
}
