package audit

import (
	"fmt"
	"strings"

	"github.com/prguardian/prguardian/internal/adapter/github"
	"github.com/prguardian/prguardian/internal/domain"
)

// EventPolicy maps the worst surviving severity to a review event.
// Severities rank error > warning > everything else; findings that are
// neither error nor warning are treated as non-blocking and fall through to
// OnClean, as does an empty comment set.
type EventPolicy struct {
	OnError   github.ReviewEvent
	OnWarning github.ReviewEvent
	OnClean   github.ReviewEvent
}

// DefaultEventPolicy comments in every case, matching the behavior of a bot
// that should never block merges unless the operator opts in.
func DefaultEventPolicy() EventPolicy {
	return EventPolicy{
		OnError:   github.EventComment,
		OnWarning: github.EventComment,
		OnClean:   github.EventComment,
	}
}

// ParseEventAction converts a config action string (comment, approve,
// request_changes) to a review event.
func ParseEventAction(action string) (github.ReviewEvent, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "", "comment":
		return github.EventComment, nil
	case "approve":
		return github.EventApprove, nil
	case "request_changes", "request-changes":
		return github.EventRequestChanges, nil
	default:
		return "", fmt.Errorf("unknown review action %q", action)
	}
}

// DetermineEvent picks the event for the given surviving findings.
func (p EventPolicy) DetermineEvent(findings []domain.Finding) github.ReviewEvent {
	hasWarning := false
	for _, f := range findings {
		switch domain.NormalizeSeverity(f.Severity) {
		case domain.SeverityError:
			return p.OnError
		case domain.SeverityWarning:
			hasWarning = true
		}
	}
	if hasWarning {
		return p.OnWarning
	}
	return p.OnClean
}
