// Package static provides a mock analyzer that returns a static,
// pre-determined review. This is useful for exercising the audit pipeline
// and the CLI without making live API calls.
package static

import (
	"context"

	"github.com/prguardian/prguardian/internal/domain"
)

const providerName = "static"

// Provider implements the analyzer port with canned findings.
type Provider struct {
	model    string
	findings []domain.Finding
}

// NewProvider constructs a static Provider. When findings is nil, a
// single default finding is used.
func NewProvider(model string, findings []domain.Finding) *Provider {
	if findings == nil {
		findings = []domain.Finding{
			{
				File:     "internal/adapter/llm/static/provider.go",
				Line:     1,
				Severity: domain.SeverityInfo,
				Comment:  "This is a static finding.",
			},
		}
	}
	return &Provider{
		model:    model,
		findings: findings,
	}
}

// Analyze returns the canned review regardless of the diff.
func (p *Provider) Analyze(ctx context.Context, diffText string) (domain.Review, error) {
	return domain.Review{
		ProviderName: providerName,
		ModelName:    p.model,
		Summary:      "This is a static review from a mock provider.",
		Findings:     p.findings,
	}, nil
}
