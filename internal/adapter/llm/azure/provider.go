package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/prguardian/prguardian/internal/domain"
)

const reviewTemperature = 0.2

const systemPrompt = `You are a senior software engineer performing a code review.
Review the unified diff below and report problems on the added or changed lines only.
Respond with a JSON array of findings, each an object with these fields:
  "file_path": the new-side path of the file as it appears in the diff
  "line_number": the new-side line number the finding refers to
  "severity": one of "error", "warning", "info"
  "comment": a short, actionable review comment
Optionally you may instead respond with a JSON object containing "summary" (string)
and "findings" (the array described above).
Do not report findings on deleted lines. Respond with JSON only.`

// Provider sends diffs to an Azure OpenAI deployment and parses the
// findings it returns. It implements the analyzer port.
type Provider struct {
	client *HTTPClient
}

// NewProvider constructs a Provider around the given client.
func NewProvider(client *HTTPClient) *Provider {
	return &Provider{client: client}
}

// Analyze asks the deployment to review the diff.
func (p *Provider) Analyze(ctx context.Context, diffText string) (domain.Review, error) {
	if p.client == nil {
		return domain.Review{}, fmt.Errorf("azure client missing")
	}

	apiResp, err := p.client.Call(ctx, diffText, CallOptions{
		System:      systemPrompt,
		Temperature: reviewTemperature,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("azure: %w", err)
	}

	model := apiResp.Model
	if model == "" {
		model = p.client.deployment
	}

	summary, findings, err := parseFindingsJSON(apiResp.Text)
	if err != nil {
		// The model ignored the format instructions. Keep the text as a
		// summary rather than failing the audit.
		return domain.Review{
			ProviderName: providerName,
			ModelName:    model,
			Summary:      strings.TrimSpace(apiResp.Text),
			Findings:     []domain.Finding{},
		}, nil
	}

	return domain.Review{
		ProviderName: providerName,
		ModelName:    model,
		Summary:      summary,
		Findings:     findings,
	}, nil
}

var fencedJSONPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// parseFindingsJSON extracts the findings from the response text. The model
// may wrap the JSON in markdown code fences, and may answer either with a
// bare array of findings or with a {summary, findings} object.
func parseFindingsJSON(text string) (string, []domain.Finding, error) {
	jsonText := strings.TrimSpace(text)
	if matches := fencedJSONPattern.FindStringSubmatch(text); len(matches) > 1 {
		jsonText = strings.TrimSpace(matches[1])
	}

	if strings.HasPrefix(jsonText, "[") {
		var findings []domain.Finding
		if err := json.Unmarshal([]byte(jsonText), &findings); err != nil {
			return "", nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return "", findings, nil
	}

	var result struct {
		Summary  string           `json:"summary"`
		Findings []domain.Finding `json:"findings"`
	}
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return "", nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return result.Summary, result.Findings, nil
}
