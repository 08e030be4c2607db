// Package github wraps the GitHub REST API surface the auditor needs: raw
// diff retrieval, head commit discovery, and review submission. All parsing
// and mapping stays out of this package; it moves plain data in and out.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v58/github"
)

// ErrEmptyDiff is returned when GitHub hands back a blank diff for an
// existing pull request. The caller surfaces it instead of retrying: a PR
// with no diffable content has nothing to review.
var ErrEmptyDiff = errors.New("github: pull request diff is empty")

// Client talks to the GitHub API for a single repository host.
type Client struct {
	gh *gogithub.Client
}

// NewClient wraps an authenticated HTTP client (see auth.go) in a GitHub
// API client.
func NewClient(httpClient *http.Client) *Client {
	return &Client{gh: gogithub.NewClient(httpClient)}
}

// SetBaseURL points the client at a different API host (for tests and
// GitHub Enterprise). The URL must be parseable; a trailing slash is added
// when missing because go-github requires one.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	c.gh.BaseURL = u
	return nil
}

// FetchDiff retrieves the unified diff of a pull request by requesting the
// PR endpoint with the diff media type. An empty body is reported as
// ErrEmptyDiff so the workflow can stop before calling the analyzer.
func (c *Client) FetchDiff(ctx context.Context, owner, repo string, pullNumber int) (string, error) {
	raw, _, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, pullNumber,
		gogithub.RawOptions{Type: gogithub.Diff})
	if err != nil {
		return "", fmt.Errorf("fetch diff for %s/%s#%d: %w", owner, repo, pullNumber, err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%s/%s#%d: %w", owner, repo, pullNumber, ErrEmptyDiff)
	}
	return raw, nil
}

// HeadCommitSHA returns the SHA of the pull request's latest commit, which
// anchors the submitted review.
func (c *Client) HeadCommitSHA(ctx context.Context, owner, repo string, pullNumber int) (string, error) {
	commits, _, err := c.gh.PullRequests.ListCommits(ctx, owner, repo, pullNumber,
		&gogithub.ListOptions{PerPage: 100})
	if err != nil {
		return "", fmt.Errorf("list commits for %s/%s#%d: %w", owner, repo, pullNumber, err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("%s/%s#%d has no commits", owner, repo, pullNumber)
	}
	return commits[len(commits)-1].GetSHA(), nil
}

// CreateReview submits a review with inline comments. GitHub rejects the
// whole review when any comment's position falls outside the diff or its
// path is not part of the diff (HTTP 422); honoring the position index
// upstream is what keeps this call from failing.
func (c *Client) CreateReview(ctx context.Context, input CreateReviewInput) (CreateReviewResult, error) {
	comments := make([]*gogithub.DraftReviewComment, 0, len(input.Comments))
	for _, rc := range input.Comments {
		comments = append(comments, &gogithub.DraftReviewComment{
			Path:     gogithub.String(rc.Path),
			Position: gogithub.Int(rc.Position),
			Body:     gogithub.String(rc.Body),
		})
	}

	req := &gogithub.PullRequestReviewRequest{
		CommitID: gogithub.String(input.CommitSHA),
		Body:     gogithub.String(input.Body),
		Event:    gogithub.String(string(input.Event)),
		Comments: comments,
	}

	review, _, err := c.gh.PullRequests.CreateReview(ctx, input.Owner, input.Repo, input.PullNumber, req)
	if err != nil {
		return CreateReviewResult{}, fmt.Errorf("create review for %s/%s#%d: %w",
			input.Owner, input.Repo, input.PullNumber, err)
	}

	return CreateReviewResult{
		ID:      review.GetID(),
		State:   review.GetState(),
		HTMLURL: review.GetHTMLURL(),
	}, nil
}
