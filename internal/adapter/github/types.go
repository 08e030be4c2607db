package github

// GitHub Pull Request Reviews API vocabulary.
// See: https://docs.github.com/en/rest/pulls/reviews#create-a-review-for-a-pull-request

// ReviewEvent represents the action to take when submitting a review.
type ReviewEvent string

const (
	// EventComment submits the review without approval.
	EventComment ReviewEvent = "COMMENT"

	// EventApprove approves the pull request.
	EventApprove ReviewEvent = "APPROVE"

	// EventRequestChanges requests changes to the pull request.
	EventRequestChanges ReviewEvent = "REQUEST_CHANGES"
)

// Valid reports whether the event is one of the accepted dispositions.
func (e ReviewEvent) Valid() bool {
	switch e {
	case EventComment, EventApprove, EventRequestChanges:
		return true
	}
	return false
}

// ReviewComment is one inline comment anchored to a diff position. It is the
// unit the translator produces: created once per mappable finding, immutable,
// collected in finding order.
type ReviewComment struct {
	// Path is the post-image path of the file to comment on.
	Path string `json:"path"`

	// Position is the 1-indexed line offset from the file's first @@ header.
	Position int `json:"position"`

	// Body is the comment text (GitHub-flavored Markdown).
	Body string `json:"body"`
}

// CreateReviewInput contains all data needed to create a PR review.
type CreateReviewInput struct {
	Owner      string
	Repo       string
	PullNumber int

	// CommitSHA anchors the review; GitHub expects the PR's head commit.
	CommitSHA string

	Event    ReviewEvent
	Body     string
	Comments []ReviewComment
}

// CreateReviewResult reports the review GitHub created.
type CreateReviewResult struct {
	ID      int64
	State   string
	HTMLURL string
}
