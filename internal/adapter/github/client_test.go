package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(nil)
	require.NoError(t, client.SetBaseURL(server.URL))
	return client
}

func TestFetchDiff(t *testing.T) {
	const diffText = "diff --git a/src/config.py b/src/config.py\n@@ -1,1 +1,2 @@\n line\n+added\n"

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/pulls/42", r.URL.Path)
		assert.Contains(t, r.Header.Get("Accept"), "diff")
		w.Write([]byte(diffText))
	}))

	got, err := client.FetchDiff(context.Background(), "octocat", "hello-world", 42)
	require.NoError(t, err)
	assert.Equal(t, diffText, got)
}

func TestFetchDiffEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   \n"))
	}))

	_, err := client.FetchDiff(context.Background(), "octocat", "hello-world", 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDiff))
}

func TestFetchDiffNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))

	_, err := client.FetchDiff(context.Background(), "octocat", "hello-world", 9999)
	require.Error(t, err)
}

func TestHeadCommitSHA(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/pulls/42/commits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"sha":"first111"},{"sha":"second222"},{"sha":"head333"}]`))
	}))

	sha, err := client.HeadCommitSHA(context.Background(), "octocat", "hello-world", 42)
	require.NoError(t, err)
	assert.Equal(t, "head333", sha)
}

func TestHeadCommitSHANoCommits(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	_, err := client.HeadCommitSHA(context.Background(), "octocat", "hello-world", 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no commits")
}

func TestCreateReview(t *testing.T) {
	var gotBody map[string]interface{}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/octocat/hello-world/pulls/42/reviews", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":101,"state":"COMMENTED","html_url":"https://github.com/octocat/hello-world/pull/42#pullrequestreview-101"}`))
	}))

	result, err := client.CreateReview(context.Background(), CreateReviewInput{
		Owner:      "octocat",
		Repo:       "hello-world",
		PullNumber: 42,
		CommitSHA:  "head333",
		Event:      EventComment,
		Body:       "PRGuardian AI Review",
		Comments: []ReviewComment{
			{Path: "src/config.py", Position: 5, Body: "**[ERROR]** Hardcoded credential."},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(101), result.ID)
	assert.Equal(t, "COMMENTED", result.State)
	assert.Contains(t, result.HTMLURL, "pullrequestreview-101")

	assert.Equal(t, "head333", gotBody["commit_id"])
	assert.Equal(t, "COMMENT", gotBody["event"])
	comments, ok := gotBody["comments"].([]interface{})
	require.True(t, ok)
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]interface{})
	assert.Equal(t, "src/config.py", comment["path"])
	assert.Equal(t, float64(5), comment["position"])
	assert.Equal(t, "**[ERROR]** Hardcoded credential.", comment["body"])
}

func TestCreateReviewRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation Failed"}`))
	}))

	_, err := client.CreateReview(context.Background(), CreateReviewInput{
		Owner: "octocat", Repo: "hello-world", PullNumber: 42,
		CommitSHA: "x", Event: EventComment,
	})
	require.Error(t, err)
}

func TestReviewEventValid(t *testing.T) {
	assert.True(t, EventComment.Valid())
	assert.True(t, EventApprove.Valid())
	assert.True(t, EventRequestChanges.Valid())
	assert.False(t, ReviewEvent("CELEBRATE").Valid())
	assert.False(t, ReviewEvent("").Valid())
}
