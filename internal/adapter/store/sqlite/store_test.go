package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prguardian/prguardian/internal/adapter/store/sqlite"
	"github.com/prguardian/prguardian/internal/usecase/audit"
)

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err, "failed to create test store")

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestStore_RecordAudit_ListRecent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rec := audit.Record{
		Owner:           "octocat",
		Repo:            "hello-world",
		PullNumber:      42,
		ReviewID:        1001,
		Event:           "COMMENT",
		Provider:        "azure-openai",
		Model:           "gpt-4o",
		CommentsPosted:  3,
		CommentsSkipped: 1,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}

	err := s.RecordAudit(ctx, rec)
	require.NoError(t, err)

	records, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, rec.Owner, got.Owner)
	assert.Equal(t, rec.Repo, got.Repo)
	assert.Equal(t, rec.PullNumber, got.PullNumber)
	assert.Equal(t, rec.ReviewID, got.ReviewID)
	assert.Equal(t, rec.Event, got.Event)
	assert.Equal(t, rec.Provider, got.Provider)
	assert.Equal(t, rec.Model, got.Model)
	assert.Equal(t, rec.CommentsPosted, got.CommentsPosted)
	assert.Equal(t, rec.CommentsSkipped, got.CommentsSkipped)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_ListRecent_NewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.RecordAudit(ctx, audit.Record{
			Owner:      "octocat",
			Repo:       "hello-world",
			PullNumber: i + 1,
			ReviewID:   int64(2000 + i),
			Event:      "COMMENT",
			Provider:   "static",
			Model:      "static-model",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	records, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].PullNumber)
	assert.Equal(t, 2, records[1].PullNumber)
}

func TestStore_ListRecent_Empty(t *testing.T) {
	s := setupTestStore(t)

	records, err := s.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}
