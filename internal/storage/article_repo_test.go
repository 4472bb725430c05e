package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-advisor/internal/knowledge"
)

func sampleArticles() []knowledge.Article {
	return []knowledge.Article{
		{
			ID:                "transcript_request",
			Subject:           "Requesting an official transcript",
			Categories:        []string{"records"},
			Utterances:        []string{"How do I order my transcript?"},
			ResponseTemplate:  "Hello {student_name}, order it online.",
			FollowUpQuestions: []string{"Do you need it mailed?"},
			Metadata:          map[string]string{"office": "Registrar"},
		},
		{
			ID:               "course_withdrawal",
			Subject:          "Withdrawing from a course",
			Utterances:       []string{"How do I withdraw from a class?"},
			ResponseTemplate: "Hello {student_name}, the deadline is {withdrawal_deadline}.",
		},
	}
}

func TestArticleRepo_ReplaceAllAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewArticleRepo(newTestDB(t))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got, "empty table should give an empty slice")

	require.NoError(t, repo.ReplaceAll(ctx, sampleArticles()))

	got, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleArticles(), got, "records should round-trip with optional fields nil")

	// Replacing drops articles that are not in the new set
	require.NoError(t, repo.ReplaceAll(ctx, sampleArticles()[1:]))
	got, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "course_withdrawal", got[0].ID)
}

func TestArticleRepo_ReplaceAll_KeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewArticleRepo(newTestDB(t))

	articles := sampleArticles()
	articles[0], articles[1] = articles[1], articles[0]
	require.NoError(t, repo.ReplaceAll(ctx, articles))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "course_withdrawal", got[0].ID)
	assert.Equal(t, "transcript_request", got[1].ID)
}

func TestArticleRepo_ReplaceAll_DuplicateRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewArticleRepo(newTestDB(t))
	require.NoError(t, repo.ReplaceAll(ctx, sampleArticles()))

	dup := append(sampleArticles(), sampleArticles()[0])
	require.Error(t, repo.ReplaceAll(ctx, dup))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2, "failed replace must leave the previous catalog intact")
}

func TestArticleRepo_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewArticleRepo(newTestDB(t))
	require.NoError(t, repo.ReplaceAll(ctx, sampleArticles()))

	got, err := repo.GetByID(ctx, "transcript_request")
	require.NoError(t, err)
	assert.Equal(t, "Registrar", got.Metadata["office"])

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}
