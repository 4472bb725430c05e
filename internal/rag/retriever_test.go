package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-advisor/internal/knowledge"
)

func testCorpus(t *testing.T) *knowledge.ReferenceCorpus {
	t.Helper()
	corpus, err := knowledge.NewReferenceCorpus([]knowledge.Document{
		{ID: "withdraw-a", Title: "Withdrawal Deadline", Content: "Withdraw from a course before the withdrawal deadline.", URL: "https://registrar.example.edu/withdraw"},
		{ID: "withdraw-b", Title: "Withdrawal Deadline", Content: "Withdraw from a course before the withdrawal deadline."},
		{ID: "withdraw-refund", Title: "Tuition Refunds", Content: "Withdrawing from a course may change your tuition refund."},
		{ID: "parking", Title: "Parking Permits", Content: "Parking permits are sold at the campus office."},
	})
	require.NoError(t, err)
	return corpus
}

func ids(refs []Reference) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.DocumentID)
	}
	return out
}

func TestNewRetriever_Diversity(t *testing.T) {
	corpus := testCorpus(t)

	r, err := NewRetriever(corpus)
	require.NoError(t, err)
	assert.Equal(t, DefaultDiversity, r.Diversity())

	for _, d := range []float64{-0.1, 1.5} {
		_, err := NewRetriever(corpus, WithDiversity(d))
		assert.ErrorIs(t, err, ErrInvalidDiversity, "diversity %v", d)
	}

	for _, d := range []float64{0, 1} {
		_, err := NewRetriever(corpus, WithDiversity(d))
		assert.NoError(t, err, "diversity %v", d)
	}

	_, err = NewRetriever(nil)
	assert.ErrorIs(t, err, knowledge.ErrEmptyCollection)
}

func TestRetrieve_MMRPrefersNovelDocuments(t *testing.T) {
	r, err := NewRetriever(testCorpus(t), WithDiversity(0.5))
	require.NoError(t, err)

	refs := r.Retrieve(context.Background(), "withdraw course", nil, 2)
	assert.Equal(t, []string{"withdraw-a", "withdraw-refund"}, ids(refs))

	refs = r.Retrieve(context.Background(), "withdraw course", nil, 3)
	assert.Equal(t, []string{"withdraw-a", "withdraw-refund", "withdraw-b"}, ids(refs))
}

func TestRetrieve_PureRelevance(t *testing.T) {
	r, err := NewRetriever(testCorpus(t), WithDiversity(1))
	require.NoError(t, err)

	refs := r.Retrieve(context.Background(), "withdraw course", nil, 2)
	require.Equal(t, []string{"withdraw-a", "withdraw-b"}, ids(refs))
	assert.InDelta(t, refs[0].Score, refs[1].Score, 1e-12)
}

func TestRetrieve_ZeroScoreDocumentsExcluded(t *testing.T) {
	r, err := NewRetriever(testCorpus(t))
	require.NoError(t, err)

	refs := r.Retrieve(context.Background(), "withdraw course", nil, 10)
	assert.Len(t, refs, 3)
	assert.NotContains(t, ids(refs), "parking")
	for _, ref := range refs {
		assert.Greater(t, ref.Score, 0.0)
	}
}

func TestRetrieve_Empty(t *testing.T) {
	r, err := NewRetriever(testCorpus(t))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Empty(t, r.Retrieve(ctx, "withdraw course", nil, 0))
	assert.Empty(t, r.Retrieve(ctx, "withdraw course", nil, -1))
	assert.Empty(t, r.Retrieve(ctx, "", nil, 3))
	assert.Empty(t, r.Retrieve(ctx, "the and of", nil, 3))
	assert.Empty(t, r.Retrieve(ctx, "astronomy", nil, 3))
}

func TestRetrieve_ArticleExpandsQuery(t *testing.T) {
	r, err := NewRetriever(testCorpus(t))
	require.NoError(t, err)

	article := &knowledge.Article{Subject: "Parking Permits", Categories: []string{"campus"}}
	refs := r.Retrieve(context.Background(), "", article, 1)
	require.Len(t, refs, 1)
	assert.Equal(t, "parking", refs[0].DocumentID)
}

func TestRetrieve_ReferenceFields(t *testing.T) {
	r, err := NewRetriever(testCorpus(t), WithDiversity(1))
	require.NoError(t, err)

	refs := r.Retrieve(context.Background(), "withdraw course", nil, 1)
	require.Len(t, refs, 1)
	assert.Equal(t, "Withdrawal Deadline", refs[0].Title)
	assert.Equal(t, "https://registrar.example.edu/withdraw", refs[0].URL)
	assert.Equal(t, "Withdraw from a course before the withdrawal deadline.", refs[0].Snippet)
}

func TestRetriever_Accessors(t *testing.T) {
	r, err := NewRetriever(testCorpus(t))
	require.NoError(t, err)

	docs := r.Documents()
	require.Len(t, docs, 4)
	docs[0].Title = "changed"
	assert.Equal(t, "Withdrawal Deadline", r.Documents()[0].Title)
	assert.Equal(t, 4, r.Vectorizer().Len())
}

func TestBuildSnippet(t *testing.T) {
	query := map[string]struct{}{"refund": {}}
	long := strings.Repeat("lorem ipsum ", 30)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "first matching sentence",
			content: "Parking is limited. Refunds are issued after two weeks! Contact us.",
			want:    "Refunds are issued after two weeks!",
		},
		{
			name:    "short content without match",
			content: "  Parking is limited.  ",
			want:    "Parking is limited.",
		},
		{
			name:    "long content without match",
			content: long,
			want:    long[:strings.LastIndex(long[:200], " ")] + "...",
		},
		{
			name:    "long matching sentence is cut",
			content: "Refund " + long,
			want:    strings.TrimSpace(("Refund " + long)[:200]),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSnippet(tt.content, query, MaxSnippetLength)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(got, "..."))), MaxSnippetLength)
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two?  Three!\nFour 3.5 percent.")
	assert.Equal(t, []string{"One.", "Two?", "Three!", "Four 3.5 percent."}, got)
	assert.Empty(t, splitSentences("   "))
}
