// Package advisor ranks knowledge base articles against a student email,
// decides whether the reply can be sent automatically and drafts it.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"email-advisor/internal/contextutil"
	"email-advisor/internal/knowledge"
	"email-advisor/internal/metadata"
	"email-advisor/internal/rag"
)

// DefaultReferenceLimit is the number of references attached when no
// WithReferenceLimit option is given.
const DefaultReferenceLimit = 3

// Advisor wires the ranker, decision engine, retriever, extractor and composer.
// It is read-only after construction and safe for concurrent use as long as the
// configured composer is.
type Advisor struct {
	kb             *knowledge.KnowledgeBase
	ranker         *Ranker
	retriever      *rag.Retriever
	extractor      *metadata.Extractor
	composer       Composer
	settings       ConfidenceSettings
	referenceLimit int
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithRetriever enables reference retrieval. Without it replies carry no references.
func WithRetriever(r *rag.Retriever) Option {
	return func(a *Advisor) { a.retriever = r }
}

// WithComposer replaces the default TemplateComposer.
func WithComposer(c Composer) Option {
	return func(a *Advisor) { a.composer = c }
}

// WithSettings replaces DefaultConfidenceSettings.
func WithSettings(s ConfidenceSettings) Option {
	return func(a *Advisor) { a.settings = s }
}

// WithExtractor replaces the default metadata extractor.
func WithExtractor(e *metadata.Extractor) Option {
	return func(a *Advisor) { a.extractor = e }
}

// WithReferenceLimit sets how many references are attached to a reply.
func WithReferenceLimit(n int) Option {
	return func(a *Advisor) { a.referenceLimit = n }
}

// New builds an Advisor over kb.
func New(kb *knowledge.KnowledgeBase, opts ...Option) (*Advisor, error) {
	ranker, err := NewRanker(kb)
	if err != nil {
		return nil, err
	}

	a := &Advisor{
		kb:             kb,
		ranker:         ranker,
		extractor:      metadata.NewExtractor(),
		composer:       NewTemplateComposer(),
		settings:       DefaultConfidenceSettings(),
		referenceLimit: DefaultReferenceLimit,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.settings.Validate(); err != nil {
		return nil, err
	}
	if a.composer == nil {
		return nil, fmt.Errorf("advisor requires a composer")
	}
	if a.extractor == nil {
		a.extractor = metadata.NewExtractor()
	}
	return a, nil
}

// KnowledgeBase returns the knowledge base the advisor ranks against.
func (a *Advisor) KnowledgeBase() *knowledge.KnowledgeBase {
	return a.kb
}

// Retriever returns the configured retriever, nil when retrieval is disabled.
func (a *Advisor) Retriever() *rag.Retriever {
	return a.retriever
}

// Settings returns the confidence settings in use.
func (a *Advisor) Settings() ConfidenceSettings {
	return a.settings
}

// Rank scores every article against query, best first.
func (a *Advisor) Rank(ctx context.Context, query string) []RankedMatch {
	matches := a.ranker.Rank(query)
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "articles ranked", "matches", len(matches))
	return matches
}

// Process ranks, decides, retrieves references and drafts a reply for query.
// Explicit metadata values take precedence over values extracted from the query.
func (a *Advisor) Process(ctx context.Context, query string, explicit map[string]string) (*Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	matches := a.Rank(ctx, query)
	verdict := Decide(matches, a.settings)
	reasons := append([]string(nil), verdict.Reasons...)

	merged, factReasons := a.mergeMetadata(query, explicit)
	reasons = append(reasons, factReasons...)

	var article *knowledge.Article
	if verdict.ArticleID != "" {
		if found, ok := a.kb.Get(verdict.ArticleID); ok {
			article = &found
		}
	}

	var refs []rag.Reference
	if a.retriever != nil {
		refs = a.retriever.Retrieve(ctx, query, article, a.referenceLimit)
		if len(refs) > 0 {
			reasons = append(reasons, fmt.Sprintf("Attached %d supporting reference(s).", len(refs)))
		}
	}

	draft, err := a.composer.Compose(ctx, ComposeRequest{
		Query:      query,
		Article:    article,
		Decision:   verdict.Decision,
		Metadata:   merged,
		References: refs,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to compose reply", "error", err)
		return nil, fmt.Errorf("failed to compose reply: %w", err)
	}
	reasons = append(reasons, draft.Notes...)

	resp := &Response{
		Subject:           draft.Subject,
		Body:              appendReferences(draft.Body, refs),
		AutoSend:          verdict.Decision == DecisionAutoSend,
		Confidence:        verdict.Confidence,
		Decision:          verdict.Decision,
		ArticleID:         verdict.ArticleID,
		FollowUpQuestions: []string{},
		Reasons:           reasons,
		RankedMatches:     matches,
		References:        refs,
		Metadata:          merged,
	}
	if article != nil {
		resp.FollowUpQuestions = append(resp.FollowUpQuestions, article.FollowUpQuestions...)
	}
	if resp.RankedMatches == nil {
		resp.RankedMatches = []RankedMatch{}
	}
	if resp.References == nil {
		resp.References = []rag.Reference{}
	}

	logger.InfoContext(ctx, "query processed",
		"decision", resp.Decision,
		"article_id", resp.ArticleID,
		"confidence", resp.Confidence,
		"references", len(resp.References),
	)
	return resp, nil
}

// mergeMetadata combines extracted facts with explicit values. The first fact
// for a key wins among extracted values; a non-empty explicit value always wins.
func (a *Advisor) mergeMetadata(query string, explicit map[string]string) (map[string]string, []string) {
	merged := make(map[string]string, len(explicit))
	for k, v := range explicit {
		if v = strings.TrimSpace(v); v != "" {
			merged[k] = v
		}
	}

	var reasons []string
	extracted := make(map[string]bool)
	for _, fact := range a.extractor.Extract(query) {
		if extracted[fact.Key] {
			continue
		}
		extracted[fact.Key] = true

		if provided, ok := merged[fact.Key]; ok {
			if provided != fact.Value {
				reasons = append(reasons, fmt.Sprintf("Kept provided %s '%s' instead of extracted '%s'.",
					fact.Key, provided, fact.Value))
			}
			continue
		}
		merged[fact.Key] = fact.Value
		reasons = append(reasons, fact.Reason)
	}
	return merged, reasons
}

func appendReferences(body string, refs []rag.Reference) string {
	if len(refs) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n\nReferences:\n")
	for i, ref := range refs {
		fmt.Fprintf(&b, "[%d] %s", i+1, ref.Title)
		if ref.URL != "" {
			fmt.Fprintf(&b, " (%s)", ref.URL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
