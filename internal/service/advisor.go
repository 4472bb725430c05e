package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_advisor.go -package=mocks email-advisor/internal/service Advisor,Recorder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_advisor_service.go -package=mocks -mock_names=AdvisorService=MockAdvisorService email-advisor/internal/service AdvisorService

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"email-advisor/internal/advisor"
	"email-advisor/internal/contextutil"
)

const maxRankLimit = 100

var maxRankLimitText = strconv.Itoa(maxRankLimit)

// MetadataFields lists the metadata keys the web form offers, in display order.
var MetadataFields = []string{
	"student_name",
	"student_id",
	"term",
	"registration_deadline",
	"withdrawal_deadline",
	"financial_aid_email",
	"financial_aid_phone",
}

// Advisor is the advising engine as seen from the service layer.
type Advisor interface {
	Process(ctx context.Context, query string, metadata map[string]string) (*advisor.Response, error)
	Rank(ctx context.Context, query string) []advisor.RankedMatch
}

// Recorder receives per-request outcomes for metrics.
type Recorder interface {
	ObserveResponse(resp *advisor.Response)
	ObserveFailure(operation string)
}

// ProcessRequest is a request to draft a reply.
type ProcessRequest struct {
	Query    string            `validate:"required,max=10000"`
	Metadata map[string]string `validate:"omitempty,dive,keys,required,max=64,endkeys,max=500"`
}

// RankRequest is a request to rank articles. Limit 0 returns every match.
type RankRequest struct {
	Query string `validate:"required,max=10000"`
	Limit int    `validate:"gte=0,lte=100"`
}

// RankResponse holds ranked articles, best first.
type RankResponse struct {
	Matches []advisor.RankedMatch
}

// Stats describes the loaded data.
type Stats struct {
	Articles         int
	References       int
	RetrievalEnabled bool
	VectorMirror     string
}

// AdvisorService validates requests and runs them through the advisor.
type AdvisorService interface {
	// Process drafts a reply for a student email.
	Process(ctx context.Context, req ProcessRequest) (*advisor.Response, error)
	// Rank scores knowledge base articles for a query.
	Rank(ctx context.Context, req RankRequest) (RankResponse, error)
	// Stats reports what the advisor was built from.
	Stats(ctx context.Context) Stats
}

type advisorService struct {
	advisor  Advisor
	recorder Recorder
	stats    Stats
	validate *validator.Validate
}

// NewAdvisorService creates a new AdvisorService. recorder may be nil.
func NewAdvisorService(adv Advisor, recorder Recorder, stats Stats) AdvisorService {
	return &advisorService{
		advisor:  adv,
		recorder: recorder,
		stats:    stats,
		validate: validator.New(),
	}
}

func (s *advisorService) Process(ctx context.Context, req ProcessRequest) (*advisor.Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Query = strings.TrimSpace(req.Query)
	req.Metadata = cleanMetadata(req.Metadata)
	if err := s.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "invalid process request", "error", err)
		s.observeFailure("process_validation")
		return nil, validationErrorFrom(err)
	}

	resp, err := s.advisor.Process(ctx, req.Query, req.Metadata)
	if err != nil {
		logger.ErrorContext(ctx, "failed to process query", "error", err)
		s.observeFailure("process")
		return nil, fmt.Errorf("failed to process query: %w: %w", ErrExternalService, err)
	}

	if s.recorder != nil {
		s.recorder.ObserveResponse(resp)
	}
	logger.InfoContext(ctx, "query processed successfully",
		"query_length", len(req.Query),
		"decision", resp.Decision,
		"article_id", resp.ArticleID,
	)
	return resp, nil
}

func (s *advisorService) Rank(ctx context.Context, req RankRequest) (RankResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Query = strings.TrimSpace(req.Query)
	if err := s.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "invalid rank request", "error", err)
		s.observeFailure("rank_validation")
		return RankResponse{}, validationErrorFrom(err)
	}

	matches := s.advisor.Rank(ctx, req.Query)
	if req.Limit > 0 && len(matches) > req.Limit {
		matches = matches[:req.Limit]
	}
	if matches == nil {
		matches = []advisor.RankedMatch{}
	}

	logger.InfoContext(ctx, "query ranked", "matches", len(matches))
	return RankResponse{Matches: matches}, nil
}

func (s *advisorService) Stats(_ context.Context) Stats {
	return s.stats
}

func (s *advisorService) observeFailure(operation string) {
	if s.recorder != nil {
		s.recorder.ObserveFailure(operation)
	}
}

// cleanMetadata trims keys and values and drops blank entries.
func cleanMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
