package advisor

import (
	"errors"
	"fmt"
	"math"

	"email-advisor/internal/rag"
)

// Decision is the routing outcome for a processed query.
type Decision string

const (
	// DecisionAutoSend means the draft may be sent without human review.
	DecisionAutoSend Decision = "auto_send"
	// DecisionNeedsReview means an advisor must review the draft.
	DecisionNeedsReview Decision = "needs_review"
	// DecisionAmbiguous means several templates matched too closely to choose one.
	DecisionAmbiguous Decision = "ambiguous"
)

// ErrInvalidSettings is returned for confidence thresholds outside [0, 1] or
// an auto-send threshold below the review threshold.
var ErrInvalidSettings = errors.New("invalid confidence settings")

// RankedMatch is a knowledge base article scored against a query.
type RankedMatch struct {
	ArticleID  string  `json:"article_id"`
	Subject    string  `json:"subject"`
	Confidence float64 `json:"confidence"`
}

// ConfidenceSettings holds the thresholds that govern automated replies.
type ConfidenceSettings struct {
	AutoSendThreshold float64 `json:"auto_send_threshold"`
	ReviewThreshold   float64 `json:"review_threshold"`
	AmbiguityGap      float64 `json:"ambiguity_gap"`
}

// DefaultConfidenceSettings returns 0.95 / 0.55 / 0.08.
func DefaultConfidenceSettings() ConfidenceSettings {
	return ConfidenceSettings{
		AutoSendThreshold: 0.95,
		ReviewThreshold:   0.55,
		AmbiguityGap:      0.08,
	}
}

// NewConfidenceSettings validates and returns settings. Values are never clamped.
func NewConfidenceSettings(autoSend, review, gap float64) (ConfidenceSettings, error) {
	s := ConfidenceSettings{AutoSendThreshold: autoSend, ReviewThreshold: review, AmbiguityGap: gap}
	if err := s.Validate(); err != nil {
		return ConfidenceSettings{}, err
	}
	return s, nil
}

// Validate checks the range and ordering of the thresholds.
func (s ConfidenceSettings) Validate() error {
	if !unitInterval(s.ReviewThreshold) {
		return fmt.Errorf("%w: review threshold %v must be between 0 and 1", ErrInvalidSettings, s.ReviewThreshold)
	}
	if !unitInterval(s.AutoSendThreshold) {
		return fmt.Errorf("%w: auto-send threshold %v must be between 0 and 1", ErrInvalidSettings, s.AutoSendThreshold)
	}
	if !unitInterval(s.AmbiguityGap) {
		return fmt.Errorf("%w: ambiguity gap %v must be between 0 and 1", ErrInvalidSettings, s.AmbiguityGap)
	}
	if s.AutoSendThreshold < s.ReviewThreshold {
		return fmt.Errorf("%w: auto-send threshold %v is below review threshold %v",
			ErrInvalidSettings, s.AutoSendThreshold, s.ReviewThreshold)
	}
	return nil
}

func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// Response is the result of processing a student question.
type Response struct {
	Subject           string            `json:"subject"`
	Body              string            `json:"body"`
	AutoSend          bool              `json:"auto_send"`
	Confidence        float64           `json:"confidence"`
	Decision          Decision          `json:"decision"`
	ArticleID         string            `json:"article_id,omitempty"`
	FollowUpQuestions []string          `json:"follow_up_questions"`
	Reasons           []string          `json:"reasons"`
	RankedMatches     []RankedMatch     `json:"ranked_matches"`
	References        []rag.Reference   `json:"references"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}
