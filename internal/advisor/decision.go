package advisor

import "fmt"

// Verdict is the outcome of applying confidence settings to ranked matches.
type Verdict struct {
	Decision Decision
	// ArticleID is the chosen or suggested article, empty when none.
	ArticleID  string
	Confidence float64
	Reasons    []string
}

// Decide routes a query from its ranked matches. matches must be sorted best first.
//
// A top match at or above the review threshold but below auto-send is kept as a
// suggestion so the reviewer starts from a drafted template.
func Decide(matches []RankedMatch, s ConfidenceSettings) Verdict {
	if len(matches) == 0 {
		return Verdict{
			Decision: DecisionNeedsReview,
			Reasons:  []string{"No knowledge base article matched the question; a human review is required."},
		}
	}

	top := matches[0]
	var second *RankedMatch
	if len(matches) > 1 {
		second = &matches[1]
	}

	switch {
	case top.Confidence >= s.AutoSendThreshold && (second == nil || top.Confidence-second.Confidence >= s.AmbiguityGap):
		return Verdict{
			Decision:   DecisionAutoSend,
			ArticleID:  top.ArticleID,
			Confidence: top.Confidence,
			Reasons: []string{fmt.Sprintf("Matched '%s' with confidence %.2f, meeting the auto-send threshold of %.2f.",
				top.Subject, top.Confidence, s.AutoSendThreshold)},
		}
	case second != nil && top.Confidence >= s.ReviewThreshold && top.Confidence-second.Confidence < s.AmbiguityGap:
		return Verdict{
			Decision:   DecisionAmbiguous,
			Confidence: top.Confidence,
			Reasons: []string{fmt.Sprintf("Multiple templates matched closely: '%s' (%.2f) and '%s' (%.2f) are within %.2f of each other.",
				top.Subject, top.Confidence, second.Subject, second.Confidence, s.AmbiguityGap)},
		}
	case top.Confidence >= s.ReviewThreshold:
		return Verdict{
			Decision:   DecisionNeedsReview,
			ArticleID:  top.ArticleID,
			Confidence: top.Confidence,
			Reasons: []string{fmt.Sprintf("Best match '%s' scored %.2f, below the auto-send threshold of %.2f; suggested for review.",
				top.Subject, top.Confidence, s.AutoSendThreshold)},
		}
	default:
		return Verdict{
			Decision:   DecisionNeedsReview,
			Confidence: top.Confidence,
			Reasons: []string{fmt.Sprintf("Best match '%s' scored %.2f, below the review threshold of %.2f.",
				top.Subject, top.Confidence, s.ReviewThreshold)},
		}
	}
}
