package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pitchlab/salescoach/domain"
)

// rawFeedback mirrors FeedbackPayload with pointers so the validator can
// tell a missing field from a zero value.
type rawFeedback struct {
	Scores      *rawScores `json:"scores"`
	Good        *string    `json:"good"`
	Improvement *string    `json:"improvement"`
	Suggestion  *string    `json:"suggestion"`
}

type rawScores struct {
	Professionalism *float64 `json:"professionalism"`
	Tone            *float64 `json:"tone"`
	Clarity         *float64 `json:"clarity"`
	Empathy         *float64 `json:"empathy"`
	Overall         *float64 `json:"overall"`
}

// ExtractFeedback parses the model's raw text output into a candidate
// payload. The happy path is a strict parse of the whole text; recovery
// strips code fences and trims to the outermost braces before retrying.
func ExtractFeedback(raw string) (*rawFeedback, error) {
	if fb, err := parseFeedback(raw); err == nil {
		return fb, nil
	}

	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	return parseFeedback(cleaned[start : end+1])
}

func parseFeedback(s string) (*rawFeedback, error) {
	var fb rawFeedback
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &fb); err != nil {
		return nil, fmt.Errorf("parsing feedback JSON: %w", err)
	}
	return &fb, nil
}

// ValidateFeedback applies the all-or-nothing acceptance policy: five
// numeric scores within [0,10] and three non-empty text fields. It never
// clamps or defaults individual fields.
func ValidateFeedback(fb *rawFeedback) (domain.FeedbackPayload, bool) {
	if fb == nil || fb.Scores == nil {
		return domain.FeedbackPayload{}, false
	}
	scores := []*float64{
		fb.Scores.Professionalism,
		fb.Scores.Tone,
		fb.Scores.Clarity,
		fb.Scores.Empathy,
		fb.Scores.Overall,
	}
	for _, s := range scores {
		if s == nil || *s < 0 || *s > 10 {
			return domain.FeedbackPayload{}, false
		}
	}
	texts := []*string{fb.Good, fb.Improvement, fb.Suggestion}
	for _, t := range texts {
		if t == nil || strings.TrimSpace(*t) == "" {
			return domain.FeedbackPayload{}, false
		}
	}

	return domain.FeedbackPayload{
		Scores: domain.FeedbackScores{
			Professionalism: *fb.Scores.Professionalism,
			Tone:            *fb.Scores.Tone,
			Clarity:         *fb.Scores.Clarity,
			Empathy:         *fb.Scores.Empathy,
			Overall:         *fb.Scores.Overall,
		},
		Good:        *fb.Good,
		Improvement: *fb.Improvement,
		Suggestion:  *fb.Suggestion,
	}, true
}
