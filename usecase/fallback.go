package usecase

import "github.com/pitchlab/salescoach/domain"

// Fallback reasons, surfaced to the user only through the improvement
// text of the fallback payload.
const (
	ReasonNoValidMessages = "No valid messages found"
	ReasonTransport       = "Error processing AI response"
	ReasonEmptyResponse   = "AI returned empty response"
	ReasonParseFailure    = "Could not parse AI response"
	ReasonInvalidFormat   = "AI response had invalid format"
	ReasonInternal        = "Internal server error occurred"
)

// FallbackFeedback builds the deterministic, always-valid substitute
// payload. Neutral 7s across the board; the reason is embedded in the
// improvement field so the caller never needs a broken-feedback path.
func FallbackFeedback(reason string) domain.FeedbackPayload {
	if reason == "" {
		reason = "Unable to analyze conversation"
	}
	return domain.FeedbackPayload{
		Scores: domain.FeedbackScores{
			Professionalism: 7,
			Tone:            7,
			Clarity:         7,
			Empathy:         7,
			Overall:         7,
		},
		Good:        "The conversation was conducted in a professional manner.",
		Improvement: reason + ". Please ensure the conversation contains meaningful sales interaction content.",
		Suggestion:  "Focus on clear communication and understanding customer needs in future interactions.",
	}
}
