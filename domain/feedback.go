package domain

// FeedbackScores holds the five coaching scores. Each must be a number in
// [0,10]; the validator treats the payload as all-or-nothing.
type FeedbackScores struct {
	Professionalism float64 `json:"professionalism"`
	Tone            float64 `json:"tone"`
	Clarity         float64 `json:"clarity"`
	Empathy         float64 `json:"empathy"`
	Overall         float64 `json:"overall"`
}

// FeedbackPayload is the contract returned to the caller of the feedback
// endpoint. It is either the model's parsed output or a fallback; never a
// partially valid mix of the two.
type FeedbackPayload struct {
	Scores      FeedbackScores `json:"scores"`
	Good        string         `json:"good"`
	Improvement string         `json:"improvement"`
	Suggestion  string         `json:"suggestion"`
}

// ConversationMetrics are descriptive statistics over a sanitized
// transcript, computed fresh per feedback request and embedded into the
// coaching prompt. They are advisory inputs only.
type ConversationMetrics struct {
	TotalMessages       int
	UserMessages        int
	AssistantMessages   int
	TotalUserWords      int
	TotalAssistantWords int
	AvgUserWords        float64
	AvgAssistantWords   float64
	// ConversationRatio is assistant/user message count formatted to two
	// decimals, "0" when there are no user messages.
	ConversationRatio string
}
