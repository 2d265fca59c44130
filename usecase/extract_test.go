package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFeedbackJSON = `{
	"scores": {"professionalism": 8, "tone": 7, "clarity": 8, "empathy": 6, "overall": 7},
	"good": "Clear opener.",
	"improvement": "Ask more discovery questions.",
	"suggestion": "Summarize next steps before closing."
}`

func TestExtractFeedback_StrictJSON(t *testing.T) {
	fb, err := ExtractFeedback(validFeedbackJSON)

	require.NoError(t, err)
	payload, ok := ValidateFeedback(fb)
	require.True(t, ok)
	assert.Equal(t, 8.0, payload.Scores.Professionalism)
	assert.Equal(t, 7.0, payload.Scores.Overall)
	assert.Equal(t, "Clear opener.", payload.Good)
}

func TestExtractFeedback_FencedWithProse(t *testing.T) {
	raw := "Here you go:\n```json\n" + validFeedbackJSON + "\n```\nThanks!"

	fb, err := ExtractFeedback(raw)

	require.NoError(t, err)
	_, ok := ValidateFeedback(fb)
	assert.True(t, ok)
}

func TestExtractFeedback_LeadingAndTrailingText(t *testing.T) {
	raw := "Sure! " + validFeedbackJSON + " Hope that helps."

	fb, err := ExtractFeedback(raw)

	require.NoError(t, err)
	_, ok := ValidateFeedback(fb)
	assert.True(t, ok)
}

func TestExtractFeedback_NoJSONObject(t *testing.T) {
	_, err := ExtractFeedback("I cannot help with that.")

	assert.Error(t, err)
}

func TestExtractFeedback_MalformedJSON(t *testing.T) {
	_, err := ExtractFeedback(`{"scores": {`)

	assert.Error(t, err)
}

func TestValidateFeedback_RejectsOutOfRangeScore(t *testing.T) {
	raw := `{
		"scores": {"professionalism": 8, "tone": 11, "clarity": 8, "empathy": 6, "overall": 7},
		"good": "x", "improvement": "y", "suggestion": "z"
	}`
	fb, err := ExtractFeedback(raw)
	require.NoError(t, err)

	_, ok := ValidateFeedback(fb)

	assert.False(t, ok)
}

func TestValidateFeedback_RejectsNegativeScore(t *testing.T) {
	raw := `{
		"scores": {"professionalism": -1, "tone": 5, "clarity": 8, "empathy": 6, "overall": 7},
		"good": "x", "improvement": "y", "suggestion": "z"
	}`
	fb, err := ExtractFeedback(raw)
	require.NoError(t, err)

	_, ok := ValidateFeedback(fb)

	assert.False(t, ok)
}

func TestValidateFeedback_RejectsMissingSuggestion(t *testing.T) {
	raw := `{
		"scores": {"professionalism": 8, "tone": 7, "clarity": 8, "empathy": 6, "overall": 7},
		"good": "x", "improvement": "y"
	}`
	fb, err := ExtractFeedback(raw)
	require.NoError(t, err)

	_, ok := ValidateFeedback(fb)

	assert.False(t, ok)
}

func TestValidateFeedback_RejectsMissingScore(t *testing.T) {
	raw := `{
		"scores": {"professionalism": 8, "tone": 7, "clarity": 8, "empathy": 6},
		"good": "x", "improvement": "y", "suggestion": "z"
	}`
	fb, err := ExtractFeedback(raw)
	require.NoError(t, err)

	_, ok := ValidateFeedback(fb)

	assert.False(t, ok)
}

func TestValidateFeedback_RejectsNonNumericScore(t *testing.T) {
	raw := `{
		"scores": {"professionalism": "eight", "tone": 7, "clarity": 8, "empathy": 6, "overall": 7},
		"good": "x", "improvement": "y", "suggestion": "z"
	}`
	_, err := ExtractFeedback(raw)

	// A string score fails the JSON decode into numeric fields.
	assert.Error(t, err)
}

func TestValidateFeedback_RejectsEmptyTextField(t *testing.T) {
	raw := `{
		"scores": {"professionalism": 8, "tone": 7, "clarity": 8, "empathy": 6, "overall": 7},
		"good": "x", "improvement": "   ", "suggestion": "z"
	}`
	fb, err := ExtractFeedback(raw)
	require.NoError(t, err)

	_, ok := ValidateFeedback(fb)

	assert.False(t, ok)
}

func TestValidateFeedback_AcceptsBoundaryScores(t *testing.T) {
	raw := `{
		"scores": {"professionalism": 0, "tone": 10, "clarity": 0, "empathy": 10, "overall": 5},
		"good": "x", "improvement": "y", "suggestion": "z"
	}`
	fb, err := ExtractFeedback(raw)
	require.NoError(t, err)

	payload, ok := ValidateFeedback(fb)

	assert.True(t, ok)
	assert.Equal(t, 0.0, payload.Scores.Professionalism)
	assert.Equal(t, 10.0, payload.Scores.Tone)
}

func TestFallbackFeedback(t *testing.T) {
	fb := FallbackFeedback(ReasonParseFailure)

	assert.Equal(t, 7.0, fb.Scores.Professionalism)
	assert.Equal(t, 7.0, fb.Scores.Overall)
	assert.Contains(t, fb.Improvement, "Could not parse AI response")
	assert.NotEmpty(t, fb.Good)
	assert.NotEmpty(t, fb.Suggestion)

	// Identical input yields an identical payload.
	assert.Equal(t, fb, FallbackFeedback(ReasonParseFailure))
}
