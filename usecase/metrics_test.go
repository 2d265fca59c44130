package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchlab/salescoach/domain"
)

func TestAnalyzeConversationMetrics_SmallTranscript(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.UserRole, Content: "a b c"},
		{Role: domain.AssistantRole, Content: "d e"},
	}

	m := AnalyzeConversationMetrics(messages)

	assert.Equal(t, 2, m.TotalMessages)
	assert.Equal(t, 1, m.UserMessages)
	assert.Equal(t, 1, m.AssistantMessages)
	assert.Equal(t, 3, m.TotalUserWords)
	assert.Equal(t, 2, m.TotalAssistantWords)
	assert.Equal(t, 3.0, m.AvgUserWords)
	assert.Equal(t, 2.0, m.AvgAssistantWords)
	assert.Equal(t, "1.00", m.ConversationRatio)
}

func TestAnalyzeConversationMetrics_NoUserMessages(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.AssistantRole, Content: "hello there"},
	}

	m := AnalyzeConversationMetrics(messages)

	assert.Equal(t, "0", m.ConversationRatio)
	assert.Equal(t, 0.0, m.AvgUserWords)
	assert.Equal(t, 2.0, m.AvgAssistantWords)
}

func TestAnalyzeConversationMetrics_NoAssistantMessages(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.UserRole, Content: "one two three four"},
		{Role: domain.UserRole, Content: "five six"},
	}

	m := AnalyzeConversationMetrics(messages)

	assert.Equal(t, "0.00", m.ConversationRatio)
	assert.Equal(t, 3.0, m.AvgUserWords)
	assert.Equal(t, 0.0, m.AvgAssistantWords)
}

func TestAnalyzeConversationMetrics_RatioFormatting(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.UserRole, Content: "q"},
		{Role: domain.UserRole, Content: "q"},
		{Role: domain.UserRole, Content: "q"},
		{Role: domain.AssistantRole, Content: "a"},
	}

	m := AnalyzeConversationMetrics(messages)

	assert.Equal(t, "0.33", m.ConversationRatio)
}

func TestAnalyzeConversationMetrics_AverageRounding(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.UserRole, Content: "one two"},
		{Role: domain.UserRole, Content: "one"},
		{Role: domain.UserRole, Content: "one"},
	}

	m := AnalyzeConversationMetrics(messages)

	// 4 words over 3 messages rounds to one decimal place.
	assert.Equal(t, 1.3, m.AvgUserWords)
}

func TestAnalyzeConversationMetrics_Empty(t *testing.T) {
	m := AnalyzeConversationMetrics(nil)

	assert.Equal(t, 0, m.TotalMessages)
	assert.Equal(t, "0", m.ConversationRatio)
}
