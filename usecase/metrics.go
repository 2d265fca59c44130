package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/pitchlab/salescoach/domain"
)

// AnalyzeConversationMetrics computes descriptive statistics over a
// sanitized transcript. Pure function; the numbers are advisory prompt
// inputs only. A word is any maximal run of non-whitespace characters.
func AnalyzeConversationMetrics(messages []domain.ChatMessage) domain.ConversationMetrics {
	m := domain.ConversationMetrics{
		TotalMessages:     len(messages),
		ConversationRatio: "0",
	}

	for _, msg := range messages {
		words := len(strings.Fields(msg.Content))
		switch msg.Role {
		case domain.UserRole:
			m.UserMessages++
			m.TotalUserWords += words
		case domain.AssistantRole:
			m.AssistantMessages++
			m.TotalAssistantWords += words
		}
	}

	if m.UserMessages > 0 {
		m.AvgUserWords = round1(float64(m.TotalUserWords) / float64(m.UserMessages))
		m.ConversationRatio = fmt.Sprintf("%.2f", float64(m.AssistantMessages)/float64(m.UserMessages))
	}
	if m.AssistantMessages > 0 {
		m.AvgAssistantWords = round1(float64(m.TotalAssistantWords) / float64(m.AssistantMessages))
	}

	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
