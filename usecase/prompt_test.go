package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchlab/salescoach/domain"
)

func testMetrics() domain.ConversationMetrics {
	return AnalyzeConversationMetrics([]domain.ChatMessage{
		{Role: domain.UserRole, Content: "Hi, do you have a discount program?"},
		{Role: domain.AssistantRole, Content: "We offer 10 percent off for annual plans."},
	})
}

func TestComposeFeedbackPrompt_Deterministic(t *testing.T) {
	metrics := testMetrics()
	scenario := &domain.Scenario{
		Name:        "Price Negotiation",
		Description: "Defend your pricing.",
		Persona:     "Price-Sensitive Buyer",
		Difficulty:  "hard",
	}

	first := ComposeFeedbackPrompt(metrics, scenario)
	second := ComposeFeedbackPrompt(metrics, scenario)

	assert.Equal(t, first, second)
}

func TestComposeFeedbackPrompt_ContainsSchemaAndMetrics(t *testing.T) {
	prompt := ComposeFeedbackPrompt(testMetrics(), nil)

	assert.Contains(t, prompt, `"professionalism": number (0-10)`)
	assert.Contains(t, prompt, `"overall": number (0-10)`)
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.Contains(t, prompt, "Total Messages: 2")
	assert.Contains(t, prompt, "Conversation Ratio (Assistant/User): 1.00")
	assert.NotContains(t, prompt, "SCENARIO ANALYSIS CONTEXT")
}

func TestComposeFeedbackPrompt_ScenarioBlock(t *testing.T) {
	scenario := &domain.Scenario{
		Name:        "Cold Call Prospecting",
		Description: "Earn a follow-up meeting.",
		Persona:     "Time-Starved Executive",
		Difficulty:  "medium",
	}

	prompt := ComposeFeedbackPrompt(testMetrics(), scenario)

	assert.Contains(t, prompt, "SCENARIO ANALYSIS CONTEXT")
	assert.Contains(t, prompt, "Customer Persona: Time-Starved Executive")
	assert.Contains(t, prompt, "the medium difficulty level")
	assert.Contains(t, prompt, `"Earn a follow-up meeting."`)
}

func TestComposeFeedbackPrompt_Descriptors(t *testing.T) {
	tests := []struct {
		name    string
		metrics domain.ConversationMetrics
		want    []string
	}{
		{
			name: "short low-engagement brief",
			metrics: domain.ConversationMetrics{
				TotalMessages:     2,
				UserMessages:      2,
				AvgUserWords:      3,
				TotalUserWords:    6,
				ConversationRatio: "0.00",
			},
			want: []string{
				"Short responses may indicate lack of detail",
				"Low customer engagement",
				"Brief conversation",
				"Minimal user input",
			},
		},
		{
			name: "long high-engagement detailed",
			metrics: domain.ConversationMetrics{
				TotalMessages:     12,
				UserMessages:      4,
				AvgUserWords:      60,
				TotalUserWords:    240,
				ConversationRatio: "2.00",
			},
			want: []string{
				"Long responses may indicate thoroughness or verbosity",
				"High customer engagement",
				"Detailed conversation",
				"Comprehensive user input",
			},
		},
		{
			name: "balanced moderates",
			metrics: domain.ConversationMetrics{
				TotalMessages:     6,
				UserMessages:      3,
				AvgUserWords:      20,
				TotalUserWords:    60,
				ConversationRatio: "1.00",
			},
			want: []string{
				"Balanced response length",
				"Moderate customer engagement",
				"Standard conversation length",
				"Moderate user input",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := ComposeFeedbackPrompt(tt.metrics, nil)
			for _, want := range tt.want {
				assert.Contains(t, prompt, want)
			}
		})
	}
}
