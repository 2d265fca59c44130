package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pitchlab/salescoach/domain"
)

// ComposeFeedbackPrompt builds the coaching instruction sent as the system
// prompt of the feedback completion. The output is byte-identical for
// identical inputs: no timestamps, no randomness.
func ComposeFeedbackPrompt(metrics domain.ConversationMetrics, scenario *domain.Scenario) string {
	var b strings.Builder

	b.WriteString(`You are an expert sales training AI coach with deep knowledge of sales techniques, customer psychology, and conversation analysis.

Analyze the given sales conversation between a user (salesperson) and a customer. Based on the specific dialogue, conversation patterns, and scenario context, provide detailed, dynamic feedback.

CONVERSATION METRICS:
`)
	fmt.Fprintf(&b, "- Total Messages: %d\n", metrics.TotalMessages)
	fmt.Fprintf(&b, "- User Messages: %d\n", metrics.UserMessages)
	fmt.Fprintf(&b, "- Assistant Messages: %d\n", metrics.AssistantMessages)
	fmt.Fprintf(&b, "- Total User Words: %d\n", metrics.TotalUserWords)
	fmt.Fprintf(&b, "- Total Assistant Words: %d\n", metrics.TotalAssistantWords)
	fmt.Fprintf(&b, "- Average User Message Length: %s words\n", trimFloat(metrics.AvgUserWords))
	fmt.Fprintf(&b, "- Average Assistant Message Length: %s words\n", trimFloat(metrics.AvgAssistantWords))
	fmt.Fprintf(&b, "- Conversation Ratio (Assistant/User): %s\n", metrics.ConversationRatio)

	b.WriteString("\nCONVERSATION ANALYSIS FACTORS:\n")
	fmt.Fprintf(&b, "- Message Length Impact: %s\n", lengthDescriptor(metrics.AvgUserWords))
	fmt.Fprintf(&b, "- Engagement Level: %s\n", engagementDescriptor(metrics.ConversationRatio))
	fmt.Fprintf(&b, "- Conversation Depth: %s\n", depthDescriptor(metrics.TotalMessages))
	fmt.Fprintf(&b, "- Response Quality: %s\n", inputDescriptor(metrics.TotalUserWords))

	b.WriteString(`
IMPORTANT: Respond with ONLY this exact JSON structure (no other text):

{
  "scores": {
    "professionalism": number (0-10),
    "tone": number (0-10),
    "clarity": number (0-10),
    "empathy": number (0-10),
    "overall": number (0-10)
  },
  "good": "2-3 specific sentences about what the user did well, referencing specific moments from the conversation.",
  "improvement": "2-3 specific sentences about what the user could improve, with concrete examples from the conversation.",
  "suggestion": "One actionable, specific tip based on the conversation analysis and scenario requirements."
}
`)

	if scenario != nil {
		b.WriteString("\nSCENARIO ANALYSIS CONTEXT:\n")
		fmt.Fprintf(&b, "- Scenario: %s\n", scenario.Name)
		fmt.Fprintf(&b, "- Description: %s\n", scenario.Description)
		fmt.Fprintf(&b, "- Customer Persona: %s\n", scenario.Persona)
		fmt.Fprintf(&b, "- Difficulty: %s\n", scenario.Difficulty)
		b.WriteString("\nANALYZE THESE SPECIFIC ASPECTS:\n")
		fmt.Fprintf(&b, "1. How well did the user adapt their approach to the %s persona?\n", scenario.Persona)
		fmt.Fprintf(&b, "2. Did they effectively address the key challenges mentioned in \"%s\"?\n", scenario.Description)
		fmt.Fprintf(&b, "3. Was their approach appropriate for the %s difficulty level?\n", scenario.Difficulty)
		b.WriteString(`4. How well did they handle the specific requirements of this scenario?
5. Did they demonstrate understanding of the customer's needs and pain points?
6. How effectively did they use sales techniques appropriate for this scenario?

SCORING GUIDELINES:
- Professionalism: Evaluate business etiquette, preparation, and professional conduct
- Tone: Assess communication style, friendliness, and rapport building
- Clarity: Measure how clearly the user communicated their points and understood customer responses
- Empathy: Evaluate understanding of customer needs and emotional intelligence
- Overall: Consider the complete performance in context of this specific scenario
`)
	}

	b.WriteString(`
CONVERSATION ANALYSIS GUIDELINES:
- Analyze the actual conversation flow and patterns
- Look for specific techniques used (open questions, active listening, objection handling, etc.)
- Identify missed opportunities and successful moments
- Consider the natural progression of the conversation
- Evaluate how well the user adapted to customer responses
- Assess the effectiveness of their closing or follow-up approach
- Consider message length patterns and conversation balance

DYNAMIC SCORING CRITERIA (VARY BASED ON ACTUAL PERFORMANCE):
- 9-10: Exceptional performance with clear examples from the conversation
- 7-8: Good performance with room for improvement
- 5-6: Average performance with several areas needing work
- 3-4: Below average with significant improvement needed
- 1-2: Poor performance requiring major changes
- 0: No meaningful interaction or completely inappropriate approach

SCORE VARIATION REQUIREMENTS:
- DO NOT give the same score for all categories unless the performance is truly identical
- Vary scores based on different aspects of the conversation
- Use the conversation metrics to influence scoring

FEEDBACK REQUIREMENTS:
- Reference specific moments from the conversation
- Provide concrete, actionable advice
- Be constructive and encouraging while honest
- All numeric scores must be between 0 and 10 (no strings)
- Text fields must be specific and tailored to this conversation
- Do NOT include chat history, commentary, or any text outside the JSON
- Return ONLY valid JSON
`)

	return b.String()
}

func lengthDescriptor(avgUserWords float64) string {
	switch {
	case avgUserWords < 10:
		return "Short responses may indicate lack of detail"
	case avgUserWords > 50:
		return "Long responses may indicate thoroughness or verbosity"
	default:
		return "Balanced response length"
	}
}

func engagementDescriptor(ratio string) string {
	r, err := strconv.ParseFloat(ratio, 64)
	if err != nil {
		r = 0
	}
	switch {
	case r > 1.5:
		return "High customer engagement"
	case r < 0.5:
		return "Low customer engagement"
	default:
		return "Moderate customer engagement"
	}
}

func depthDescriptor(totalMessages int) string {
	switch {
	case totalMessages < 4:
		return "Brief conversation"
	case totalMessages > 10:
		return "Detailed conversation"
	default:
		return "Standard conversation length"
	}
}

func inputDescriptor(totalUserWords int) string {
	switch {
	case totalUserWords < 50:
		return "Minimal user input"
	case totalUserWords > 200:
		return "Comprehensive user input"
	default:
		return "Moderate user input"
	}
}

// trimFloat renders 3.0 as "3" and 2.5 as "2.5", keeping the prompt free
// of trailing zero noise.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
