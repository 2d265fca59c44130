package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/pitchlab/salescoach/domain"
	"github.com/pitchlab/salescoach/utils/log"
)

const voiceBaseSystemPrompt = `You are a Sales Training AI Agent designed to help sales professionals improve their skills through interactive simulations, personalized coaching, and microlearning.

Your core capabilities:
1. Simulate realistic sales conversations with different customer personas.
2. Evaluate the user's sales responses in real time and give immediate feedback.
3. Track performance and suggest areas of improvement.
4. Deliver bite-sized learning content (micro-lessons and quizzes).
5. Adapt tone, difficulty, and feedback style to match the user's experience level.

Your behavior:
- Stay professional, engaging, and motivational.
- Use realistic business dialogue in roleplays.
- Always end sessions with clear feedback: "What you did well" and "Areas to improve".
- Provide scores for response quality (0-10) and explain the reasoning.
- Use frameworks like SPIN Selling, BANT, AIDA, FAB, or Consultative Selling to guide coaching.
- Speak naturally with appropriate pauses and pacing.
- Give users time to think and respond naturally.

Interaction Flow:
1. Ask the user to choose a practice scenario (e.g., cold call, product demo, closing deal, price objection).
2. Begin the scenario by role-playing a customer with a specific persona and goal.
3. Wait for the user's response and react naturally.
4. After the scenario or at checkpoints, provide detailed coaching feedback.
5. Offer follow-up actions: Retry, New Scenario, Micro-lesson, Quiz, or Exit.

NEVER break character unless asked by the user. Use vivid, business-context language and realistic emotional cues.

Act according to these instructions:`

// VoiceReply is the result of one voice-chat turn.
type VoiceReply struct {
	Text  string
	Audio []byte
}

// VoiceChatService runs a chat completion and then, strictly after the
// text stream finishes, a speech-synthesis call over the cleaned reply.
type VoiceChatService struct {
	llm domain.Llm
	tts domain.SpeechSynthesizer
}

func NewVoiceChatService(llm domain.Llm, tts domain.SpeechSynthesizer) *VoiceChatService {
	return &VoiceChatService{llm: llm, tts: tts}
}

// ReplyText runs the persona completion without synthesis. The onboarding
// chat surface serves this directly; Reply layers speech on top.
func (s *VoiceChatService) ReplyText(ctx context.Context, messages []domain.ChatMessage, scenario *domain.Scenario) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("completion backend is not configured")
	}
	if lastUserContent(messages) == "" {
		return "", fmt.Errorf("no user message found")
	}

	stream, err := s.llm.StreamCompletion(ctx, domain.CompletionRequest{
		System:      voiceSystemPrompt(scenario),
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("starting voice completion: %w", err)
	}

	var b strings.Builder
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading voice completion: %w", err)
		}
		b.WriteString(chunk)
	}
	return b.String(), nil
}

func (s *VoiceChatService) Reply(ctx context.Context, messages []domain.ChatMessage, scenario *domain.Scenario) (VoiceReply, error) {
	fullText, err := s.ReplyText(ctx, messages, scenario)
	if err != nil {
		return VoiceReply{}, err
	}

	processed := ProcessResponseForSpeech(fullText)
	log.WithCtx(ctx).Debug("synthesizing reply",
		zap.Int("text_length", len(fullText)),
		zap.Int("processed_length", len(processed)))

	audio, err := s.tts.Synthesize(ctx, processed)
	if err != nil {
		return VoiceReply{}, fmt.Errorf("synthesizing speech: %w", err)
	}

	return VoiceReply{Text: fullText, Audio: audio}, nil
}

func voiceSystemPrompt(scenario *domain.Scenario) string {
	if scenario == nil || strings.TrimSpace(scenario.Prompt) == "" {
		return voiceBaseSystemPrompt
	}
	prompt := voiceBaseSystemPrompt + "\n\n---\n\nScenario Instructions:\n" + strings.TrimSpace(scenario.Prompt)
	if mode := strings.TrimSpace(scenario.Mode); mode != "" {
		prompt += "\n\n---\n\nMode: " + mode
	}
	return prompt
}
