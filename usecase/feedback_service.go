package usecase

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pitchlab/salescoach/domain"
	"github.com/pitchlab/salescoach/utils/log"
)

// Completion parameters for the feedback call. Low temperature favors
// consistent, parseable output over creativity.
const (
	feedbackTemperature = 0.3
	feedbackTopP        = 0.8
	feedbackMaxTokens   = 800
)

// FeedbackTopic carries completed feedback runs on the message broker.
const FeedbackTopic = "feedback.results"

// FeedbackResult is what one pipeline run produces. Feedback is always
// schema-valid; Fallback/Reason record how it was obtained.
type FeedbackResult struct {
	RunID    string
	Feedback domain.FeedbackPayload
	Fallback bool
	Reason   string
}

type FeedbackService struct {
	llm    domain.Llm
	hasher domain.Hasher
	broker domain.MessageBroker
}

func NewFeedbackService(llm domain.Llm, hasher domain.Hasher, broker domain.MessageBroker) *FeedbackService {
	return &FeedbackService{llm: llm, hasher: hasher, broker: broker}
}

// Generate runs the full pipeline: sanitize, analyze, compose, complete,
// extract, validate. Every internal failure degrades to a fallback
// payload; the only errors this method can't absorb are owned by the
// HTTP layer (bad input, missing credential).
func (s *FeedbackService) Generate(ctx context.Context, userID string, raw []domain.ChatMessage, scenario *domain.Scenario) FeedbackResult {
	messages := SanitizeMessages(raw)
	runID := s.fingerprint(messages)
	logger := log.WithCtx(ctx).With(zap.String("run_id", runID))

	if len(messages) == 0 {
		logger.Warn("no valid messages after sanitization")
		return s.finish(ctx, userID, FeedbackResult{
			RunID:    runID,
			Feedback: FallbackFeedback(ReasonNoValidMessages),
			Fallback: true,
			Reason:   ReasonNoValidMessages,
		})
	}

	metrics := AnalyzeConversationMetrics(messages)
	prompt := ComposeFeedbackPrompt(metrics, scenario)
	logger.Info("requesting feedback completion",
		zap.Int("message_count", metrics.TotalMessages),
		zap.Int("prompt_length", len(prompt)))

	stream, err := s.llm.StreamCompletion(ctx, domain.CompletionRequest{
		System:      prompt,
		Messages:    messages,
		Temperature: feedbackTemperature,
		TopP:        feedbackTopP,
		MaxTokens:   feedbackMaxTokens,
	})
	if err != nil {
		logger.Error("starting completion stream", zap.Error(err))
		return s.finish(ctx, userID, FeedbackResult{
			RunID:    runID,
			Feedback: FallbackFeedback(ReasonTransport),
			Fallback: true,
			Reason:   ReasonTransport,
		})
	}

	fullText, err := accumulate(stream)
	if err != nil {
		logger.Error("reading completion stream", zap.Error(err))
		return s.finish(ctx, userID, FeedbackResult{
			RunID:    runID,
			Feedback: FallbackFeedback(ReasonTransport),
			Fallback: true,
			Reason:   ReasonTransport,
		})
	}

	if strings.TrimSpace(fullText) == "" {
		logger.Warn("model returned empty response")
		return s.finish(ctx, userID, FeedbackResult{
			RunID:    runID,
			Feedback: FallbackFeedback(ReasonEmptyResponse),
			Fallback: true,
			Reason:   ReasonEmptyResponse,
		})
	}

	parsed, err := ExtractFeedback(fullText)
	if err != nil {
		logger.Warn("could not extract feedback JSON",
			zap.Error(err),
			zap.Int("response_length", len(fullText)))
		return s.finish(ctx, userID, FeedbackResult{
			RunID:    runID,
			Feedback: FallbackFeedback(ReasonParseFailure),
			Fallback: true,
			Reason:   ReasonParseFailure,
		})
	}

	feedback, ok := ValidateFeedback(parsed)
	if !ok {
		logger.Warn("model output failed validation")
		return s.finish(ctx, userID, FeedbackResult{
			RunID:    runID,
			Feedback: FallbackFeedback(ReasonInvalidFormat),
			Fallback: true,
			Reason:   ReasonInvalidFormat,
		})
	}

	logger.Info("feedback generated", zap.Float64("overall", feedback.Scores.Overall))
	return s.finish(ctx, userID, FeedbackResult{RunID: runID, Feedback: feedback})
}

// accumulate folds the stream into a single buffer. Chunks are awaited
// and appended sequentially; nothing overlaps the network reads.
func accumulate(stream domain.CompletionStream) (string, error) {
	var b strings.Builder
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		b.WriteString(chunk)
	}
}

// finish publishes the run on the broker (best effort) and returns it.
func (s *FeedbackService) finish(ctx context.Context, userID string, result FeedbackResult) FeedbackResult {
	if s.broker == nil {
		return result
	}
	event := domain.FeedbackEvent{
		RunID:     result.RunID,
		UserID:    userID,
		Fallback:  result.Fallback,
		Reason:    result.Reason,
		Feedback:  result.Feedback,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithCtx(ctx).Error("marshaling feedback event", zap.Error(err))
		return result
	}
	if err := s.broker.Publish(ctx, FeedbackTopic, "", payload); err != nil {
		log.WithCtx(ctx).Warn("publishing feedback event", zap.Error(err))
	}
	return result
}

// fingerprint identifies a run by the sanitized transcript content, so
// identical transcripts log under the same ID.
func (s *FeedbackService) fingerprint(messages []domain.ChatMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(string(msg.Role))
		b.WriteByte(':')
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	sum := s.hasher.Hash([]byte(b.String()))
	if len(sum) > 16 {
		return sum[:16]
	}
	return sum
}
