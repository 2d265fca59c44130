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

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1000
)

const chatSystemPromptTemplate = `You are the Sales Training Expert for an IT company.

Your job is to help sales trainees with practical insights on product selling, marketing strategy, dealer engagement, retail expansion, and competitive positioning in the IT sector.

Please strictly follow these behavior rules:

1. Identity: Never mention that you are an AI, Gemini, or chatbot. Always identify yourself as the "Sales Training Expert".

2. Greetings: For simple greetings like "Hi" or "Hello", respond warmly and briefly. Do not mention sales or strategy unless the user does.

3. Handling Questions:
   - Provide actionable business advice on queries like dealer follow-up, outlet expansion, and sales objections, even if detailed context is missing.
   - If specific internal data is requested and not found in the context, state: "That specific detail is not available," but still suggest general solutions.
   - Use the following context if relevant:

%s

4. Tone and Style: Be clear, professional, and concise. Avoid generic advice or motivational fluff. Focus on helping sales trainees succeed in the field.`

// ChatService answers trainee questions, splicing retrieved knowledge-base
// context into the system prompt when the retrieval path succeeds.
type ChatService struct {
	llm      domain.Llm
	embedder domain.Embedder
	index    domain.VectorIndex
	topK     int
}

func NewChatService(llm domain.Llm, embedder domain.Embedder, index domain.VectorIndex, topK int) *ChatService {
	if topK <= 0 {
		topK = 5
	}
	return &ChatService{llm: llm, embedder: embedder, index: index, topK: topK}
}

// Reply generates a full assistant reply for the message history. onDelta,
// when non-nil, receives each streamed chunk as it arrives so transports
// like the WebSocket session can forward partial text.
func (s *ChatService) Reply(ctx context.Context, messages []domain.ChatMessage, onDelta func(string)) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("completion backend is not configured")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("empty message history")
	}

	context_ := s.retrieveContext(ctx, lastUserContent(messages))
	system := fmt.Sprintf(chatSystemPromptTemplate, context_)

	stream, err := s.llm.StreamCompletion(ctx, domain.CompletionRequest{
		System:      system,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("starting chat completion: %w", err)
	}

	var b strings.Builder
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading chat completion: %w", err)
		}
		if onDelta != nil && chunk != "" {
			onDelta(chunk)
		}
		b.WriteString(chunk)
	}
	return b.String(), nil
}

// retrieveContext embeds the query and fetches nearest-neighbor records.
// Retrieval is best effort: any failure degrades to an empty context
// marker rather than failing the chat.
func (s *ChatService) retrieveContext(ctx context.Context, query string) string {
	const noContext = "(No additional context found)"
	if s.embedder == nil || s.index == nil || strings.TrimSpace(query) == "" {
		return noContext
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.WithCtx(ctx).Warn("embedding query failed", zap.Error(err))
		return noContext
	}

	matches, err := s.index.Query(ctx, vector, s.topK)
	if err != nil {
		log.WithCtx(ctx).Warn("vector index query failed", zap.Error(err))
		return noContext
	}

	chunks := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Text != "" {
			chunks = append(chunks, m.Text)
		}
	}
	if len(chunks) == 0 {
		return noContext
	}
	return strings.Join(chunks, "\n\n")
}

func lastUserContent(messages []domain.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.UserRole {
			return messages[i].Content
		}
	}
	return ""
}
