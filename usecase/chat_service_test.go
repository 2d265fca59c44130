package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchlab/salescoach/domain"
)

type stubEmbedder struct {
	vector []float32
	err    error
	last   string
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.last = text
	return s.vector, s.err
}

type stubIndex struct {
	matches []domain.IndexMatch
	err     error
	topK    int
}

func (s *stubIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.IndexMatch, error) {
	s.topK = topK
	return s.matches, s.err
}

func TestChatService_SplicesRetrievedContext(t *testing.T) {
	llm := &stubLlm{chunks: []string{"Here is my advice."}}
	embedder := &stubEmbedder{vector: []float32{0.1, 0.2}}
	index := &stubIndex{matches: []domain.IndexMatch{
		{ID: "a", Text: "Dealer margins run 8-12% in tier-2 cities."},
		{ID: "b", Text: "Follow up within 48 hours of a demo."},
	}}
	svc := NewChatService(llm, embedder, index, 5)

	reply, err := svc.Reply(context.Background(), []domain.ChatMessage{
		{Role: domain.UserRole, Content: "How should I follow up with dealers?"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Here is my advice.", reply)
	assert.Equal(t, "How should I follow up with dealers?", embedder.last)
	assert.Equal(t, 5, index.topK)
	assert.Contains(t, llm.lastReq.System, "Dealer margins run 8-12% in tier-2 cities.")
	assert.Contains(t, llm.lastReq.System, "Follow up within 48 hours of a demo.")
}

func TestChatService_RetrievalFailureDegrades(t *testing.T) {
	llm := &stubLlm{chunks: []string{"General advice."}}
	embedder := &stubEmbedder{err: errors.New("quota exceeded")}
	svc := NewChatService(llm, embedder, &stubIndex{}, 5)

	reply, err := svc.Reply(context.Background(), []domain.ChatMessage{
		{Role: domain.UserRole, Content: "Any tips?"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "General advice.", reply)
	assert.Contains(t, llm.lastReq.System, "(No additional context found)")
}

func TestChatService_NoRetrieverConfigured(t *testing.T) {
	llm := &stubLlm{chunks: []string{"ok"}}
	svc := NewChatService(llm, nil, nil, 0)

	_, err := svc.Reply(context.Background(), []domain.ChatMessage{
		{Role: domain.UserRole, Content: "hello"},
	}, nil)

	require.NoError(t, err)
	assert.Contains(t, llm.lastReq.System, "(No additional context found)")
}

func TestChatService_StreamsDeltas(t *testing.T) {
	llm := &stubLlm{chunks: []string{"Hel", "lo ", "there"}}
	svc := NewChatService(llm, nil, nil, 5)

	var deltas []string
	reply, err := svc.Reply(context.Background(), []domain.ChatMessage{
		{Role: domain.UserRole, Content: "hi"},
	}, func(delta string) {
		deltas = append(deltas, delta)
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
	assert.Equal(t, []string{"Hel", "lo ", "there"}, deltas)
}

func TestChatService_NoBackendConfigured(t *testing.T) {
	// Without a Gemini credential the service carries a nil backend; it
	// must answer with an error, not a panic.
	svc := NewChatService(nil, nil, nil, 5)

	_, err := svc.Reply(context.Background(), []domain.ChatMessage{
		{Role: domain.UserRole, Content: "hi"},
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestChatService_EmptyHistoryRejected(t *testing.T) {
	svc := NewChatService(&stubLlm{}, nil, nil, 5)

	_, err := svc.Reply(context.Background(), nil, nil)

	assert.Error(t, err)
}

func TestChatService_TransportErrorPropagates(t *testing.T) {
	llm := &stubLlm{openErr: errors.New("dial timeout")}
	svc := NewChatService(llm, nil, nil, 5)

	_, err := svc.Reply(context.Background(), []domain.ChatMessage{
		{Role: domain.UserRole, Content: "hi"},
	}, nil)

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "starting chat completion"))
}
