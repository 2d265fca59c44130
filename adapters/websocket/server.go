package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pitchlab/salescoach/domain"
	"github.com/pitchlab/salescoach/usecase"
	"github.com/pitchlab/salescoach/utils/log"
)

// Inbound/outbound frame types for a training session.
const (
	TypeUserMessage      = "user_message"
	TypeAssistantDelta   = "assistant_delta"
	TypeAssistantMessage = "assistant_message"
	TypeFeedback         = "feedback"
	TypeError            = "error"
)

type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type outboundFrame struct {
	Type     string                  `json:"type"`
	Text     string                  `json:"text,omitempty"`
	RunID    string                  `json:"run_id,omitempty"`
	Fallback bool                    `json:"fallback,omitempty"`
	Feedback *domain.FeedbackPayload `json:"feedback,omitempty"`
	Message  string                  `json:"message,omitempty"`
}

type Server struct {
	upgrader websocket.Upgrader
	svc      *usecase.ChatService
	broker   domain.MessageBroker
	hub      *Hub
}

func NewServer(svc *usecase.ChatService, broker domain.MessageBroker) *Server {
	server := &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		svc:      svc,
		broker:   broker,
		hub:      NewHub(),
	}

	go server.startFeedbackListener()

	return server
}

func (s *Server) RunWebsocketHub() {
	s.hub.Run()
}

func (s *Server) GetHub() *Hub {
	return s.hub
}

// handleFrame processes one inbound frame: a user turn is answered with
// streamed assistant deltas followed by the full reply.
func (s *Server) handleFrame(ctx context.Context, c *Client, payload []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		s.sendFrame(c, outboundFrame{Type: TypeError, Message: "invalid frame"})
		return
	}

	if frame.Type != TypeUserMessage || frame.Content == "" {
		s.sendFrame(c, outboundFrame{Type: TypeError, Message: "unsupported frame type"})
		return
	}

	c.AppendHistory(domain.ChatMessage{Role: domain.UserRole, Content: frame.Content})

	reply, err := s.svc.Reply(ctx, c.History(), func(delta string) {
		s.sendFrame(c, outboundFrame{Type: TypeAssistantDelta, Text: delta})
	})
	if err != nil {
		log.WithCtx(ctx).Error("chat reply failed", zap.Error(err))
		s.sendFrame(c, outboundFrame{Type: TypeError, Message: "failed to generate reply"})
		return
	}

	c.AppendHistory(domain.ChatMessage{Role: domain.AssistantRole, Content: reply})
	s.sendFrame(c, outboundFrame{Type: TypeAssistantMessage, Text: reply})
}

func (s *Server) sendFrame(c *Client, frame outboundFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.WithCtx(c.ctx).Error("marshaling frame", zap.Error(err))
		return
	}
	c.SendMessage(data)
}

// startFeedbackListener relays completed feedback runs from the broker to
// the owning user's open sessions.
func (s *Server) startFeedbackListener() {
	ctx := context.Background()

	messageChan, err := s.broker.Subscribe(ctx, usecase.FeedbackTopic, "")
	if err != nil {
		log.WithCtx(ctx).Error("failed to subscribe to feedback topic", zap.Error(err))
		return
	}

	log.WithCtx(ctx).Info("websocket server listening for feedback events")

	for {
		select {
		case msg, ok := <-messageChan:
			if !ok {
				return
			}

			var event domain.FeedbackEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.WithCtx(ctx).Error("failed to unmarshal feedback event", zap.Error(err))
				continue
			}
			if event.UserID == "" {
				continue
			}

			data, err := json.Marshal(outboundFrame{
				Type:     TypeFeedback,
				RunID:    event.RunID,
				Fallback: event.Fallback,
				Feedback: &event.Feedback,
			})
			if err != nil {
				log.WithCtx(ctx).Error("failed to marshal feedback frame", zap.Error(err))
				continue
			}

			if err := s.hub.SendToUser(event.UserID, data); err != nil {
				log.WithCtx(ctx).Debug("feedback event not delivered", zap.Error(err))
			}

		case <-ctx.Done():
			return
		}
	}
}
