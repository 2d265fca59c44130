package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by the store when a conversation does not exist
// or is not owned by the requesting user.
var ErrNotFound = errors.New("not found")

// ConversationStore persists conversations and their messages, keyed by
// the authenticated user identity.
type ConversationStore interface {
	CreateConversation(ctx context.Context, userID, title string) (Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	RenameConversation(ctx context.Context, userID, conversationID, title string) error
	DeleteConversation(ctx context.Context, userID, conversationID string) error

	AppendMessage(ctx context.Context, userID, conversationID string, msg ChatMessage) (StoredMessage, error)
	ListMessages(ctx context.Context, userID, conversationID string) ([]StoredMessage, error)
}
