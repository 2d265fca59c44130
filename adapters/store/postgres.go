package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/pitchlab/salescoach/domain"
)

// PostgresStore persists conversations and messages. Every query is
// scoped by user ID so one user can never touch another's rows.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// NewPostgresFromDB wraps an existing connection; used by tests.
func NewPostgresFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateConversation(ctx context.Context, userID, title string) (domain.Conversation, error) {
	conv := domain.Conversation{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO conversations (id, user_id, title)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		conv.ID, userID, title,
	).Scan(&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, nil
}

func (s *PostgresStore) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM conversations
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	conversations := []domain.Conversation{}
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (s *PostgresStore) RenameConversation(ctx context.Context, userID, conversationID, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET title = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3`,
		title, conversationID, userID,
	)
	if err != nil {
		return fmt.Errorf("renaming conversation: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = $1 AND user_id = $2`,
		conversationID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) AppendMessage(ctx context.Context, userID, conversationID string, msg domain.ChatMessage) (domain.StoredMessage, error) {
	stored := domain.StoredMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           msg.Role,
		Content:        msg.Content,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content)
		 SELECT $1, c.id, $3, $4
		 FROM conversations c
		 WHERE c.id = $2 AND c.user_id = $5
		 RETURNING created_at`,
		stored.ID, conversationID, string(msg.Role), msg.Content, userID,
	).Scan(&stored.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.StoredMessage{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.StoredMessage{}, fmt.Errorf("appending message: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, userID, conversationID string) ([]domain.StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.conversation_id, m.role, m.content, m.created_at
		 FROM messages m
		 JOIN conversations c ON c.id = m.conversation_id
		 WHERE m.conversation_id = $1 AND c.user_id = $2
		 ORDER BY m.created_at ASC`,
		conversationID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.StoredMessage{}
	for rows.Next() {
		var m domain.StoredMessage
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = domain.Role(role)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
