package usecase

import (
	"strings"
	"unicode"

	"github.com/pitchlab/salescoach/domain"
)

// MaxMessageLength bounds each message's contribution to the prompt.
const MaxMessageLength = 3000

// SanitizeMessages normalizes a raw client transcript into a safe, bounded
// message list. Entries without a user/assistant role or with empty
// trimmed content are dropped; content is stripped to a conservative
// character allow-list and truncated. Ordering is preserved and no
// role-pairing is enforced.
//
// Canonical allow-list: word characters, whitespace, and `. , ! ? ' " -`.
// Quotes and apostrophes are kept so the model sees direct speech intact.
func SanitizeMessages(raw []domain.ChatMessage) []domain.ChatMessage {
	sanitized := make([]domain.ChatMessage, 0, len(raw))
	for _, msg := range raw {
		if msg.Role != domain.UserRole && msg.Role != domain.AssistantRole {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		content = strings.TrimSpace(stripDisallowed(content))
		if runes := []rune(content); len(runes) > MaxMessageLength {
			content = string(runes[:MaxMessageLength])
		}
		sanitized = append(sanitized, domain.ChatMessage{
			Role:    msg.Role,
			Content: content,
		})
	}
	return sanitized
}

func stripDisallowed(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowedRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowedRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', '!', '?', '\'', '"', '-':
		return true
	}
	return false
}
