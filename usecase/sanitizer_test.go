package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchlab/salescoach/domain"
)

func TestSanitizeMessages_DropsInvalidEntries(t *testing.T) {
	raw := []domain.ChatMessage{
		{Role: domain.UserRole, Content: "  Hello there  "},
		{Role: "system", Content: "should be dropped"},
		{Role: domain.AssistantRole, Content: "   "},
		{Role: "", Content: "no role"},
		{Role: domain.AssistantRole, Content: "Kept reply"},
	}

	got := SanitizeMessages(raw)

	assert.Len(t, got, 2)
	assert.Equal(t, domain.UserRole, got[0].Role)
	assert.Equal(t, "Hello there", got[0].Content)
	assert.Equal(t, "Kept reply", got[1].Content)
}

func TestSanitizeMessages_StripsDisallowedCharacters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keeps quotes and apostrophes", `He said "it's fine!"`, `He said "it's fine!"`},
		{"keeps sentence punctuation", "Wait, really? Yes - always.", "Wait, really? Yes - always."},
		{"drops symbols", "price: $100 (50% off) <now>", "price 100 50 off now"},
		{"drops emoji", "Great job 🎉🎉", "Great job"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeMessages([]domain.ChatMessage{{Role: domain.UserRole, Content: tt.in}})
			assert.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Content)
		})
	}
}

func TestSanitizeMessages_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", MaxMessageLength+500)

	got := SanitizeMessages([]domain.ChatMessage{{Role: domain.UserRole, Content: long}})

	assert.Len(t, got, 1)
	assert.Len(t, got[0].Content, MaxMessageLength)
}

func TestSanitizeMessages_PreservesOrderWithoutRolePairing(t *testing.T) {
	raw := []domain.ChatMessage{
		{Role: domain.UserRole, Content: "first"},
		{Role: domain.UserRole, Content: "second"},
		{Role: domain.UserRole, Content: "third"},
	}

	got := SanitizeMessages(raw)

	assert.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Equal(t, "third", got[2].Content)
}

func TestSanitizeMessages_EmptyInput(t *testing.T) {
	assert.Empty(t, SanitizeMessages(nil))
	assert.Empty(t, SanitizeMessages([]domain.ChatMessage{}))
}
