package chat

import (
	"time"

	"github.com/yanqian/ecosense/pkg/metrics"
)

// Roles used in stored conversations.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FallbackMessage replaces the assistant reply whenever the completion provider fails.
const FallbackMessage = "I apologize, but I encountered an issue while processing your request. Please try again later."

// Message is one turn of a conversation.
type Message struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	TokenCount int       `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Completion is a provider reply.
type Completion struct {
	Content string
	Usage   metrics.TokenUsage
}

// Reply is returned to the caller after a message is sent.
type Reply struct {
	Message  string              `json:"message"`
	Fallback bool                `json:"-"`
	Usage    *metrics.TokenUsage `json:"usage,omitempty"`
}

// Config drives prompt assembly and history retention.
type Config struct {
	SystemPrompt    string
	MaxPromptTokens int
	HistoryLimit    int
}
