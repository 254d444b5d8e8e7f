package models

import "time"

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ReasoningStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ChatMessage struct {
	ID             string          `json:"id"`
	SessionID      string          `json:"session_id"`
	UserID         string          `json:"user_id"`
	Role           string          `json:"role"`
	Content        string          `json:"content"`
	ReasoningSteps []ReasoningStep `json:"reasoning_steps,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ChatSession summarises the latest message of one conversation.
type ChatSession struct {
	SessionID   string    `json:"session_id"`
	LastMessage string    `json:"last_message"`
	LastUpdated time.Time `json:"last_updated"`
}
