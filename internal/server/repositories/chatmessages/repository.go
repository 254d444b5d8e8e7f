// Package chatmessages stores the assistant conversation history.
package chatmessages

import (
	"context"

	"github.com/dmitrijs2005/datalyn/internal/server/models"
)

// HistoryLimit caps the number of messages returned for one session.
const HistoryLimit = 1000

type Repository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error

	// ListBySession returns the messages of one session owned by userID,
	// oldest first.
	ListBySession(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error)

	// ListSessions returns the latest message of each session owned by
	// userID, most recently updated first.
	ListSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error)
}
