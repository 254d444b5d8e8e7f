package chatmessages

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/datalyn/internal/dbx"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	query :=
		`INSERT INTO chat_messages (id, session_id, user_id, role, content, reasoning_steps, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	// nil steps are stored as SQL NULL
	var steps any
	if len(msg.ReasoningSteps) > 0 {
		b, err := json.Marshal(msg.ReasoningSteps)
		if err != nil {
			return fmt.Errorf("encode reasoning steps: %w", err)
		}
		steps = b
	}

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.SessionID, msg.UserID, msg.Role, msg.Content, steps, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error) {
	query :=
		`SELECT id, session_id, user_id, role, content, reasoning_steps, created_at FROM chat_messages
		 WHERE user_id = $1 AND session_id = $2
		 ORDER BY created_at ASC
		 LIMIT $3
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, sessionID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.ChatMessage{}

	for rows.Next() {
		var (
			m     models.ChatMessage
			steps []byte
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &m.Role, &m.Content, &steps, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(steps) > 0 {
			if err := json.Unmarshal(steps, &m.ReasoningSteps); err != nil {
				return nil, fmt.Errorf("decode reasoning steps: %w", err)
			}
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error) {
	query :=
		`SELECT session_id, content, created_at FROM (
		   SELECT DISTINCT ON (session_id) session_id, content, created_at
		   FROM chat_messages
		   WHERE user_id = $1
		   ORDER BY session_id, created_at DESC
		 ) latest
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.ChatSession{}

	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.SessionID, &s.LastMessage, &s.LastUpdated); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
