package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/dbx"
	"github.com/dmitrijs2005/datalyn/internal/logging"
	"github.com/dmitrijs2005/datalyn/internal/server/llm"
	"github.com/dmitrijs2005/datalyn/internal/server/models"
	"github.com/dmitrijs2005/datalyn/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	// SessionListLimit caps the sessions returned by Sessions.
	SessionListLimit = 20
	// PreviewLength is the number of characters kept in a session preview.
	PreviewLength = 60
)

// SystemPrompt instructs the model to answer as a structured analysis.
const SystemPrompt = `You are Datalyn, an expert business analyst AI. When users ask business questions, you must:
1. Break down your analysis into clear reasoning steps
2. State what data you examined
3. Identify patterns or issues
4. Provide actionable recommendations

Format your response as JSON with this structure:
{
  "summary": "Brief answer to the question",
  "reasoning_steps": [
    {"step": 1, "title": "Step title", "description": "What you did"},
    {"step": 2, "title": "Step title", "description": "What you found"},
    {"step": 3, "title": "Step title", "description": "Your recommendation"}
  ],
  "recommendation": "Clear action item"
}

Be specific and use realistic business metrics in your responses.`

var fallbackSteps = []models.ReasoningStep{
	{Step: 1, Title: "Analyzed query", Description: "Processed your business question"},
	{Step: 2, Title: "Retrieved insights", Description: "Examined relevant metrics and patterns"},
	{Step: 3, Title: "Generated recommendation", Description: "Formulated actionable advice based on data"},
}

// ChatReply is the assistant answer to one message.
type ChatReply struct {
	SessionID string
	Message   models.ChatMessage
}

// SessionSummary describes one conversation in the session list.
type SessionSummary struct {
	SessionID   string    `json:"session_id"`
	Preview     string    `json:"preview"`
	LastUpdated time.Time `json:"last_updated"`
}

type ChatService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	llm          llm.Client
	logger       logging.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, client llm.Client,
	logger logging.Logger, storeTimeout time.Duration) *ChatService {
	return &ChatService{
		db:           db,
		repomanager:  m,
		llm:          client,
		logger:       logger,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// SendMessage asks the model and stores the question and the answer
// together. An empty sessionID starts a new session.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID, message string) (*ChatReply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	question := models.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Role:      models.RoleUser,
		Content:   message,
		CreatedAt: s.now().UTC(),
	}

	raw, err := s.llm.Complete(ctx, sessionID, SystemPrompt, message)
	if err != nil {
		s.logger.Error(ctx, "chat completion failed", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrAIService, err)
	}

	content, steps := parseAnswer(raw)
	answer := models.ChatMessage{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		UserID:         userID,
		Role:           models.RoleAssistant,
		Content:        content,
		ReasoningSteps: steps,
		CreatedAt:      s.now().UTC(),
	}
	// keep the pair ordered even when the clock did not move
	if !answer.CreatedAt.After(question.CreatedAt) {
		answer.CreatedAt = question.CreatedAt.Add(time.Microsecond)
	}

	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	err = dbx.WithTx(storeCtx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.ChatMessages(tx)
		if err := repo.Create(ctx, &question); err != nil {
			return err
		}
		return repo.Create(ctx, &answer)
	})
	if err != nil {
		s.logger.Error(ctx, "store chat exchange", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("%w: store chat exchange: %w", common.ErrStoreUnavailable, err)
	}

	return &ChatReply{SessionID: sessionID, Message: answer}, nil
}

// History returns the messages of one of the user's sessions, oldest
// first. Sessions of other users read as empty.
func (s *ChatService) History(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	msgs, err := s.repomanager.ChatMessages(s.db).ListBySession(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return msgs, nil
}

// Sessions lists the user's most recently active sessions.
func (s *ChatService) Sessions(ctx context.Context, userID string) ([]SessionSummary, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	sessions, err := s.repomanager.ChatMessages(s.db).ListSessions(ctx, userID, SessionListLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, cs := range sessions {
		out = append(out, SessionSummary{
			SessionID:   cs.SessionID,
			Preview:     preview(cs.LastMessage),
			LastUpdated: cs.LastUpdated,
		})
	}
	return out, nil
}

// parseAnswer extracts summary and reasoning steps from a JSON answer.
// Anything else is kept verbatim with generic steps.
func parseAnswer(raw string) (string, []models.ReasoningStep) {
	var doc struct {
		Summary        *string                `json:"summary"`
		ReasoningSteps []models.ReasoningStep `json:"reasoning_steps"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &doc); err != nil {
		return raw, fallbackSteps
	}

	content := raw
	if doc.Summary != nil {
		content = *doc.Summary
	}
	steps := doc.ReasoningSteps
	if steps == nil {
		steps = []models.ReasoningStep{}
	}
	return content, steps
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= PreviewLength {
		return s
	}
	return string([]rune(s)[:PreviewLength]) + "..."
}

func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
