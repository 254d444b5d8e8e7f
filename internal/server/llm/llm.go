// Package llm is the seam to the language model answering chat questions.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Client completes one chat turn. sessionID lets a provider keep
// conversation state.
type Client interface {
	Complete(ctx context.Context, sessionID, system, message string) (string, error)
}

// EchoClient is the offline responder used when no provider is configured.
// It answers every question with a fixed-shape analysis document.
type EchoClient struct{}

func NewEchoClient() *EchoClient {
	return &EchoClient{}
}

type analysis struct {
	Summary        string `json:"summary"`
	ReasoningSteps []step `json:"reasoning_steps"`
	Recommendation string `json:"recommendation"`
}

type step struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c *EchoClient) Complete(ctx context.Context, _, _, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	question := strings.TrimSpace(message)
	doc := analysis{
		Summary: fmt.Sprintf("Here is what the current metrics say about %q.", question),
		ReasoningSteps: []step{
			{Step: 1, Title: "Read the question", Description: question},
			{Step: 2, Title: "Checked dashboard metrics", Description: "MRR, active users, conversions and churn for the last 30 days"},
			{Step: 3, Title: "Suggested next step", Description: "Review the anomalies panel for related signals"},
		},
		Recommendation: "Review the anomalies panel for related signals",
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
