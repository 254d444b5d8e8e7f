package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/datalyn/internal/client/client"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// smokeCheck is one step of the smoke run. Steps share state through the
// smokeRun they are called on.
type smokeCheck struct {
	name string
	run  func(ctx context.Context) error
}

type smokeRun struct {
	api      *client.APIClient
	email    string
	password string
	name     string

	signupToken string
	loginToken  string
	userID      string
	sessionID   string
}

func (a *App) smokeCmd() *cli.Command {
	var keep bool
	return &cli.Command{
		Name:  "smoke",
		Usage: "Exercise every endpoint with a throwaway account",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "keep", Usage: "do not delete the test account", Destination: &keep},
		},
		Action: func(c *cli.Context) error {
			// a separate client so the cached session is left alone
			api, err := client.NewAPIClient(a.config.ServerURL, a.config.RequestTimeout)
			if err != nil {
				return err
			}
			id := uuid.NewString()
			r := &smokeRun{
				api:      api,
				email:    "smoke-" + id[:8] + "@example.com",
				password: "smoke-" + id,
				name:     "Smoke Test",
			}

			checks := r.checks()
			if !keep {
				checks = append(checks, smokeCheck{"delete account", r.deleteAccount})
			}

			failed := 0
			for _, ch := range checks {
				if err := ch.run(c.Context); err != nil {
					failed++
					a.printf("FAIL %s: %v\n", ch.name, err)
					continue
				}
				a.printf("PASS %s\n", ch.name)
			}

			a.printf("%d/%d checks passed\n", len(checks)-failed, len(checks))
			if failed > 0 {
				return fmt.Errorf("%d smoke checks failed", failed)
			}
			return nil
		},
	}
}

func (r *smokeRun) checks() []smokeCheck {
	return []smokeCheck{
		{"health", r.api.Health},
		{"signup", r.signup},
		{"duplicate signup", r.duplicateSignup},
		{"login", r.login},
		{"me", r.me},
		{"me with signup token", r.meWithSignupToken},
		{"wrong password", r.wrongPassword},
		{"unknown email", r.unknownEmail},
		{"invalid token", r.invalidToken},
		{"dashboard metrics", r.metrics},
		{"chat message", r.chatMessage},
		{"chat history", r.chatHistory},
		{"chat sessions", r.chatSessions},
		{"integrations", r.integrations},
		{"settings", r.settings},
	}
}

func (r *smokeRun) signup(ctx context.Context) error {
	res, err := r.api.Signup(ctx, r.email, r.password, r.name)
	if err != nil {
		return err
	}
	if res.Token == "" || res.User.ID == "" {
		return errors.New("missing token or user id")
	}
	r.signupToken, r.userID = res.Token, res.User.ID
	return nil
}

func (r *smokeRun) duplicateSignup(ctx context.Context) error {
	token := r.api.Token()
	defer r.api.SetToken(token)

	_, err := r.api.Signup(ctx, r.email, r.password, r.name)
	return expectAPIError(err, http.StatusBadRequest, "duplicate_email")
}

func (r *smokeRun) login(ctx context.Context) error {
	res, err := r.api.Login(ctx, r.email, r.password)
	if err != nil {
		return err
	}
	if res.User.ID != r.userID {
		return fmt.Errorf("user id %q, want %q", res.User.ID, r.userID)
	}
	if res.Token == r.signupToken {
		return errors.New("login returned the signup token")
	}
	r.loginToken = res.Token
	return nil
}

func (r *smokeRun) me(ctx context.Context) error {
	u, err := r.api.Me(ctx)
	if err != nil {
		return err
	}
	if u.ID != r.userID || u.Email != r.email || u.Name != r.name {
		return fmt.Errorf("unexpected user %+v", *u)
	}
	return nil
}

func (r *smokeRun) meWithSignupToken(ctx context.Context) error {
	r.api.SetToken(r.signupToken)
	defer r.api.SetToken(r.loginToken)
	return r.me(ctx)
}

func (r *smokeRun) wrongPassword(ctx context.Context) error {
	token := r.api.Token()
	defer r.api.SetToken(token)

	_, err := r.api.Login(ctx, r.email, r.password+"-wrong")
	return expectAPIError(err, http.StatusUnauthorized, "invalid_credentials")
}

func (r *smokeRun) unknownEmail(ctx context.Context) error {
	token := r.api.Token()
	defer r.api.SetToken(token)

	_, err := r.api.Login(ctx, "nobody-"+r.email, r.password)
	return expectAPIError(err, http.StatusUnauthorized, "invalid_credentials")
}

func (r *smokeRun) invalidToken(ctx context.Context) error {
	token := r.api.Token()
	defer r.api.SetToken(token)

	r.api.SetToken("not-a-token")
	_, err := r.api.Me(ctx)
	return expectAPIError(err, http.StatusUnauthorized, "unauthorized")
}

func (r *smokeRun) metrics(ctx context.Context) error {
	m, err := r.api.Metrics(ctx)
	if err != nil {
		return err
	}
	if len(m.ChartData) == 0 {
		return errors.New("no chart data")
	}
	return nil
}

func (r *smokeRun) chatMessage(ctx context.Context) error {
	reply, err := r.api.SendMessage(ctx, "", "What are my key metrics?")
	if err != nil {
		return err
	}
	if reply.SessionID == "" || reply.Message.Role != "assistant" {
		return fmt.Errorf("unexpected reply %+v", *reply)
	}
	r.sessionID = reply.SessionID
	return nil
}

func (r *smokeRun) chatHistory(ctx context.Context) error {
	msgs, err := r.api.ChatHistory(ctx, r.sessionID)
	if err != nil {
		return err
	}
	if len(msgs) != 2 {
		return fmt.Errorf("got %d messages, want 2", len(msgs))
	}
	return nil
}

func (r *smokeRun) chatSessions(ctx context.Context) error {
	sessions, err := r.api.ChatSessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if s.SessionID == r.sessionID {
			return nil
		}
	}
	return fmt.Errorf("session %s not listed", r.sessionID)
}

func (r *smokeRun) integrations(ctx context.Context) error {
	list, err := r.api.Integrations(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return errors.New("no integrations")
	}
	_, err = r.api.ToggleIntegration(ctx, list[0].ID)
	return err
}

func (r *smokeRun) settings(ctx context.Context) error {
	schedule := "daily"
	if err := r.api.UpdateSettings(ctx, client.SettingsUpdate{ReportSchedule: &schedule}); err != nil {
		return err
	}
	s, err := r.api.Settings(ctx)
	if err != nil {
		return err
	}
	if s.ReportSchedule != schedule || s.Email != r.email {
		return fmt.Errorf("unexpected settings %+v", *s)
	}
	return nil
}

func (r *smokeRun) deleteAccount(ctx context.Context) error {
	token := r.api.Token()
	if err := r.api.DeleteAccount(ctx); err != nil {
		return err
	}
	r.api.SetToken(token)
	_, err := r.api.Me(ctx)
	return expectAPIError(err, http.StatusUnauthorized, "unauthorized")
}

func expectAPIError(err error, status int, code string) error {
	if err == nil {
		return fmt.Errorf("expected http %d %s, got success", status, code)
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Status != status || apiErr.Code != code {
		return fmt.Errorf("expected http %d %s, got %v", status, code, apiErr)
	}
	return nil
}
