package cli

import (
	"errors"
	"strings"

	"github.com/urfave/cli/v2"
)

func (a *App) chatCmd() *cli.Command {
	var session string
	return &cli.Command{
		Name:      "chat",
		Usage:     "Ask the analytics assistant a question",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Usage: "continue an existing session", Destination: &session},
		},
		Action: func(c *cli.Context) error {
			message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if message == "" {
				return errors.New("message is required")
			}

			reply, err := a.api.SendMessage(c.Context, session, message)
			if err != nil {
				return requireSession(err)
			}

			a.printf("%s\n", reply.Message.Content)
			for _, s := range reply.Message.ReasoningSteps {
				a.printf("  %d. %s: %s\n", s.Step, s.Title, s.Description)
			}
			a.printf("(session %s)\n", reply.SessionID)
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "sessions",
				Usage: "List recent chat sessions",
				Action: func(c *cli.Context) error {
					sessions, err := a.api.ChatSessions(c.Context)
					if err != nil {
						return requireSession(err)
					}
					for _, s := range sessions {
						a.printf("%s  %s  %s\n", s.SessionID, s.LastUpdated.Format("2006-01-02 15:04"), s.Preview)
					}
					return nil
				},
			},
		},
	}
}
