package cli

import (
	"github.com/dmitrijs2005/datalyn/internal/client/client"
	"github.com/urfave/cli/v2"
)

func (a *App) settingsCmd() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change account settings",
		Action: func(c *cli.Context) error {
			return a.showSettings(c)
		},
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show account settings",
				Action: a.showSettings,
			},
			{
				Name:  "update",
				Usage: "Change account settings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.BoolFlag{Name: "email-notifications"},
					&cli.StringFlag{Name: "report-schedule", Usage: "daily, weekly or monthly"},
				},
				Action: func(c *cli.Context) error {
					var upd client.SettingsUpdate
					if c.IsSet("name") {
						v := c.String("name")
						upd.Name = &v
					}
					if c.IsSet("email-notifications") {
						v := c.Bool("email-notifications")
						upd.EmailNotifications = &v
					}
					if c.IsSet("report-schedule") {
						v := c.String("report-schedule")
						upd.ReportSchedule = &v
					}
					if err := a.api.UpdateSettings(c.Context, upd); err != nil {
						return requireSession(err)
					}
					a.printf("Settings updated\n")
					return nil
				},
			},
		},
	}
}

func (a *App) showSettings(c *cli.Context) error {
	s, err := a.api.Settings(c.Context)
	if err != nil {
		return requireSession(err)
	}
	a.printf("name:                %s\nemail:               %s\nemail_notifications: %t\nreport_schedule:     %s\n",
		s.Name, s.Email, s.EmailNotifications, s.ReportSchedule)
	return nil
}
