package cli

import (
	"github.com/urfave/cli/v2"
)

func (a *App) signupCmd() *cli.Command {
	var email, password, name string
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account and log in (password is prompted when not given)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Destination: &email},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Destination: &name},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Destination: &password},
		},
		Action: func(c *cli.Context) error {
			email, err := a.prompted(email, "Enter email")
			if err != nil {
				return err
			}
			name, err := a.prompted(name, "Enter name")
			if err != nil {
				return err
			}
			password, err := a.password(password)
			if err != nil {
				return err
			}

			res, err := a.api.Signup(c.Context, email, password, name)
			if err != nil {
				return err
			}
			if err := a.tokens.Save(res.Token); err != nil {
				return err
			}

			a.printf("Signed up as %s <%s> (id %s)\n", res.User.Name, res.User.Email, res.User.ID)
			return nil
		},
	}
}

func (a *App) loginCmd() *cli.Command {
	var email, password string
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and cache the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Destination: &email},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Destination: &password},
		},
		Action: func(c *cli.Context) error {
			email, err := a.prompted(email, "Enter email")
			if err != nil {
				return err
			}
			password, err := a.password(password)
			if err != nil {
				return err
			}

			res, err := a.api.Login(c.Context, email, password)
			if err != nil {
				return err
			}
			if err := a.tokens.Save(res.Token); err != nil {
				return err
			}

			a.printf("Logged in as %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}
}

func (a *App) logoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the cached session token",
		Action: func(c *cli.Context) error {
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func (a *App) meCmd() *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Show the logged in user",
		Action: func(c *cli.Context) error {
			u, err := a.api.Me(c.Context)
			if err != nil {
				return requireSession(err)
			}
			a.printf("id:    %s\nemail: %s\nname:  %s\n", u.ID, u.Email, u.Name)
			return nil
		},
	}
}

func (a *App) deleteAccountCmd() *cli.Command {
	var yes bool
	return &cli.Command{
		Name:  "delete-account",
		Usage: "Delete the logged in account and its chat history",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation", Destination: &yes},
		},
		Action: func(c *cli.Context) error {
			if !yes {
				answer, err := Ask(a.reader, a.out, "Type 'delete' to confirm")
				if err != nil {
					return err
				}
				if answer != "delete" {
					a.printf("Aborted\n")
					return nil
				}
			}
			if err := a.api.DeleteAccount(c.Context); err != nil {
				return requireSession(err)
			}
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			a.printf("Account deleted\n")
			return nil
		},
	}
}
