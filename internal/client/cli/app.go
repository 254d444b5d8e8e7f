package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/datalyn/internal/client/client"
	"github.com/dmitrijs2005/datalyn/internal/client/config"
	"github.com/urfave/cli/v2"
)

// App holds what the commands share once the global flags are parsed.
type App struct {
	config *config.Config
	api    *client.APIClient
	tokens *client.TokenStore
	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the command tree. Prompts read from in and all output
// goes to out.
func NewApp(in io.Reader, out io.Writer) *cli.App {
	a := &App{reader: bufio.NewReader(in), out: out}

	return &cli.App{
		Name:      "datalyn",
		Usage:     "Command-line client for the Datalyn API",
		Reader:    in,
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON config file",
				EnvVars: []string{"DATALYN_CLIENT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "base URL of the API",
				EnvVars: []string{"DATALYN_SERVER"},
			},
			&cli.StringFlag{
				Name:    "grpc",
				Usage:   "address of the gRPC health endpoint",
				EnvVars: []string{"DATALYN_GRPC"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per request timeout",
			},
			&cli.StringFlag{
				Name:    "token-dir",
				Usage:   "directory holding the cached session token",
				EnvVars: []string{"DATALYN_TOKEN_DIR"},
			},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			a.signupCmd(),
			a.loginCmd(),
			a.logoutCmd(),
			a.meCmd(),
			a.settingsCmd(),
			a.chatCmd(),
			a.deleteAccountCmd(),
			a.healthCmd(),
			a.smokeCmd(),
		},
	}
}

func (a *App) setup(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("server") {
		cfg.ServerURL = c.String("server")
	}
	if c.IsSet("grpc") {
		cfg.GRPCAddr = c.String("grpc")
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeout = c.Duration("timeout")
	}
	if c.IsSet("token-dir") {
		cfg.TokenDir = c.String("token-dir")
	}
	a.config = cfg

	a.api, err = client.NewAPIClient(cfg.ServerURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	a.tokens, err = client.NewTokenStore(cfg.TokenDir)
	if err != nil {
		return err
	}
	token, err := a.tokens.Load()
	switch {
	case err == nil:
		a.api.SetToken(token)
	case !errors.Is(err, client.ErrNoToken):
		return err
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// prompted returns value or, when it is empty, asks for it.
func (a *App) prompted(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	return Ask(a.reader, a.out, prompt)
}

func (a *App) password(value string) (string, error) {
	if value != "" {
		return value, nil
	}
	return AskPassword(a.reader, a.out)
}

// requireSession maps a missing token onto a hint for the user.
func requireSession(err error) error {
	if errors.Is(err, client.ErrNoToken) || errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w (run `datalyn login` first)", err)
	}
	return err
}
