package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/avoronkov/authcore/internal/client/api"
	"github.com/avoronkov/authcore/internal/client/config"
)

// authAPI is the slice of the HTTP API the CLI uses. *api.Client
// satisfies it; tests substitute a fake.
type authAPI interface {
	Register(ctx context.Context, email string, password []byte, displayName string) (*api.TokenPair, error)
	Login(ctx context.Context, email string, password []byte) (*api.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error)
	Me(ctx context.Context, accessToken, refreshToken string) (email, renewedAccess string, err error)
	Ping(ctx context.Context) error
}

// session holds the tokens of the current login. Zero value means
// logged out.
type session struct {
	email        string
	accessToken  string
	refreshToken string
}

type App struct {
	config  *config.Config
	client  authAPI
	session session
	reader  *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.refreshToken != ""
}
