package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"tasklist/app/auth"
	"tasklist/app/client"
	"tasklist/app/config"

	ci "github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// App holds what the commands share.
type App struct {
	config   *config.Config
	sessions auth.SessionStore
	// provider is nil in development mode, where nobody signs in.
	provider auth.IdentityProvider
	creds    *auth.Credentials
	board    *client.Board
	in       io.Reader
	out      io.Writer
}

// Deps lets callers supply the collaborators directly.
type Deps struct {
	Sessions    auth.SessionStore
	Provider    auth.IdentityProvider
	Credentials *auth.Credentials
	API         client.TaskAPI
	In          io.Reader
	Out         io.Writer
}

// NewAppWithDeps creates an App from ready-made collaborators.
func NewAppWithDeps(cfg *config.Config, deps Deps) *App {
	return &App{
		config:   cfg,
		sessions: deps.Sessions,
		provider: deps.Provider,
		creds:    deps.Credentials,
		board:    client.NewBoard(deps.API),
		in:       deps.In,
		out:      deps.Out,
	}
}

// NewApp wires the real collaborators. In development mode requests go out
// unsigned; otherwise they are signed with credentials exchanged for the
// stored session.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	sessions := auth.FileSessionStore{Path: cfg.Client.SessionFile}
	httpClient := &http.Client{Timeout: cfg.Client.Timeout}

	if cfg.Server.Development {
		return NewAppWithDeps(cfg, Deps{
			Sessions: sessions,
			API:      client.NewTaskClient(cfg.Client.APIURL, auth.Unsigned{}, httpClient),
			In:       in,
			Out:      out,
		}), nil
	}

	if !cfg.Auth.SigningEnabled() {
		return nil, &config.ConfigError{
			Field:   "auth",
			Message: "COGNITO_USER_POOL_ID, COGNITO_USER_POOL_APP_CLIENT_ID and COGNITO_IDENTITY_POOL_ID are required outside development mode",
		}
	}

	awsCfg, err := config.InitAnonymousAWS(ctx, cfg.Auth.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	provider := auth.NewCognitoUserPool(cip.NewFromConfig(awsCfg), cfg.Auth.ClientID)
	exchanger := auth.NewCognitoIdentityPool(ci.NewFromConfig(awsCfg), cfg.Auth.Region, cfg.Auth.UserPoolID, cfg.Auth.IdentityPoolID)
	creds := auth.NewCredentials(sessions, provider, exchanger)
	signer := auth.NewSigner(creds, cfg.Auth.Region, cfg.Auth.SigningService)

	return NewAppWithDeps(cfg, Deps{
		Sessions:    sessions,
		Provider:    provider,
		Credentials: creds,
		API:         client.NewTaskClient(cfg.Client.APIURL, signer, httpClient),
		In:          in,
		Out:         out,
	}), nil
}

// requireSession gates the task commands on a stored session.
func (a *App) requireSession() error {
	if a.config.Server.Development {
		return nil
	}
	if _, err := a.sessions.Load(); err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return errors.New("not signed in; run 'todo login' first")
		}
		return err
	}
	return nil
}

func (a *App) invalidate() {
	if a.creds != nil {
		a.creds.Invalidate()
	}
}
