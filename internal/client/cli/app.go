package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/corporatesaathi/saathi/internal/client/api"
	"github.com/corporatesaathi/saathi/internal/client/auth"
	"github.com/corporatesaathi/saathi/internal/client/config"
	"github.com/corporatesaathi/saathi/internal/client/identity"
	"github.com/corporatesaathi/saathi/internal/client/localdb"
	"github.com/corporatesaathi/saathi/internal/client/repositories/metadata"
	"github.com/corporatesaathi/saathi/internal/client/session"
	"github.com/corporatesaathi/saathi/internal/client/theme"
	"github.com/corporatesaathi/saathi/internal/logging"
)

// ClientsBackend is the resource API used by the dashboard commands.
// *api.ClientsAPI satisfies it.
type ClientsBackend interface {
	Services(ctx context.Context) (*api.Envelope[[]api.Service], error)
	Service(ctx context.Context, id string) (*api.Envelope[api.Service], error)
	DashboardStats(ctx context.Context) (*api.Envelope[api.DashboardStats], error)
	EnrolledServices(ctx context.Context) (*api.Envelope[[]api.Enrollment], error)
	Enroll(ctx context.Context, req api.EnrollmentRequest) (*api.Envelope[api.Enrollment], error)
}

type App struct {
	db     *sql.DB
	logger logging.Logger

	shell    *session.Shell
	authAPI  auth.Backend
	tokens   auth.TokenSetter
	provider auth.IdentityProvider
	clients  ClientsBackend
	profiles session.ProfileFetcher
	machine  *auth.Machine

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and wires the API client, the session
// shell and the sign-in machine.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	db, err := localdb.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := session.NewStore(metadata.NewSQLiteRepository(db))

	apiClient, err := api.New(c.APIURL, store,
		api.WithLogger(logger.With("component", "api")),
		api.WithTimeout(c.RequestTimeout),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	shell := session.NewShell(store, apiClient.Auth(),
		session.WithBootstrapRetries(c.BootstrapRetries),
		session.WithShellLogger(logger.With("component", "session")),
	)

	a := &App{
		db:       db,
		logger:   logger,
		shell:    shell,
		authAPI:  apiClient.Auth(),
		tokens:   store,
		clients:  apiClient.Clients(),
		profiles: apiClient.Auth(),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	if c.GoogleClientID != "" {
		p, err := identity.NewTerminalProvider(c.GoogleClientID, a.readCredential)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.provider = p
	}

	a.resetMachine()
	return a, nil
}

// resetMachine replaces the sign-in machine with a fresh one in the login
// view. A machine is single-use: it is dropped once sign-in completes.
func (a *App) resetMachine() {
	opts := []auth.Option{
		auth.OnAuthenticated(a.shell.Login),
		auth.WithLogger(a.logger.With("component", "auth")),
	}
	if a.provider != nil {
		opts = append(opts, auth.WithIdentityProvider(a.provider))
	}
	a.machine = auth.NewMachine(a.authAPI, a.tokens, opts...)
}

func (a *App) readCredential(context.Context) (string, error) {
	return getSimpleText(a.reader, "Paste the Google ID token issued for this app", a.out)
}

// Run restores the previous session, if any, and blocks in the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, a.styles().Title.Render("CorporateSaathi")+" (type 'help' for commands)")

	if err := a.shell.Bootstrap(ctx); err != nil {
		return err
	}
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Signed in as %s.\n", a.shell.Snapshot().ClientName)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing database", "error", err)
		}
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.shell.Authenticated()
}

// getStatus renders the prompt context: the auth view before sign-in, the
// user and dashboard view after.
func (a *App) getStatus() string {
	if a.isLoggedIn() {
		snap := a.shell.Snapshot()
		return fmt.Sprintf("(%s@%s)", snap.ClientName, snap.View)
	}
	return fmt.Sprintf("(%s)", a.machine.State().View)
}

func (a *App) styles() theme.Styles {
	return theme.StylesFor(a.shell.Theme())
}

func (a *App) printError(msg string) {
	fmt.Fprintln(a.out, a.styles().Error.Render(msg))
}

func (a *App) printInfo(msg string) {
	fmt.Fprintln(a.out, a.styles().Info.Render(msg))
}

// SetTheme changes and persists the theme preference.
func (a *App) SetTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Current theme: %s. Usage: theme <light|dark|system>\n", a.shell.Theme())
		return nil
	}
	t, err := a.shell.SetTheme(ctx, args[0])
	if err != nil {
		a.printError(err.Error())
		return err
	}
	a.printInfo(fmt.Sprintf("Theme set to %s.", t))
	return nil
}
