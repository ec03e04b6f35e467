package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"

	"github.com/corporatesaathi/saathi/internal/client/api"
	"github.com/corporatesaathi/saathi/internal/client/theme"
	"github.com/corporatesaathi/saathi/internal/logging"
)

// View is a dashboard screen shown once the user is authenticated.
type View string

const (
	ViewHome             View = "home"
	ViewEnrolledServices View = "enrolledServices"
	ViewServiceHub       View = "serviceHub"
	ViewCalendar         View = "calendar"
	ViewDocuments        View = "documents"
	ViewReports          View = "reports"
	ViewConsult          View = "consult"
	ViewProfile          View = "profile"
)

var views = []View{
	ViewHome, ViewEnrolledServices, ViewServiceHub, ViewCalendar,
	ViewDocuments, ViewReports, ViewConsult, ViewProfile,
}

// Views lists the dashboard views in menu order.
func Views() []View {
	return append([]View(nil), views...)
}

// ParseView returns the view named s, or home when s is unknown.
func ParseView(s string) (View, bool) {
	for _, v := range views {
		if string(v) == s {
			return v, true
		}
	}
	return ViewHome, false
}

var ErrNotAuthenticated = errors.New("not authenticated")

// ProfileFetcher loads the profile of the token holder. *api.AuthAPI
// satisfies it.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*api.Envelope[api.User], error)
}

// Snapshot is a copy of the shell state.
type Snapshot struct {
	Loading       bool
	Authenticated bool
	ClientName    string
	User          *api.User
	View          View
	Theme         theme.Theme
	SearchQuery   string
}

type ShellOption func(*Shell)

// WithBootstrapRetries sets how many times a profile fetch that failed in
// transport is retried during Bootstrap.
func WithBootstrapRetries(n int) ShellOption {
	return func(s *Shell) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithRetryBackoff sets the base delay of the exponential backoff.
func WithRetryBackoff(d time.Duration) ShellOption {
	return func(s *Shell) {
		if d > 0 {
			s.backoff = d
		}
	}
}

func WithShellLogger(l logging.Logger) ShellOption {
	return func(s *Shell) { s.logger = l }
}

func withClock(now func() time.Time) ShellOption {
	return func(s *Shell) { s.now = now }
}

// Shell is the top-level application state. It is safe for concurrent use.
type Shell struct {
	store    *Store
	profiles ProfileFetcher
	logger   logging.Logger
	retries  int
	backoff  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	state   Snapshot
	welcome string
}

func NewShell(store *Store, profiles ProfileFetcher, opts ...ShellOption) *Shell {
	s := &Shell{
		store:    store,
		profiles: profiles,
		logger:   logging.NewNopLogger(),
		retries:  2,
		backoff:  200 * time.Millisecond,
		now:      time.Now,
		state: Snapshot{
			Loading: true,
			View:    ViewHome,
			Theme:   theme.Default,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Shell) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated
}

// Bootstrap restores the session from the stored token. Every failure ends
// unauthenticated with the token cleared; none of them is reported to the
// caller. Only a canceled ctx is returned, and it leaves the token in place.
func (s *Shell) Bootstrap(ctx context.Context) error {
	s.update(func(st *Snapshot) { st.Loading = true })
	defer s.update(func(st *Snapshot) { st.Loading = false })

	if t, err := s.store.Theme(ctx); err != nil {
		s.logger.Warn(ctx, "theme not loaded", "error", err)
	} else {
		s.update(func(st *Snapshot) { st.Theme = t })
	}

	token, err := s.store.Token(ctx)
	if err != nil {
		s.logger.Warn(ctx, "token not loaded", "error", err)
		s.signedOut()
		return nil
	}
	if token == "" {
		s.signedOut()
		return nil
	}

	if tokenExpired(token, s.now()) {
		s.logger.Info(ctx, "stored token expired")
		s.dropSession(ctx)
		return nil
	}

	user, err := s.fetchProfile(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.signedOut()
			return ctxErr
		}
		s.logger.Info(ctx, "session not restored", "error", err, "kind", api.KindOf(err).String())
		s.dropSession(ctx)
		return nil
	}

	s.update(func(st *Snapshot) {
		st.Authenticated = true
		st.User = user
		st.ClientName = user.DisplayName()
	})
	return nil
}

// fetchProfile retries transport failures only. A backend answer of any
// kind is final.
func (s *Shell) fetchProfile(ctx context.Context) (*api.User, error) {
	b := retry.WithMaxRetries(uint64(s.retries), retry.NewExponential(s.backoff))

	var user *api.User
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		env, err := s.profiles.Profile(ctx)
		if err != nil {
			if errors.Is(err, api.ErrUnavailable) {
				s.logger.Debug(ctx, "profile fetch failed, retrying", "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		if err := env.Err(); err != nil {
			return err
		}
		if env.Data == nil {
			return errors.New("profile response has no data")
		}
		user = env.Data
		return nil
	})
	return user, err
}

func (s *Shell) dropSession(ctx context.Context) {
	if err := s.store.ClearToken(ctx); err != nil {
		s.logger.Warn(ctx, "token not cleared", "error", err)
	}
	s.signedOut()
}

func (s *Shell) signedOut() {
	s.update(func(st *Snapshot) {
		st.Authenticated = false
		st.User = nil
		st.ClientName = ""
		st.View = ViewHome
	})
}

// Login records a completed sign-in and queues the welcome notice.
func (s *Shell) Login(name string) {
	if name == "" {
		name = "User"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Authenticated = true
	s.state.ClientName = name
	s.state.View = ViewHome
	s.welcome = "Welcome, " + name + "!"
}

// SetUser replaces the cached profile, e.g. after the profile view reloads it.
func (s *Shell) SetUser(u *api.User) {
	s.update(func(st *Snapshot) {
		st.User = u
		if u != nil {
			st.ClientName = u.DisplayName()
		}
	})
}

// Logout clears the token and returns to the unauthenticated state. The
// in-memory state is reset even when the token cannot be removed.
func (s *Shell) Logout(ctx context.Context) error {
	err := s.store.ClearToken(ctx)
	s.signedOut()
	s.update(func(st *Snapshot) { st.SearchQuery = "" })
	s.mu.Lock()
	s.welcome = ""
	s.mu.Unlock()
	return err
}

// Navigate switches the dashboard view. Unknown views fall back to home.
func (s *Shell) Navigate(v View) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Authenticated {
		return s.state.View, ErrNotAuthenticated
	}
	if _, ok := ParseView(string(v)); !ok {
		v = ViewHome
	}
	s.state.View = v
	return v, nil
}

func (s *Shell) SetSearchQuery(q string) {
	s.update(func(st *Snapshot) { st.SearchQuery = q })
}

// SetTheme validates and persists the preference. The in-memory value
// changes only when it was stored.
func (s *Shell) SetTheme(ctx context.Context, name string) (theme.Theme, error) {
	t, err := theme.Parse(name)
	if err != nil {
		return "", err
	}
	if err := s.store.SetTheme(ctx, t); err != nil {
		return "", err
	}
	s.update(func(st *Snapshot) { st.Theme = t })
	return t, nil
}

func (s *Shell) Theme() theme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Theme
}

// ConsumeWelcome returns the pending welcome notice once.
func (s *Shell) ConsumeWelcome() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.welcome
	s.welcome = ""
	return msg, msg != ""
}

func (s *Shell) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// tokenExpired reports whether token is a JWT whose exp lies before now.
// Opaque tokens are never considered expired here.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}
