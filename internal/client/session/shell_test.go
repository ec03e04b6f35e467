package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corporatesaathi/saathi/internal/client/api"
	"github.com/corporatesaathi/saathi/internal/client/theme"
)

type fakeProfiles struct {
	// results are returned in order; the last one repeats.
	results []profileResult
	calls   int
}

type profileResult struct {
	env *api.Envelope[api.User]
	err error
}

func (f *fakeProfiles) Profile(ctx context.Context) (*api.Envelope[api.User], error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := f.calls - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i].env, f.results[i].err
}

func transportErr() error {
	return fmt.Errorf("dial: %w", api.ErrUnavailable)
}

func newShell(t *testing.T, token string, p *fakeProfiles, opts ...ShellOption) (*Shell, *Store) {
	t.Helper()
	store := NewStore(NewMemoryKV())
	if token != "" {
		require.NoError(t, store.SetToken(context.Background(), token))
	}
	opts = append([]ShellOption{WithRetryBackoff(time.Millisecond)}, opts...)
	return NewShell(store, p, opts...), store
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestBootstrap_NoTokenMakesNoCall(t *testing.T) {
	p := &fakeProfiles{}
	sh, _ := newShell(t, "", p)
	assert.True(t, sh.Snapshot().Loading)

	require.NoError(t, sh.Bootstrap(context.Background()))

	snap := sh.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.False(t, snap.Loading)
	assert.Zero(t, p.calls)
}

func TestBootstrap_ValidTokenRestoresSession(t *testing.T) {
	p := &fakeProfiles{results: []profileResult{{env: &api.Envelope[api.User]{
		Success: true,
		Data:    &api.User{Name: "Ann", Email: "a@b.com"},
	}}}}
	sh, store := newShell(t, "t1", p)

	require.NoError(t, sh.Bootstrap(context.Background()))

	snap := sh.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "Ann", snap.ClientName)
	assert.Equal(t, "a@b.com", snap.User.Email)
	assert.Equal(t, ViewHome, snap.View)
	tok, _ := store.Token(context.Background())
	assert.Equal(t, "t1", tok)

	_, pending := sh.ConsumeWelcome()
	assert.False(t, pending)
}

func TestBootstrap_NamelessUserIsUser(t *testing.T) {
	p := &fakeProfiles{results: []profileResult{{env: &api.Envelope[api.User]{Success: true, Data: &api.User{}}}}}
	sh, _ := newShell(t, "t1", p)

	require.NoError(t, sh.Bootstrap(context.Background()))
	assert.Equal(t, "User", sh.Snapshot().ClientName)
}

func TestBootstrap_ProfileFailureClearsTokenSilently(t *testing.T) {
	tests := []struct {
		name string
		res  profileResult
	}{
		{"unauthorized", profileResult{err: &api.Error{Status: 401, Kind: api.KindUnauthorized, Message: "Token expired"}}},
		{"server error", profileResult{err: &api.Error{Status: 500, Message: "boom"}}},
		{"unsuccessful envelope", profileResult{env: &api.Envelope[api.User]{Message: "User not found"}}},
		{"success without data", profileResult{env: &api.Envelope[api.User]{Success: true}}},
		{"malformed", profileResult{err: api.ErrBadResponse}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProfiles{results: []profileResult{tt.res}}
			sh, store := newShell(t, "t1", p)

			require.NoError(t, sh.Bootstrap(context.Background()))

			snap := sh.Snapshot()
			assert.False(t, snap.Authenticated)
			assert.False(t, snap.Loading)
			assert.Empty(t, snap.ClientName)
			assert.Equal(t, 1, p.calls, "backend answers are not retried")
			tok, _ := store.Token(context.Background())
			assert.Empty(t, tok)
		})
	}
}

func TestBootstrap_TransportFailureIsRetried(t *testing.T) {
	p := &fakeProfiles{results: []profileResult{
		{err: transportErr()},
		{err: transportErr()},
		{env: &api.Envelope[api.User]{Success: true, Data: &api.User{Name: "Ann"}}},
	}}
	sh, store := newShell(t, "t1", p, WithBootstrapRetries(2))

	require.NoError(t, sh.Bootstrap(context.Background()))

	assert.Equal(t, 3, p.calls)
	assert.True(t, sh.Snapshot().Authenticated)
	tok, _ := store.Token(context.Background())
	assert.Equal(t, "t1", tok)
}

func TestBootstrap_TransportFailureExhaustsRetriesThenClears(t *testing.T) {
	p := &fakeProfiles{results: []profileResult{{err: transportErr()}}}
	sh, store := newShell(t, "t1", p, WithBootstrapRetries(2))

	require.NoError(t, sh.Bootstrap(context.Background()))

	assert.Equal(t, 3, p.calls)
	assert.False(t, sh.Snapshot().Authenticated)
	tok, _ := store.Token(context.Background())
	assert.Empty(t, tok)
}

func TestBootstrap_ZeroRetries(t *testing.T) {
	p := &fakeProfiles{results: []profileResult{{err: transportErr()}}}
	sh, _ := newShell(t, "t1", p, WithBootstrapRetries(0))

	require.NoError(t, sh.Bootstrap(context.Background()))
	assert.Equal(t, 1, p.calls)
}

func TestBootstrap_ExpiredJWTClearedWithoutCall(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeProfiles{}
	sh, store := newShell(t, signed(t, now.Add(-time.Minute)), p, withClock(func() time.Time { return now }))

	require.NoError(t, sh.Bootstrap(context.Background()))

	assert.Zero(t, p.calls)
	assert.False(t, sh.Snapshot().Authenticated)
	tok, _ := store.Token(context.Background())
	assert.Empty(t, tok)
}

func TestBootstrap_UnexpiredJWTIsVerifiedWithBackend(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeProfiles{results: []profileResult{{env: &api.Envelope[api.User]{Success: true, Data: &api.User{Name: "Ann"}}}}}
	sh, _ := newShell(t, signed(t, now.Add(time.Hour)), p, withClock(func() time.Time { return now }))

	require.NoError(t, sh.Bootstrap(context.Background()))
	assert.Equal(t, 1, p.calls)
	assert.True(t, sh.Snapshot().Authenticated)
}

func TestBootstrap_CanceledKeepsToken(t *testing.T) {
	p := &fakeProfiles{results: []profileResult{{err: transportErr()}}}
	sh, store := newShell(t, "t1", p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sh.Bootstrap(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, sh.Snapshot().Authenticated)
	assert.False(t, sh.Snapshot().Loading)
	tok, _ := store.Token(context.Background())
	assert.Equal(t, "t1", tok)
}

func TestBootstrap_LoadsStoredTheme(t *testing.T) {
	sh, store := newShell(t, "", &fakeProfiles{})
	require.NoError(t, store.SetTheme(context.Background(), theme.Dark))

	require.NoError(t, sh.Bootstrap(context.Background()))
	assert.Equal(t, theme.Dark, sh.Theme())
}

func TestLogin_QueuesWelcomeOnce(t *testing.T) {
	sh, _ := newShell(t, "", &fakeProfiles{})

	sh.Login("Ann")
	snap := sh.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "Ann", snap.ClientName)
	assert.Equal(t, ViewHome, snap.View)

	msg, ok := sh.ConsumeWelcome()
	assert.True(t, ok)
	assert.Equal(t, "Welcome, Ann!", msg)

	_, ok = sh.ConsumeWelcome()
	assert.False(t, ok)

	sh.Login("")
	assert.Equal(t, "User", sh.Snapshot().ClientName)
}

func TestLogout_ClearsEverything(t *testing.T) {
	sh, store := newShell(t, "t1", &fakeProfiles{})
	sh.Login("Ann")
	_, err := sh.Navigate(ViewReports)
	require.NoError(t, err)
	sh.SetSearchQuery("gst")

	require.NoError(t, sh.Logout(context.Background()))

	snap := sh.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Empty(t, snap.ClientName)
	assert.Empty(t, snap.SearchQuery)
	assert.Equal(t, ViewHome, snap.View)
	tok, _ := store.Token(context.Background())
	assert.Empty(t, tok)
	_, ok := sh.ConsumeWelcome()
	assert.False(t, ok)
}

func TestLogout_StoreFailureStillSignsOut(t *testing.T) {
	boom := errors.New("boom")
	sh := NewShell(NewStore(failingKV{err: boom}), &fakeProfiles{})
	sh.Login("Ann")

	assert.ErrorIs(t, sh.Logout(context.Background()), boom)
	assert.False(t, sh.Authenticated())
}

func TestNavigate(t *testing.T) {
	sh, _ := newShell(t, "", &fakeProfiles{})

	_, err := sh.Navigate(ViewCalendar)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	sh.Login("Ann")
	for _, v := range Views() {
		got, err := sh.Navigate(v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, v, sh.Snapshot().View)
	}

	got, err := sh.Navigate("settings")
	require.NoError(t, err)
	assert.Equal(t, ViewHome, got)
}

func TestParseView(t *testing.T) {
	v, ok := ParseView("serviceHub")
	assert.True(t, ok)
	assert.Equal(t, ViewServiceHub, v)

	v, ok = ParseView("nope")
	assert.False(t, ok)
	assert.Equal(t, ViewHome, v)
	assert.Len(t, Views(), 8)
}

func TestSetTheme(t *testing.T) {
	sh, store := newShell(t, "", &fakeProfiles{})
	assert.Equal(t, theme.Light, sh.Theme())

	got, err := sh.SetTheme(context.Background(), "system")
	require.NoError(t, err)
	assert.Equal(t, theme.System, got)
	assert.Equal(t, theme.System, sh.Theme())
	stored, _ := store.Theme(context.Background())
	assert.Equal(t, theme.System, stored)

	_, err = sh.SetTheme(context.Background(), "sepia")
	assert.ErrorIs(t, err, theme.ErrUnknownTheme)
	assert.Equal(t, theme.System, sh.Theme())
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, tokenExpired("t1", now))
	assert.False(t, tokenExpired("", now))
	assert.True(t, tokenExpired(signed(t, now.Add(-time.Second)), now))
	assert.False(t, tokenExpired(signed(t, now.Add(time.Hour)), now))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, tokenExpired(noExp, now))
}
