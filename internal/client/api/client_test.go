package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) { return s.token, s.err }

// recorder captures the last request seen by the test server.
type recorder struct {
	mu      sync.Mutex
	method  string
	path    string
	headers http.Header
	body    []byte
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.method = req.Method
	r.path = req.URL.EscapedPath()
	r.headers = req.Header.Clone()
	r.body, _ = io.ReadAll(req.Body)
}

func newTestClient(t *testing.T, tokens TokenSource, status int, body string) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", tokens)
	require.NoError(t, err)
	return c, rec
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := New("localhost:3000", nil)
	require.Error(t, err)

	_, err = New("/api", nil)
	require.Error(t, err)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://localhost:3000/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", c.BaseURL())
}

func TestCall_AttachesHeadersAndBearerToken(t *testing.T) {
	c, rec := newTestClient(t, staticTokens{token: "t1"}, http.StatusOK, `{"success":true}`)

	_, err := c.Auth().Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "Secret1@"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, PathLogin, rec.path)
	assert.Equal(t, "application/json", rec.headers.Get("Content-Type"))
	assert.Equal(t, "Bearer t1", rec.headers.Get("Authorization"))

	_, err = uuid.Parse(rec.headers.Get("X-Request-ID"))
	assert.NoError(t, err, "request id must be a uuid")

	var sent map[string]string
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, map[string]string{"email": "a@b.com", "password": "Secret1@"}, sent)
}

func TestCall_NoTokenNoAuthorizationHeader(t *testing.T) {
	for name, tokens := range map[string]TokenSource{
		"nil source":  nil,
		"empty token": staticTokens{},
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := newTestClient(t, tokens, http.StatusOK, `{"success":true,"data":[]}`)

			_, err := c.Clients().Services(context.Background())
			require.NoError(t, err)
			assert.Empty(t, rec.headers.Get("Authorization"))
			assert.Equal(t, "application/json", rec.headers.Get("Content-Type"))
		})
	}
}

func TestCall_BearerSentOnPublicEndpoints(t *testing.T) {
	c, rec := newTestClient(t, staticTokens{token: "t1"}, http.StatusOK, `{"success":true,"data":[]}`)

	_, err := c.Clients().Services(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", rec.headers.Get("Authorization"))
}

func TestCall_TokenSourceErrorAbortsRequest(t *testing.T) {
	c, rec := newTestClient(t, staticTokens{err: errors.New("disk gone")}, http.StatusOK, `{"success":true}`)

	_, err := c.Auth().Profile(context.Background())
	require.ErrorContains(t, err, "disk gone")
	assert.Empty(t, rec.method, "no request must be sent")
}

func TestCall_SuccessEnvelopeReturnedAsIs(t *testing.T) {
	c, _ := newTestClient(t, nil, http.StatusOK,
		`{"success":true,"data":{"token":"t1","user":{"name":"Ann","email":"a@b.com"}},"message":"ok"}`)

	env, err := c.Auth().VerifyOTP(context.Background(), OTPRequest{Email: "a@b.com", OTP: "123456"})
	require.NoError(t, err)
	require.True(t, env.Success)
	require.NotNil(t, env.Data)
	assert.Equal(t, "t1", env.Data.Token)
	assert.Equal(t, "Ann", env.Data.User.DisplayName())
	assert.Equal(t, "ok", env.Message)
	assert.NoError(t, env.Err())
}

func TestCall_SuccessWithoutDataIsValid(t *testing.T) {
	c, _ := newTestClient(t, nil, http.StatusOK, `{"success":true}`)

	env, err := c.Auth().Register(context.Background(), RegisterRequest{Email: "a@b.com"})
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
}

func TestCall_2xxWithSuccessFalseIsTrusted(t *testing.T) {
	c, _ := newTestClient(t, nil, http.StatusOK, `{"success":false,"message":"OTP expired"}`)

	env, err := c.Auth().VerifyOTP(context.Background(), OTPRequest{})
	require.NoError(t, err)
	assert.False(t, env.Success)

	rejected := env.Err()
	require.Error(t, rejected)
	assert.Equal(t, KindRejected, KindOf(rejected))
	assert.Equal(t, "OTP expired", rejected.Error())
}

func TestCall_Non2xxBecomesError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantKind Kind
		unauth   bool
	}{
		{
			name:     "structured code wins",
			status:   http.StatusUnauthorized,
			body:     `{"success":false,"message":"Wrong password","code":"INVALID_CREDENTIALS"}`,
			wantMsg:  "Wrong password",
			wantKind: KindInvalidCredentials,
			unauth:   true,
		},
		{
			name:     "legacy duplicate message",
			status:   http.StatusBadRequest,
			body:     `{"success":false,"message":"User already exists"}`,
			wantMsg:  "User already exists",
			wantKind: KindDuplicateEmail,
		},
		{
			name:     "error field used when message missing",
			status:   http.StatusNotFound,
			body:     `{"success":false,"error":"Service not found"}`,
			wantMsg:  "Service not found",
			wantKind: KindNotFound,
		},
		{
			name:     "generic fallback",
			status:   http.StatusInternalServerError,
			body:     `{"success":false}`,
			wantMsg:  DefaultErrorMessage,
			wantKind: KindUnknown,
		},
		{
			name:     "non-json error body",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			wantMsg:  DefaultErrorMessage,
			wantKind: KindUnknown,
		},
		{
			name:     "bare 401",
			status:   http.StatusUnauthorized,
			body:     `{"success":false,"message":"Token expired"}`,
			wantMsg:  "Token expired",
			wantKind: KindUnauthorized,
			unauth:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, nil, tt.status, tt.body)

			env, err := c.Auth().Profile(context.Background())
			require.Error(t, err)
			assert.Nil(t, env)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.NotEmpty(t, apiErr.RequestID)
			assert.Equal(t, tt.unauth, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestCall_MalformedSuccessBody(t *testing.T) {
	c, _ := newTestClient(t, nil, http.StatusOK, `not json`)

	_, err := c.Auth().Profile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestCall_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, nil)
	require.NoError(t, err)

	_, err = c.Auth().Profile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.NotEmpty(t, Message(err, "fallback"))
}

func TestCall_CanceledContext(t *testing.T) {
	c, _ := newTestClient(t, nil, http.StatusOK, `{"success":true}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Auth().Profile(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestCall_CookiesAreSentBack(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		if ck, err := r.Cookie("sid"); err == nil {
			seen = append(seen, ck.Value)
		}
		mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Auth().Login(context.Background(), LoginRequest{})
	require.NoError(t, err)
	_, err = c.Auth().Profile(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"abc"}, seen)
}
