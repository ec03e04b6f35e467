package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/corporatesaathi/saathi/internal/client/api"
	"github.com/corporatesaathi/saathi/internal/common"
	"github.com/corporatesaathi/saathi/internal/logging"
)

// View is one of the mutually exclusive screens of the sign-in flow.
type View string

const (
	ViewLogin  View = "login"
	ViewSignup View = "signup"
	ViewOTP    View = "otp"
)

// User-facing messages.
const (
	MsgOTPSent         = "OTP sent to your email!"
	MsgOTPResent       = "New OTP sent to your email!"
	MsgVerified        = "Verification successful!"
	MsgGoogleSuccess   = "Google login successful!"
	MsgInvalidLogin    = "Invalid email or password."
	MsgAccountNotFound = "Account not found."
	MsgLoginFailed     = "Login failed."
	MsgEmailRegistered = "Email already registered."
	MsgRegisterFailed  = "Registration failed."
	MsgInvalidOTP      = "Invalid OTP. Please try again."
	MsgResendFailed    = "Failed to resend OTP."
	MsgGoogleFailed    = "Google authentication failed. Please try again."
	defaultDisplayName = "User"
)

// Form holds the values typed by the user. Fields survive tab switches.
type Form struct {
	Email           string
	Password        string
	Name            string
	Phone           string
	ConfirmPassword string
	OTP             string
}

// State is a snapshot of the machine.
type State struct {
	View    View
	Form    Form
	Error   string
	Message string
	Loading bool
	Done    bool
}

// Backend is the subset of the API the sign-in flow needs. *api.AuthAPI
// satisfies it.
type Backend interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.Envelope[api.AuthPayload], error)
	Login(ctx context.Context, req api.LoginRequest) (*api.Envelope[api.AuthPayload], error)
	VerifyOTP(ctx context.Context, req api.OTPRequest) (*api.Envelope[api.AuthPayload], error)
	ResendOTP(ctx context.Context, email string) (*api.Envelope[api.MessagePayload], error)
	GoogleAuth(ctx context.Context, credential string) (*api.Envelope[api.AuthPayload], error)
}

// TokenSetter persists the bearer token issued on successful sign-in.
type TokenSetter interface {
	SetToken(ctx context.Context, token string) error
}

type Option func(*Machine)

// WithIdentityProvider enables GoogleSignIn.
func WithIdentityProvider(p IdentityProvider) Option {
	return func(m *Machine) { m.provider = p }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// OnAuthenticated registers the callback fired with the user's display name
// once sign-in completes.
func OnAuthenticated(fn func(name string)) Option {
	return func(m *Machine) { m.onAuthenticated = fn }
}

// Machine is the sign-in state machine. It is safe for concurrent use; the
// lock is not held while a request is in flight.
type Machine struct {
	backend  Backend
	tokens   TokenSetter
	provider IdentityProvider
	logger   logging.Logger

	onAuthenticated func(name string)

	mu    sync.Mutex
	state State
}

// NewMachine returns a machine in the login view.
func NewMachine(backend Backend, tokens TokenSetter, opts ...Option) *Machine {
	m := &Machine{
		backend: backend,
		tokens:  tokens,
		logger:  logging.NewNopLogger(),
		state:   State{View: ViewLogin},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.provider != nil {
		m.provider.OnCredential(m.exchangeCredential)
	}
	return m
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// GoogleEnabled reports whether an identity provider is configured.
func (m *Machine) GoogleEnabled() bool {
	return m.provider != nil
}

func (m *Machine) SetEmail(v string)           { m.setField(func(f *Form) { f.Email = v }) }
func (m *Machine) SetPassword(v string)        { m.setField(func(f *Form) { f.Password = v }) }
func (m *Machine) SetName(v string)            { m.setField(func(f *Form) { f.Name = v }) }
func (m *Machine) SetPhone(v string)           { m.setField(func(f *Form) { f.Phone = v }) }
func (m *Machine) SetConfirmPassword(v string) { m.setField(func(f *Form) { f.ConfirmPassword = v }) }

// SetOTP stores the digits of v, at most six of them.
func (m *Machine) SetOTP(v string) {
	v = SanitizeOTP(v)
	m.setField(func(f *Form) { f.OTP = v })
}

func (m *Machine) setField(fn func(*Form)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state.Form)
}

// CanVerify reports whether the verify action is enabled.
func (m *Machine) CanVerify() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canVerifyLocked()
}

func (m *Machine) canVerifyLocked() bool {
	return len(m.state.Form.OTP) == common.OTPLength && !m.state.Loading
}

// SwitchTab moves between the login and signup views. Messages are cleared,
// field values are kept.
func (m *Machine) SwitchTab(v View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v != ViewLogin && v != ViewSignup {
		return ErrInvalidTransition
	}
	if m.state.View == ViewOTP || m.state.Done {
		return ErrInvalidTransition
	}
	m.state.View = v
	m.clearMessagesLocked()
	return nil
}

// Back returns from the otp view to login and clears the code.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.View != ViewOTP || m.state.Loading {
		return ErrInvalidTransition
	}
	m.state.View = ViewLogin
	m.state.Form.OTP = ""
	m.clearMessagesLocked()
	return nil
}

// SubmitLogin sends the credentials. On success the backend mails an OTP and
// the machine moves to the otp view.
func (m *Machine) SubmitLogin(ctx context.Context) error {
	form, err := m.begin(ViewLogin)
	if err != nil {
		return err
	}
	defer m.end()

	env, err := m.backend.Login(ctx, api.LoginRequest{Email: form.Email, Password: form.Password})
	if err = envelopeErr(env, err); err != nil {
		return m.fail(ctx, "login", err, loginMessage(err))
	}

	m.update(func(s *State) {
		s.Message = MsgOTPSent
		s.View = ViewOTP
	})
	return nil
}

// SubmitSignup pre-validates the form and registers the account. A failed
// pre-check never reaches the backend.
func (m *Machine) SubmitSignup(ctx context.Context) error {
	form, err := m.begin(ViewSignup)
	if err != nil {
		return err
	}
	defer m.end()

	if err := ValidateSignup(form); err != nil {
		m.update(func(s *State) { s.Error = err.Error() })
		return nil
	}

	env, err := m.backend.Register(ctx, api.RegisterRequest{
		Name:            form.Name,
		Email:           form.Email,
		Phone:           form.Phone,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err = envelopeErr(env, err); err != nil {
		return m.fail(ctx, "register", err, signupMessage(err))
	}

	m.update(func(s *State) {
		s.Message = MsgOTPSent
		s.View = ViewOTP
	})
	return nil
}

// VerifyOTP confirms the emailed code. On success the issued token is stored
// before the authenticated callback fires.
func (m *Machine) VerifyOTP(ctx context.Context) error {
	m.mu.Lock()
	if m.state.View == ViewOTP && !m.state.Loading && len(m.state.Form.OTP) != common.OTPLength {
		m.mu.Unlock()
		return ErrOTPIncomplete
	}
	m.mu.Unlock()

	form, err := m.begin(ViewOTP)
	if err != nil {
		return err
	}
	defer m.end()

	env, err := m.backend.VerifyOTP(ctx, api.OTPRequest{Email: form.Email, OTP: form.OTP})
	if err = envelopeErr(env, err); err != nil {
		return m.fail(ctx, "verify otp", err, api.Message(err, MsgInvalidOTP))
	}

	return m.complete(ctx, env.Data, MsgVerified, MsgInvalidOTP)
}

// ResendOTP asks the backend to mail a new code.
func (m *Machine) ResendOTP(ctx context.Context) error {
	form, err := m.begin(ViewOTP)
	if err != nil {
		return err
	}
	defer m.end()

	env, err := m.backend.ResendOTP(ctx, form.Email)
	if err = envelopeErr(env, err); err != nil {
		return m.fail(ctx, "resend otp", err, api.Message(err, MsgResendFailed))
	}

	m.update(func(s *State) { s.Message = MsgOTPResent })
	return nil
}

// GoogleSignIn opens the identity provider prompt. The credential it yields
// is exchanged with the backend, bypassing the otp view.
func (m *Machine) GoogleSignIn(ctx context.Context) error {
	if m.provider == nil {
		return ErrGoogleDisabled
	}

	m.mu.Lock()
	switch {
	case m.state.Done:
		m.mu.Unlock()
		return ErrDone
	case m.state.View == ViewOTP:
		m.mu.Unlock()
		return ErrInvalidTransition
	case m.state.Loading:
		m.mu.Unlock()
		return ErrBusy
	}
	m.mu.Unlock()

	if err := m.provider.Prompt(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		m.logger.Warn(ctx, "identity prompt failed", "error", err)
		m.update(func(s *State) {
			s.Message = ""
			s.Error = MsgGoogleFailed
		})
	}
	return nil
}

// exchangeCredential is registered with the identity provider.
func (m *Machine) exchangeCredential(ctx context.Context, credential string) {
	m.mu.Lock()
	if m.state.Done || m.state.Loading || m.state.View == ViewOTP {
		view := m.state.View
		m.mu.Unlock()
		m.logger.Warn(ctx, "credential ignored", "view", string(view))
		return
	}
	m.state.Loading = true
	m.clearMessagesLocked()
	m.mu.Unlock()
	defer m.end()

	env, err := m.backend.GoogleAuth(ctx, credential)
	if err = envelopeErr(env, err); err != nil {
		_ = m.fail(ctx, "google auth", err, api.Message(err, MsgGoogleFailed))
		return
	}
	_ = m.complete(ctx, env.Data, MsgGoogleSuccess, MsgGoogleFailed)
}

// complete stores the token, if any, and fires the authenticated callback.
func (m *Machine) complete(ctx context.Context, payload *api.AuthPayload, msg, fallback string) error {
	name := defaultDisplayName
	if payload != nil {
		if payload.Token != "" && m.tokens != nil {
			if err := m.tokens.SetToken(ctx, payload.Token); err != nil {
				return m.fail(ctx, "store token", err, fallback)
			}
		}
		name = payload.User.DisplayName()
	}

	m.update(func(s *State) {
		s.Message = msg
		s.Done = true
	})
	m.logger.Info(ctx, "signed in", "name", name)

	if m.onAuthenticated != nil {
		m.onAuthenticated(name)
	}
	return nil
}

// begin validates that a request may start from view want, turns loading on
// and clears messages. It returns a copy of the form for the request.
func (m *Machine) begin(want View) (Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.state.Done:
		return Form{}, ErrDone
	case m.state.Loading:
		return Form{}, ErrBusy
	case m.state.View != want:
		return Form{}, ErrInvalidTransition
	}
	m.state.Loading = true
	m.clearMessagesLocked()
	return m.state.Form, nil
}

func (m *Machine) end() {
	m.update(func(s *State) { s.Loading = false })
}

func (m *Machine) update(fn func(*State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
}

// fail records msg as the error. A canceled request leaves no message and
// returns the context error.
func (m *Machine) fail(ctx context.Context, op string, err error, msg string) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	m.logger.Warn(ctx, op+" failed", "error", err, "kind", api.KindOf(err).String())
	m.update(func(s *State) {
		s.Message = ""
		s.Error = msg
	})
	return nil
}

func (m *Machine) clearMessagesLocked() {
	m.state.Error = ""
	m.state.Message = ""
}

// envelopeErr folds a success=false envelope into the error path.
func envelopeErr[T any](env *api.Envelope[T], err error) error {
	if err != nil {
		return err
	}
	return env.Err()
}

func loginMessage(err error) string {
	switch api.KindOf(err) {
	case api.KindInvalidCredentials:
		return MsgInvalidLogin
	case api.KindNotFound:
		return MsgAccountNotFound
	}
	return api.Message(err, MsgLoginFailed)
}

func signupMessage(err error) string {
	if api.KindOf(err) == api.KindDuplicateEmail {
		return MsgEmailRegistered
	}
	return api.Message(err, MsgRegisterFailed)
}
