package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/corporatesaathi/saathi/internal/common"
	"github.com/corporatesaathi/saathi/internal/devserver/auth"
	"github.com/corporatesaathi/saathi/internal/devserver/config"
	"github.com/corporatesaathi/saathi/internal/logging"
)

// Notifier delivers one-time passwords.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogNotifier "delivers" codes by logging them.
type LogNotifier struct {
	Logger logging.Logger
}

func (n LogNotifier) SendOTP(ctx context.Context, email, code string) error {
	n.Logger.Info(ctx, "otp issued", "email", email, "otp", code)
	return nil
}

type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

type Service struct {
	repo     Repository
	otps     *otpStore
	notifier Notifier
	logger   logging.Logger

	jwtSecret              []byte
	googleClientID         string
	otpValidityDuration    time.Duration
	accessValidityDuration time.Duration
	now                    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, notifier Notifier, logger logging.Logger, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		repo:                   repo,
		otps:                   newOTPStore(),
		notifier:               notifier,
		logger:                 logger,
		jwtSecret:              []byte(cfg.JWTSecret),
		googleClientID:         cfg.GoogleClientID,
		otpValidityDuration:    cfg.OTPValidityDuration,
		accessValidityDuration: cfg.TokenValidityDuration,
		now:                    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}

// Register creates an unverified account and mails it an OTP.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	email := normalizeEmail(in.Email)
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validationError("Name is required")
	case email == "":
		return validationError("Email is required")
	case in.Password == "":
		return validationError("Password is required")
	case in.Password != in.ConfirmPassword:
		return validationError("Passwords do not match")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationError("Invalid email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         RoleClient,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if _, err := s.repo.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return s.issueOTP(ctx, email)
}

// Login checks the password and mails an OTP. The session token is only
// issued by VerifyOTP.
func (s *Service) Login(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(user.PasswordHash) == 0 {
		// Google-only account.
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return s.issueOTP(ctx, email)
}

// VerifyOTP consumes the pending code and signs the user in.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	email = normalizeEmail(email)
	if len(code) != common.OTPLength || !s.otps.check(email, code, s.now()) {
		return nil, ErrInvalidOTP
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.Verified {
		user.Verified = true
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return s.newSession(user)
}

// ResendOTP replaces the pending code of a known account.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.repo.GetByEmail(ctx, email); err != nil {
		return err
	}
	return s.issueOTP(ctx, email)
}

// Google signs in with a Google ID token, creating a verified account on
// first use.
func (s *Service) Google(ctx context.Context, credential string) (*Session, error) {
	id, err := auth.ParseGoogleCredential(credential, s.googleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	email := normalizeEmail(id.Email)

	user, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		user = &User{
			ID:        uuid.NewString(),
			Name:      id.Name,
			Email:     email,
			Role:      RoleClient,
			Verified:  true,
			CreatedAt: s.now(),
		}
		if user, err = s.repo.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "user registered with google", "user_id", user.ID)
	case err != nil:
		return nil, err
	}
	return s.newSession(user)
}

// Authenticate returns the id of the user a session token was issued for.
func (s *Service) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) issueOTP(ctx context.Context, email string) error {
	code, err := common.RandomDigits(common.OTPLength)
	if err != nil {
		return fmt.Errorf("error generating otp: %w", err)
	}
	s.otps.put(email, code, s.now().Add(s.otpValidityDuration))
	return s.notifier.SendOTP(ctx, email, code)
}

func (s *Service) newSession(user *User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.now(), s.accessValidityDuration)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
