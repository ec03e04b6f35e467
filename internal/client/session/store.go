package session

import (
	"context"
	"fmt"

	"github.com/corporatesaathi/saathi/internal/client/theme"
	"github.com/corporatesaathi/saathi/internal/common"
)

// KV is the persistence the store needs. Get returns (nil, nil) for a
// missing key. metadata.Repository satisfies it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store keeps at most one bearer token and the theme preference.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Token returns the stored token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(v), nil
}

// SetToken replaces the stored token. An empty token clears it.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	if err := s.kv.Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s *Store) ClearToken(ctx context.Context) error {
	if err := s.kv.Delete(ctx, common.TokenStorageKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Theme returns the stored preference. Missing or unknown values yield the
// default theme.
func (s *Store) Theme(ctx context.Context) (theme.Theme, error) {
	v, err := s.kv.Get(ctx, common.ThemeStorageKey)
	if err != nil {
		return theme.Default, fmt.Errorf("read theme: %w", err)
	}
	t, err := theme.Parse(string(v))
	if err != nil {
		return theme.Default, nil
	}
	return t, nil
}

func (s *Store) SetTheme(ctx context.Context, t theme.Theme) error {
	if err := s.kv.Set(ctx, common.ThemeStorageKey, []byte(t)); err != nil {
		return fmt.Errorf("store theme: %w", err)
	}
	return nil
}
