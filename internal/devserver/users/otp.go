package users

import (
	"crypto/subtle"
	"sync"
	"time"
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// otpStore holds at most one pending code per email. A code is consumed by
// the first successful check.
type otpStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
}

func newOTPStore() *otpStore {
	return &otpStore{entries: make(map[string]otpEntry)}
}

func (s *otpStore) put(email, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = otpEntry{code: code, expiresAt: expiresAt}
}

// check consumes the pending code of email if it equals code and has not
// expired at now. An expired code is dropped.
func (s *otpStore) check(email, code string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return false
	}
	if !now.Before(e.expiresAt) {
		delete(s.entries, email)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) != 1 {
		return false
	}
	delete(s.entries, email)
	return true
}
