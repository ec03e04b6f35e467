// Package catalog holds the compliance service catalog of the development
// backend and the enrollments of its users.
package catalog

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/corporatesaathi/saathi/internal/client/api"
)

var (
	ErrNotFound        = errors.New("service not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this service")
)

// Enrollment statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Store is an in-memory catalog with per-user enrollments. It is safe for
// concurrent use.
type Store struct {
	mu          sync.RWMutex
	services    []api.Service
	enrollments map[string][]api.Enrollment
}

func NewStore(services []api.Service) *Store {
	return &Store{
		services:    append([]api.Service(nil), services...),
		enrollments: make(map[string][]api.Enrollment),
	}
}

// NewSeededStore returns a store with the default catalog.
func NewSeededStore() *Store {
	return NewStore(Seed())
}

func (s *Store) Services() []api.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Service(nil), s.services...)
}

func (s *Store) Service(id string) (api.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serviceLocked(id)
}

func (s *Store) serviceLocked(id string) (api.Service, error) {
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, nil
		}
	}
	return api.Service{}, ErrNotFound
}

// Enroll enrolls userID in serviceID. A user holds at most one enrollment
// per service.
func (s *Store) Enroll(userID, serviceID string, info map[string]any, now time.Time) (api.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := s.serviceLocked(serviceID)
	if err != nil {
		return api.Enrollment{}, err
	}
	for _, e := range s.enrollments[userID] {
		if e.ServiceID == serviceID {
			return api.Enrollment{}, ErrAlreadyEnrolled
		}
	}

	e := api.Enrollment{
		ID:             uuid.NewString(),
		ServiceID:      serviceID,
		Service:        &svc,
		Status:         StatusPending,
		EnrolledAt:     now.UTC(),
		AdditionalInfo: info,
	}
	s.enrollments[userID] = append(s.enrollments[userID], e)
	return e, nil
}

// Enrollments lists the enrollments of userID, newest first.
func (s *Store) Enrollments(userID string) []api.Enrollment {
	s.mu.RLock()
	out := append([]api.Enrollment(nil), s.enrollments[userID]...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnrolledAt.After(out[j].EnrolledAt)
	})
	return out
}

// SetStatus moves an enrollment along; used by tests and seeding.
func (s *Store) SetStatus(userID, enrollmentID, status string, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.enrollments[userID]
	for i := range list {
		if list[i].ID == enrollmentID {
			list[i].Status = status
			list[i].Progress = float64(progress)
			return nil
		}
	}
	return ErrNotFound
}

// Stats summarizes the enrollments of userID. Pending enrollments wait for
// documents; every unfinished one has an upcoming deadline.
func (s *Store) Stats(userID string) api.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st api.DashboardStats
	for _, e := range s.enrollments[userID] {
		st.EnrolledServices++
		switch e.Status {
		case StatusCompleted:
			st.CompletedServices++
		case StatusPending:
			st.PendingDocuments++
			st.ActiveServices++
			st.UpcomingDeadlines++
		default:
			st.ActiveServices++
			st.UpcomingDeadlines++
		}
	}
	return st
}
