// Package devserver is a local, in-memory implementation of the
// CorporateSaathi REST backend, used for development and end-to-end tests.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/corporatesaathi/saathi/internal/devserver/catalog"
	"github.com/corporatesaathi/saathi/internal/devserver/config"
	"github.com/corporatesaathi/saathi/internal/devserver/users"
	"github.com/corporatesaathi/saathi/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	addr    string
	logger  logging.Logger
	users   *users.Service
	catalog *catalog.Store
	now     func() time.Time
	router  chi.Router
}

// NewServer wires the handlers to the given services.
func NewServer(cfg *config.Config, logger logging.Logger, us *users.Service, cs *catalog.Store) *Server {
	s := &Server{
		addr:    cfg.Addr,
		logger:  logger,
		users:   us,
		catalog: cs,
		now:     time.Now,
	}
	s.router = s.routes()
	return s
}

// New builds a server with in-memory storage, the seeded catalog and OTPs
// delivered to the log.
func New(cfg *config.Config, logger logging.Logger) *Server {
	us := users.NewService(users.NewInMemoryRepository(), users.LogNotifier{Logger: logger}, logger, cfg)
	return NewServer(cfg, logger, us, catalog.NewSeededStore())
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/verify-otp", s.verifyOTP)
		r.Post("/resend-otp", s.resendOTP)
		r.Post("/google", s.google)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.me)
		})
	})

	r.Route("/api/clients", func(r chi.Router) {
		r.Get("/services", s.listServices)
		r.Get("/services/{id}", s.getService)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/dashboard/stats", s.stats)
			r.Get("/my-services", s.myServices)
			r.Post("/enroll", s.enroll)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "", "Route not found")
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "devserver listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
