package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/corporatesaathi/saathi/internal/client/api"
	"github.com/corporatesaathi/saathi/internal/devserver/catalog"
	"github.com/corporatesaathi/saathi/internal/devserver/users"
)

const maxRequestBytes = 1 << 20

const (
	msgOTPSent    = "OTP sent to your email"
	msgOTPResent  = "New OTP sent to your email"
	msgEnrolled   = "Enrolled successfully"
	msgBadRequest = "Invalid request body"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	err := s.users.Register(r.Context(), users.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.Envelope[struct{}]{Success: true, Message: msgOTPSent})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.users.Login(r.Context(), req.Email, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope[struct{}]{Success: true, Message: msgOTPSent})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req api.OTPRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := s.users.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeSession(w, sess)
}

func (s *Server) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req api.ResendOTPRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.users.ResendOTP(r.Context(), req.Email); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope[api.MessagePayload]{
		Success: true,
		Data:    &api.MessagePayload{Message: msgOTPResent},
		Message: msgOTPResent,
	})
}

func (s *Server) google(w http.ResponseWriter, r *http.Request) {
	var req api.GoogleAuthRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := s.users.Google(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			s.logger.Info(r.Context(), "google credential rejected", "error", err, "request_id", requestID(r.Context()))
			writeError(w, http.StatusUnauthorized, api.CodeInvalidCredentials, "Invalid Google credential")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeSession(w, sess)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Profile(r.Context(), userID(r.Context()))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// token outlived the in-memory account
			writeError(w, http.StatusUnauthorized, api.CodeUnauthorized, "Not authorized, user not found")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope[api.User]{Success: true, Data: u.Public()})
}

func (s *Server) listServices(w http.ResponseWriter, _ *http.Request) {
	list := s.catalog.Services()
	writeJSON(w, http.StatusOK, api.Envelope[[]api.Service]{Success: true, Data: &list})
}

func (s *Server) getService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.catalog.Service(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope[api.Service]{Success: true, Data: &svc})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st := s.catalog.Stats(userID(r.Context()))
	writeJSON(w, http.StatusOK, api.Envelope[api.DashboardStats]{Success: true, Data: &st})
}

func (s *Server) myServices(w http.ResponseWriter, r *http.Request) {
	list := s.catalog.Enrollments(userID(r.Context()))
	writeJSON(w, http.StatusOK, api.Envelope[[]api.Enrollment]{Success: true, Data: &list})
}

func (s *Server) enroll(w http.ResponseWriter, r *http.Request) {
	var req api.EnrollmentRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ServiceID == "" {
		writeError(w, http.StatusBadRequest, api.CodeValidation, "Service ID is required")
		return
	}
	e, err := s.catalog.Enroll(userID(r.Context()), req.ServiceID, req.AdditionalInfo, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "enrolled", "user_id", userID(r.Context()), "service_id", req.ServiceID)
	writeJSON(w, http.StatusCreated, api.Envelope[api.Enrollment]{Success: true, Data: &e, Message: msgEnrolled})
}

// fail maps a service error onto a status, a structured code and a
// user-facing message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *users.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, api.CodeValidation, verr.Message)
	case errors.Is(err, users.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, api.CodeDuplicateEmail, "User already exists")
	case errors.Is(err, users.ErrNotFound):
		writeError(w, http.StatusNotFound, api.CodeAccountNotFound, "Account not found")
	case errors.Is(err, users.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, api.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, users.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, api.CodeInvalidOTP, "Invalid or expired OTP")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, api.CodeNotFound, "Service not found")
	case errors.Is(err, catalog.ErrAlreadyEnrolled):
		writeError(w, http.StatusConflict, api.CodeValidation, "Already enrolled in this service")
	default:
		s.logger.Error(r.Context(), "request failed", "error", err, "request_id", requestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "", "Internal server error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeValidation, msgBadRequest)
		return false
	}
	return true
}

func writeSession(w http.ResponseWriter, sess *users.Session) {
	writeJSON(w, http.StatusOK, api.Envelope[api.AuthPayload]{
		Success: true,
		Data:    &api.AuthPayload{Token: sess.Token, User: sess.User.Public()},
	})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, api.Envelope[struct{}]{Message: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
