package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// User is the profile as known to the client. It is authoritative only as
// last fetched from the backend.
type User struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role,omitempty"`
	IsVerified bool   `json:"isVerified,omitempty"`
}

// DisplayName returns the user's name or "User" when the backend sent none.
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return "User"
	}
	return u.Name
}

// AuthPayload is returned by OTP verification and Google sign-in.
type AuthPayload struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

type MessagePayload struct {
	Message string `json:"message"`
}

type Service struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Duration    Text     `json:"duration,omitempty"`
	Features    []string `json:"features,omitempty"`
}

type DashboardStats struct {
	EnrolledServices  int `json:"enrolledServices"`
	ActiveServices    int `json:"activeServices"`
	CompletedServices int `json:"completedServices"`
	PendingDocuments  int `json:"pendingDocuments"`
	UpcomingDeadlines int `json:"upcomingDeadlines"`
}

type Enrollment struct {
	ID             string         `json:"_id"`
	ServiceID      string         `json:"serviceId"`
	Service        *Service       `json:"service,omitempty"`
	Status         string         `json:"status"`
	Progress       float64        `json:"progress,omitempty"`
	EnrolledAt     time.Time      `json:"enrolledAt"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type GoogleAuthRequest struct {
	Token string `json:"token"`
}

type EnrollmentRequest struct {
	ServiceID      string         `json:"serviceId"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
}

// Text is a display string that also accepts a JSON number or boolean,
// kept as its literal form. null decodes to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if !json.Valid(data) || data[0] == '{' || data[0] == '[' {
		return fmt.Errorf("cannot decode %s as text", data)
	}
	*t = Text(data)
	return nil
}
