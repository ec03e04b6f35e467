package api

// Backend REST endpoints.
const (
	PathRegister         = "/api/auth/register"
	PathLogin            = "/api/auth/login"
	PathGoogleAuth       = "/api/auth/google"
	PathVerifyOTP        = "/api/auth/verify-otp"
	PathResendOTP        = "/api/auth/resend-otp"
	PathProfile          = "/api/auth/me"
	PathServices         = "/api/clients/services"
	PathDashboardStats   = "/api/clients/dashboard/stats"
	PathEnrolledServices = "/api/clients/my-services"
	PathEnroll           = "/api/clients/enroll"
)
