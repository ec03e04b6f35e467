package api

import (
	"context"
	"net/http"
	"net/url"
)

// ClientsAPI groups the client-resource endpoints. The service catalog and
// service detail are public; the rest require a bearer token.
type ClientsAPI struct {
	c *Client
}

func (a *ClientsAPI) Services(ctx context.Context) (*Envelope[[]Service], error) {
	return call[[]Service](ctx, a.c, http.MethodGet, PathServices, nil)
}

func (a *ClientsAPI) Service(ctx context.Context, id string) (*Envelope[Service], error) {
	return call[Service](ctx, a.c, http.MethodGet, PathServices+"/"+url.PathEscape(id), nil)
}

func (a *ClientsAPI) DashboardStats(ctx context.Context) (*Envelope[DashboardStats], error) {
	return call[DashboardStats](ctx, a.c, http.MethodGet, PathDashboardStats, nil)
}

func (a *ClientsAPI) EnrolledServices(ctx context.Context) (*Envelope[[]Enrollment], error) {
	return call[[]Enrollment](ctx, a.c, http.MethodGet, PathEnrolledServices, nil)
}

func (a *ClientsAPI) Enroll(ctx context.Context, req EnrollmentRequest) (*Envelope[Enrollment], error) {
	return call[Enrollment](ctx, a.c, http.MethodPost, PathEnroll, req)
}
