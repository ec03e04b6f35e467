package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/corporatesaathi/saathi/internal/client/api"
	"github.com/corporatesaathi/saathi/internal/client/session"
)

const placeholderText = "Coming soon. Contact your CorporateSaathi advisor for details."

// View switches the dashboard view and renders it.
func (a *App) View(ctx context.Context, args []string) error {
	if len(args) != 1 {
		names := make([]string, 0, len(session.Views()))
		for _, v := range session.Views() {
			names = append(names, string(v))
		}
		fmt.Fprintf(a.out, "Usage: view <%s>\n", strings.Join(names, "|"))
		return nil
	}

	v, err := a.shell.Navigate(session.View(args[0]))
	if err != nil {
		a.printError("Please log in first.")
		return err
	}
	fmt.Fprintln(a.out, a.styles().Title.Render(viewTitle(v)))

	switch v {
	case session.ViewEnrolledServices:
		return a.MyServices(ctx, nil)
	case session.ViewServiceHub:
		return a.Services(ctx, nil)
	case session.ViewProfile:
		return a.Profile(ctx, nil)
	case session.ViewCalendar, session.ViewDocuments, session.ViewReports, session.ViewConsult:
		fmt.Fprintln(a.out, a.styles().Muted.Render(placeholderText))
		return nil
	default:
		return a.Home(ctx, nil)
	}
}

func viewTitle(v session.View) string {
	switch v {
	case session.ViewEnrolledServices:
		return "My Services"
	case session.ViewServiceHub:
		return "Service Hub"
	case session.ViewCalendar:
		return "Compliance Calendar"
	case session.ViewDocuments:
		return "Documents"
	case session.ViewReports:
		return "Reports"
	case session.ViewConsult:
		return "Consult an Expert"
	case session.ViewProfile:
		return "Profile"
	default:
		return "Home"
	}
}

// Home greets the user and shows the dashboard numbers.
func (a *App) Home(ctx context.Context, _ []string) error {
	fmt.Fprintf(a.out, "Hello, %s!\n", a.shell.Snapshot().ClientName)
	return a.Stats(ctx, nil)
}

func (a *App) Stats(ctx context.Context, _ []string) error {
	env, err := a.clients.DashboardStats(ctx)
	if err = a.check(ctx, envErr(env, err)); err != nil {
		return err
	}
	s := api.DashboardStats{}
	if env.Data != nil {
		s = *env.Data
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Enrolled services\t%d\n", s.EnrolledServices)
	fmt.Fprintf(tw, "Active\t%d\n", s.ActiveServices)
	fmt.Fprintf(tw, "Completed\t%d\n", s.CompletedServices)
	fmt.Fprintf(tw, "Pending documents\t%d\n", s.PendingDocuments)
	fmt.Fprintf(tw, "Upcoming deadlines\t%d\n", s.UpcomingDeadlines)
	return tw.Flush()
}

// Services lists the public catalog, filtered by the current search query.
func (a *App) Services(ctx context.Context, _ []string) error {
	env, err := a.clients.Services(ctx)
	if err = a.check(ctx, envErr(env, err)); err != nil {
		return err
	}

	var list []api.Service
	if env.Data != nil {
		list = filterServices(*env.Data, a.shell.Snapshot().SearchQuery)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, a.styles().Muted.Render("No services found."))
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Category, formatPrice(s.Price))
	}
	return tw.Flush()
}

// Service shows one catalog entry.
func (a *App) Service(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: service <id>")
		return nil
	}
	env, err := a.clients.Service(ctx, args[0])
	if err = a.check(ctx, envErr(env, err)); err != nil {
		return err
	}
	if env.Data == nil {
		fmt.Fprintln(a.out, a.styles().Muted.Render("Service not found."))
		return nil
	}

	s := env.Data
	fmt.Fprintln(a.out, a.styles().Title.Render(s.Name))
	if s.Description != "" {
		fmt.Fprintln(a.out, s.Description)
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Category\t%s\n", s.Category)
	fmt.Fprintf(tw, "Price\t%s\n", formatPrice(s.Price))
	if s.Duration != "" {
		fmt.Fprintf(tw, "Duration\t%s\n", s.Duration)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, f := range s.Features {
		fmt.Fprintf(a.out, "  - %s\n", f)
	}
	return nil
}

// MyServices lists the user's enrollments.
func (a *App) MyServices(ctx context.Context, _ []string) error {
	env, err := a.clients.EnrolledServices(ctx)
	if err = a.check(ctx, envErr(env, err)); err != nil {
		return err
	}

	var list []api.Enrollment
	if env.Data != nil {
		list = filterEnrollments(*env.Data, a.shell.Snapshot().SearchQuery)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, a.styles().Muted.Render("You are not enrolled in any service yet. Try 'services'."))
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERVICE\tSTATUS\tPROGRESS\tSINCE")
	for _, e := range list {
		name := e.ServiceID
		if e.Service != nil && e.Service.Name != "" {
			name = e.Service.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\t%s\n", e.ID, name, e.Status, e.Progress, e.EnrolledAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

// Enroll enrolls the user in a service, asking for optional details.
func (a *App) Enroll(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: enroll <serviceId>")
		return nil
	}
	info, err := getMetadata(a.reader, "Additional details for your advisor (optional)", a.out)
	if err != nil {
		return err
	}

	req := api.EnrollmentRequest{ServiceID: args[0]}
	if len(info) > 0 {
		req.AdditionalInfo = make(map[string]any, len(info))
		for k, v := range info {
			req.AdditionalInfo[k] = v
		}
	}
	env, err := a.clients.Enroll(ctx, req)
	if err = a.check(ctx, envErr(env, err)); err != nil {
		return err
	}

	msg := "Enrollment submitted."
	if env.Message != "" {
		msg = env.Message
	}
	a.printInfo(msg)
	if env.Data != nil {
		fmt.Fprintf(a.out, "Enrollment %s is %s.\n", env.Data.ID, env.Data.Status)
	}
	return nil
}

// Profile reloads and prints the signed-in user's profile.
func (a *App) Profile(ctx context.Context, _ []string) error {
	env, err := a.profiles.Profile(ctx)
	if err = a.check(ctx, envErr(env, err)); err != nil {
		return err
	}
	if env.Data == nil {
		fmt.Fprintln(a.out, a.styles().Muted.Render("Profile unavailable."))
		return nil
	}
	a.shell.SetUser(env.Data)

	u := env.Data
	verified := "no"
	if u.IsVerified {
		verified = "yes"
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", u.DisplayName())
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Role\t%s\n", u.Role)
	fmt.Fprintf(tw, "Verified\t%s\n", verified)
	return tw.Flush()
}

// Search sets the filter applied to service listings. No argument clears it.
func (a *App) Search(_ context.Context, args []string) error {
	q := strings.Join(args, " ")
	a.shell.SetSearchQuery(q)
	if q == "" {
		fmt.Fprintln(a.out, "Search cleared.")
	} else {
		fmt.Fprintf(a.out, "Filtering services by %q.\n", q)
	}
	return nil
}

// Logout forgets the token and returns to the login form.
func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.shell.Logout(ctx)
	a.resetMachine()
	if err != nil {
		a.logger.Warn(ctx, "logout", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return err
}

// check reports a failed dashboard call. A rejected token ends the session.
func (a *App) check(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.printError("Request canceled.")
		return err
	}
	if errors.Is(err, api.ErrUnauthorized) {
		_ = a.shell.Logout(ctx)
		a.resetMachine()
		a.printError("Your session has expired. Please log in again.")
		return err
	}
	a.printError(api.Message(err, api.DefaultErrorMessage))
	return err
}

func envErr[T any](env *api.Envelope[T], err error) error {
	if err != nil {
		return err
	}
	return env.Err()
}

func filterServices(list []api.Service, q string) []api.Service {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return list
	}
	out := make([]api.Service, 0, len(list))
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Category), q) {
			out = append(out, s)
		}
	}
	return out
}

func filterEnrollments(list []api.Enrollment, q string) []api.Enrollment {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return list
	}
	out := make([]api.Enrollment, 0, len(list))
	for _, e := range list {
		name := e.ServiceID
		if e.Service != nil {
			name = e.Service.Name
		}
		if strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(e.Status), q) {
			out = append(out, e)
		}
	}
	return out
}

func formatPrice(p float64) string {
	if p == 0 {
		return "-"
	}
	return fmt.Sprintf("₹%.0f", p)
}
