package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/corporatesaathi/saathi/internal/client/auth"
	"github.com/corporatesaathi/saathi/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMetadata = GetMetadata

// Login prompts for email and password and submits them. On success the
// backend mails an OTP and the flow continues with the otp command.
func (a *App) Login(ctx context.Context, _ []string) error {
	if err := a.ensureTab(auth.ViewLogin); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.machine.SetEmail(email)
	a.machine.SetPassword(string(password))
	defer a.machine.SetPassword("")

	return a.afterSubmit(ctx, a.machine.SubmitLogin(ctx))
}

// Signup prompts for the registration form. Client-side checks run before
// anything is sent.
func (a *App) Signup(ctx context.Context, _ []string) error {
	if err := a.ensureTab(auth.ViewSignup); err != nil {
		return err
	}

	fields := []struct {
		prompt string
		set    func(string)
	}{
		{"Enter full name", a.machine.SetName},
		{"Enter email", a.machine.SetEmail},
		{"Enter phone", a.machine.SetPhone},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		f.set(v)
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	a.machine.SetPassword(string(password))
	a.machine.SetConfirmPassword(string(confirm))
	defer func() {
		a.machine.SetPassword("")
		a.machine.SetConfirmPassword("")
	}()

	return a.afterSubmit(ctx, a.machine.SubmitSignup(ctx))
}

// Tab switches between the login and signup forms.
func (a *App) Tab(_ context.Context, args []string) error {
	if len(args) != 1 || (args[0] != string(auth.ViewLogin) && args[0] != string(auth.ViewSignup)) {
		fmt.Fprintln(a.out, "Usage: tab <login|signup>")
		return nil
	}
	if err := a.machine.SwitchTab(auth.View(args[0])); err != nil {
		a.printError(tabError(err))
		return err
	}
	fmt.Fprintf(a.out, "Switched to %s.\n", args[0])
	return nil
}

// OTP verifies the emailed code, given inline or prompted for.
func (a *App) OTP(ctx context.Context, args []string) error {
	if a.machine.State().View != auth.ViewOTP {
		a.printError("No verification in progress. Use 'login' or 'signup' first.")
		return auth.ErrInvalidTransition
	}

	code := ""
	if len(args) > 0 {
		code = args[0]
	} else {
		v, err := getSimpleText(a.reader, "Enter the 6-digit code sent to your email", a.out)
		if err != nil {
			return err
		}
		code = v
	}

	a.machine.SetOTP(code)
	if !a.machine.CanVerify() {
		a.printError("Enter all 6 digits of the code.")
		return auth.ErrOTPIncomplete
	}
	return a.afterSubmit(ctx, a.machine.VerifyOTP(ctx))
}

func (a *App) Resend(ctx context.Context, _ []string) error {
	return a.afterSubmit(ctx, a.machine.ResendOTP(ctx))
}

func (a *App) Back(_ context.Context, _ []string) error {
	if err := a.machine.Back(); err != nil {
		a.printError("Nothing to go back from.")
		return err
	}
	fmt.Fprintln(a.out, "Back to login.")
	return nil
}

// Google signs in with a Google ID token.
func (a *App) Google(ctx context.Context, _ []string) error {
	err := a.machine.GoogleSignIn(ctx)
	if errors.Is(err, auth.ErrGoogleDisabled) {
		a.printError("Google sign-in is not configured. Set SAATHI_GOOGLE_CLIENT_ID or pass -g.")
		return err
	}
	return a.afterSubmit(ctx, err)
}

// ensureTab moves the machine to the requested form unless a verification
// is pending.
func (a *App) ensureTab(v auth.View) error {
	if a.machine.State().View == v {
		return nil
	}
	if err := a.machine.SwitchTab(v); err != nil {
		a.printError(tabError(err))
		return err
	}
	return nil
}

// afterSubmit renders the machine state after a request and finishes the
// sign-in when the machine reports completion.
func (a *App) afterSubmit(ctx context.Context, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBusy):
			a.printError("Please wait for the current request to finish.")
		case errors.Is(err, auth.ErrInvalidTransition):
			a.printError("That action is not available right now.")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			a.printError("Request canceled.")
		default:
			a.printError(err.Error())
		}
		return err
	}

	st := a.machine.State()
	if st.Error != "" {
		a.printError(st.Error)
	}
	if st.Message != "" {
		a.printInfo(st.Message)
	}

	if st.Done {
		a.resetMachine()
		if msg, ok := a.shell.ConsumeWelcome(); ok {
			fmt.Fprintln(a.out, a.styles().Title.Render(msg))
			fmt.Fprintln(a.out, "You are now logged in to CorporateSaathi. Type 'help' to get started.")
		}
		return a.View(ctx, []string{string(a.shell.Snapshot().View)})
	}
	if st.View == auth.ViewOTP && st.Error == "" {
		fmt.Fprintln(a.out, "Enter the code with 'otp <code>', 'resend' for a new one or 'back' to start over.")
	}
	return nil
}

func tabError(err error) string {
	if errors.Is(err, auth.ErrInvalidTransition) {
		return "Finish the verification or type 'back' first."
	}
	return err.Error()
}
