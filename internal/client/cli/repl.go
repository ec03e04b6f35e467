package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Login(ctx context.Context, args []string) error
	Signup(ctx context.Context, args []string) error
	Tab(ctx context.Context, args []string) error
	OTP(ctx context.Context, args []string) error
	Resend(ctx context.Context, args []string) error
	Back(ctx context.Context, args []string) error
	Google(ctx context.Context, args []string) error
	SetTheme(ctx context.Context, args []string) error

	View(ctx context.Context, args []string) error
	Home(ctx context.Context, args []string) error
	Services(ctx context.Context, args []string) error
	Service(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	MyServices(ctx context.Context, args []string) error
	Enroll(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

const (
	unauthHelp = "Available commands: login, signup, tab <login|signup>, otp [code], resend, back, google, theme [name], exit"
	authHelp   = "Available commands: home, view <name>, services, service <id>, stats, my-services, enroll <serviceId>, profile, search [text], theme [name], logout, exit"
)

type command func(ctx context.Context, args []string) error

// runREPL reads commands line by line from reader and dispatches them to a.
// Interactive prompts issued by commands share the same reader. The loop exits on EOF,
// a canceled ctx or "exit"/"quit".
//
// Which commands are accepted depends on whether a session exists: the
// sign-in commands before, the dashboard commands after. theme, help and
// exit work in both. Errors returned by handlers are ignored here; handlers
// report their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	unauth := map[string]command{
		"login":  a.Login,
		"signup": a.Signup,
		"tab":    a.Tab,
		"otp":    a.OTP,
		"resend": a.Resend,
		"back":   a.Back,
		"google": a.Google,
	}
	authed := map[string]command{
		"view":        a.View,
		"home":        a.Home,
		"services":    a.Services,
		"service":     a.Service,
		"stats":       a.Stats,
		"my-services": a.MyServices,
		"enroll":      a.Enroll,
		"profile":     a.Profile,
		"search":      a.Search,
		"logout":      a.Logout,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("saathi %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(authHelp)
			} else {
				printlnFn(unauthHelp)
			}
			continue
		case "theme":
			_ = a.SetTheme(ctx, args)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		table := unauth
		if a.isLoggedIn() {
			table = authed
		}
		if fn, ok := table[cmd]; ok {
			_ = fn(ctx, args)
			continue
		}

		switch {
		case !a.isLoggedIn() && authed[cmd] != nil:
			printlnFn("Please log in first.")
		case a.isLoggedIn() && unauth[cmd] != nil:
			printlnFn("Already logged in. Use 'logout' first.")
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
