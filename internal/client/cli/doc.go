// Package cli provides the interactive CorporateSaathi terminal client.
//
// It wires configuration, the local preference store, the API client, the
// session shell and the sign-in machine, and drives them from a REPL.
// Typical flow: restore the stored session, or sign in with login/signup
// followed by the emailed OTP, then browse the dashboard views.
//
// Key features:
//   - Login and signup with OTP verification, Google sign-in
//   - Dashboard views: home, my services, service hub and profile
//   - Service enrollment
//   - Theme preference (light, dark, system)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
