// Package session holds the client's long-lived state: the persisted bearer
// token and theme (Store) and the application shell that restores a session
// on startup and tracks the current dashboard view (Shell).
package session
