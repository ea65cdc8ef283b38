// Package middleware holds the http.Handler wrappers that sit between the
// server and the controllers.
package middleware

import (
	"net/http"

	"kanwiki/internal/auth"
)

// Auth guards a route for logged-in users. It only reads the identity that
// WithUser stored, so WithUser must run earlier in the chain.
func Auth(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return sessions.RequireLogin
}

// WithUser checks the user_id cookie once per request and, when it names a
// known user, makes that user available through auth.UserFromContext.
func WithUser(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return sessions.WithUser
}
