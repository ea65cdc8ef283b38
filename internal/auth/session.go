package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"kanwiki/internal/common"
	"kanwiki/internal/models"
)

// CookieName is the name of the session cookie.
const CookieName = "user_id"

type contextKey struct{}

var userKey contextKey

// UserFinder looks up users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// CookieOptions holds the optional flags of the session cookie. Both are off
// unless configured.
type CookieOptions struct {
	HTTPOnly bool
	Secure   bool
}

// Sessions issues, clears and resolves signed session cookies.
type Sessions struct {
	Signer  *Signer
	Users   UserFinder
	Options CookieOptions
	Log     *slog.Logger
}

// NewSessions creates a session manager.
func NewSessions(signer *Signer, users UserFinder, opts CookieOptions, log *slog.Logger) *Sessions {
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{Signer: signer, Users: users, Options: opts, Log: log}
}

// Login sets the signed session cookie for user.
func (s *Sessions) Login(w http.ResponseWriter, user *models.User) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Signer.MakeSecureValue(strconv.FormatInt(user.ID, 10)),
		Path:     "/",
		HttpOnly: s.Options.HTTPOnly,
		Secure:   s.Options.Secure,
	})
}

// Logout clears the session cookie.
func (s *Sessions) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: s.Options.HTTPOnly,
		Secure:   s.Options.Secure,
	})
}

// CurrentUser resolves the user named by the request's session cookie.
// Missing, tampered or stale cookies resolve to no user.
func (s *Sessions) CurrentUser(r *http.Request) (*models.User, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}

	uid, ok := s.Signer.CheckSecureValue(c.Value)
	if !ok {
		s.Log.DebugContext(r.Context(), "session cookie rejected", "error", common.ErrInvalidToken)
		return nil, false
	}

	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return nil, false
	}

	user, err := s.Users.FindByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.Log.ErrorContext(r.Context(), "resolving session user", "user_id", id, "error", err)
		}
		return nil, false
	}
	return user, true
}

// WithUser resolves the current user once and adds it to the request context.
func (s *Sessions) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := s.CurrentUser(r); ok {
			r = r.WithContext(WithContextUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLogin redirects to /login unless WithUser found a user.
func (s *Sessions) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithContextUser returns a copy of ctx carrying user.
func WithContextUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by WithUser, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
